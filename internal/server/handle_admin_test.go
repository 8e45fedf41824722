package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/blueye/globalsite/internal/database"
	"github.com/blueye/globalsite/internal/migrations"
	"github.com/blueye/globalsite/internal/quiz"
)

func TestAdminLogin(t *testing.T) {
	tests := []struct {
		name     string
		req      AdminLoginRequest
		wantCode int
	}{
		{"good credentials", AdminLoginRequest{Email: testAdminEmail, Password: testAdminPassword}, http.StatusOK},
		{"email is case insensitive", AdminLoginRequest{Email: "  Admin@Blueye.KR ", Password: testAdminPassword}, http.StatusOK},
		{"wrong password", AdminLoginRequest{Email: testAdminEmail, Password: "wrong"}, http.StatusUnauthorized},
		{"unknown email", AdminLoginRequest{Email: "nobody@example.com", Password: testAdminPassword}, http.StatusUnauthorized},
		{"missing password", AdminLoginRequest{Email: testAdminEmail}, http.StatusBadRequest},
		{"not an email", AdminLoginRequest{Email: "admin", Password: testAdminPassword}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(t, http.MethodPost, "/api/admin/login", tt.req)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			resp := decode[AdminMeResponse](t, w)
			if resp.Email != testAdminEmail {
				t.Errorf("expected email %s, got %q", testAdminEmail, resp.Email)
			}
			found := false
			for _, c := range w.Result().Cookies() {
				if c.Name == adminCookieName && c.Value != "" && c.HttpOnly {
					found = true
				}
			}
			if !found {
				t.Error("expected admin_session cookie to be set")
			}
		})
	}
}

func TestAdminLoginRateLimited(t *testing.T) {
	env := newTestEnv(t, func(d *Deps, _ *quiz.Config) { d.LoginRateLimit = 2 })

	bad := AdminLoginRequest{Email: testAdminEmail, Password: "wrong"}
	for i := range 2 {
		if w := env.do(t, http.MethodPost, "/api/admin/login", bad); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, w.Code)
		}
	}
	if w := env.do(t, http.MethodPost, "/api/admin/login", bad); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestAdminMe(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/admin/me", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: expected 401, got %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/admin/me", nil, env.login(t)...)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decode[AdminMeResponse](t, w); resp.Email != testAdminEmail {
		t.Errorf("expected email %s, got %q", testAdminEmail, resp.Email)
	}
}

func TestAdminLogout(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	w := env.do(t, http.MethodPost, "/api/admin/logout", nil, cookies...)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}

	// The old cookie no longer authenticates.
	if w := env.do(t, http.MethodGet, "/api/admin/me", nil, cookies...); w.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: expected 401, got %d", w.Code)
	}
}

func TestAdminDocStoreSessions(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.MemoryPath)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewAdminDocStore(db)
	store.now = func() time.Time { return now }

	created, err := store.EnsureAdmin(ctx, testAdminEmail, testAdminHash)
	if err != nil || !created {
		t.Fatalf("EnsureAdmin = %v, %v; want true, nil", created, err)
	}
	created, err = store.EnsureAdmin(ctx, "other@blueye.kr", testAdminHash)
	if err != nil || created {
		t.Fatalf("second EnsureAdmin = %v, %v; want false, nil", created, err)
	}

	adminID, hash, err := store.AdminByEmail(ctx, testAdminEmail)
	if err != nil || hash != testAdminHash {
		t.Fatalf("AdminByEmail = %q, %q, %v", adminID, hash, err)
	}
	if _, _, err := store.AdminByEmail(ctx, "other@blueye.kr"); err != errAdminNotFound {
		t.Fatalf("unknown admin error = %v, want errAdminNotFound", err)
	}

	sessionID, err := store.CreateAdminSession(ctx, adminID)
	if err != nil {
		t.Fatalf("CreateAdminSession: %v", err)
	}
	sess, err := store.AdminFromSession(ctx, sessionID)
	if err != nil || sess.Email != testAdminEmail {
		t.Fatalf("AdminFromSession = %+v, %v", sess, err)
	}

	now = now.Add(adminSessionTTL + time.Minute)
	if _, err := store.AdminFromSession(ctx, sessionID); err != errNoAdminSession {
		t.Fatalf("expired session error = %v, want errNoAdminSession", err)
	}
	n, err := store.PurgeExpiredSessions(ctx)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpiredSessions = %d, %v; want 1, nil", n, err)
	}
}
