package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blueye/globalsite/internal/content"
	"github.com/blueye/globalsite/internal/database"
	"github.com/blueye/globalsite/internal/i18n"
	"github.com/blueye/globalsite/internal/lifestyle"
	"github.com/blueye/globalsite/internal/migrations"
	"github.com/blueye/globalsite/internal/quiz"
)

const (
	testAdminEmail    = "admin@blueye.kr"
	testAdminPassword = "changeme"
	// bcrypt hash of testAdminPassword.
	testAdminHash = "$2a$10$trCdqP4npsbw0R1vQxVwXeT1HebzRmP01SXaNGPz1eSAZ7mpcL0Uu"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	router *chi.Mux
	deps   Deps
}

// newTestEnv wires the full API on an in-memory database with a seeded admin.
func newTestEnv(t *testing.T, opts ...func(*Deps, *quiz.Config)) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := testLogger()

	db, err := database.Open(ctx, database.MemoryPath)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	admin := NewAdminDocStore(db)
	if _, err := admin.EnsureAdmin(ctx, testAdminEmail, testAdminHash); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}

	catalog, err := lifestyle.DefaultCatalog()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	bundle, err := i18n.Load()
	if err != nil {
		t.Fatalf("loading messages: %v", err)
	}

	deps := Deps{
		Admin:          admin,
		Content:        content.NewStore(db),
		Catalog:        catalog,
		I18n:           bundle,
		LoginRateLimit: 100,
	}
	qcfg := quiz.Config{SessionTTL: time.Hour}
	for _, o := range opts {
		o(&deps, &qcfg)
	}
	deps.Quiz = quiz.NewService(catalog,
		lifestyle.NewRecommender(catalog, lifestyle.WeightByPickPairs),
		quiz.NewMemoryStore(time.Now), qcfg, logger)

	return &testEnv{router: newRouter(logger, deps, nil), deps: deps}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login signs in the seeded admin and returns the session cookies.
func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/admin/login",
		AdminLoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return v
}
