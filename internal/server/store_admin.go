package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

var errAdminNotFound = errors.New("admin not found")

const (
	adminSessionTTL = 7 * 24 * time.Hour
	timeLayout      = "2006-01-02T15:04:05.000Z"
)

type AdminStore interface {
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}

type adminDoc struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    string `json:"createdAt"`
}

type adminSessionDoc struct {
	ID        string `json:"id"`
	AdminID   string `json:"adminId"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt"`
}

// AdminDocStore keeps admins and their sessions in the migrated admins and
// admin_sessions tables.
type AdminDocStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewAdminDocStore(db *sql.DB) *AdminDocStore {
	return &AdminDocStore{db: db, now: time.Now}
}

// EnsureAdmin creates the first admin account when none exists yet. An
// empty hash leaves the table alone.
func (s *AdminDocStore) EnsureAdmin(ctx context.Context, email, passwordHash string) (created bool, err error) {
	if email == "" || passwordHash == "" {
		return false, nil
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	admin := adminDoc{
		ID:           newID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC().Format(timeLayout),
	}
	data, err := json.Marshal(admin)
	if err != nil {
		return false, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, data) VALUES (?, ?, jsonb(?))`,
		admin.ID, admin.Email, string(data),
	)
	return err == nil, err
}

func (s *AdminDocStore) getAdmin(ctx context.Context, column, value string) (adminDoc, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM admins WHERE `+column+` = ?`, value,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return adminDoc{}, errAdminNotFound
	}
	if err != nil {
		return adminDoc{}, err
	}
	var a adminDoc
	err = json.Unmarshal([]byte(data), &a)
	return a, err
}

func (s *AdminDocStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	a, err := s.getAdmin(ctx, "email", email)
	if err != nil {
		return "", "", err
	}
	return a.ID, a.PasswordHash, nil
}

func (s *AdminDocStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	a, err := s.getAdmin(ctx, "id", adminID)
	if err != nil {
		return "", err
	}

	sess := adminSessionDoc{
		ID:        newID(),
		AdminID:   adminID,
		Email:     a.Email,
		ExpiresAt: s.now().Add(adminSessionTTL).UTC().Format(timeLayout),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, admin_id, expires_at, data) VALUES (?, ?, ?, jsonb(?))`,
		sess.ID, sess.AdminID, sess.ExpiresAt, string(data),
	)
	return sess.ID, err
}

func (s *AdminDocStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE id = ?`, sessionID,
	)
	return err
}

// AdminFromSession resolves an unexpired session.
func (s *AdminDocStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM admin_sessions WHERE id = ? AND expires_at > ?`,
		sessionID, s.now().UTC().Format(timeLayout),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	if err != nil {
		return adminSession{}, err
	}
	var as adminSessionDoc
	if err := json.Unmarshal([]byte(data), &as); err != nil {
		return adminSession{}, err
	}
	return adminSession{AdminID: as.AdminID, Email: as.Email}, nil
}

// PurgeExpiredSessions deletes sessions past their expiry and reports how
// many were removed.
func (s *AdminDocStore) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE expires_at <= ?`,
		s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

var _ AdminStore = (*AdminDocStore)(nil)
