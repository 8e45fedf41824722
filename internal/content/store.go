// Package content stores the editorial content of the site: magazine
// categories, magazines, notices and daily briefs. Each row keeps the
// columns used for filtering and ordering next to a JSONB document with the
// full record.
package content

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInUse    = errors.New("in use")
	ErrInvalid  = errors.New("invalid input")
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// Publication status of a record. StatusAll is only meaningful as a filter.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusAll       = "all"
)

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListQuery filters a listing. An empty Locale matches every locale; an
// empty Status or StatusAll matches every status.
type ListQuery struct {
	Locale     string
	Status     string
	CategoryID string
	Page       int
	Limit      int
}

const maxLimit = 100

func (q ListQuery) normalize(defaultLimit int) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	q.Limit = min(q.Limit, maxLimit)
	return q
}

func (q ListQuery) offset() int { return (q.Page - 1) * q.Limit }

func (q ListQuery) pagination(total int) Pagination {
	return Pagination{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}
}

// where builds the filter clause shared by the listings. prefix qualifies
// column names when the query joins.
func (q ListQuery) where(prefix string) (string, []any) {
	var conds []string
	var args []any
	if q.Locale != "" {
		conds = append(conds, prefix+"locale = ?")
		args = append(args, q.Locale)
	}
	if q.Status != "" && q.Status != StatusAll {
		conds = append(conds, prefix+"status = ?")
		args = append(args, q.Status)
	}
	if q.CategoryID != "" && q.CategoryID != StatusAll {
		conds = append(conds, prefix+"category_id = ?")
		args = append(args, q.CategoryID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Store is the content store on a migrated SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock returns a copy of the store that reads time from now.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{db: s.db, now: now}
}

func (s *Store) nowUTC() string {
	return s.now().UTC().Format(timeLayout)
}

// normalizeTime parses an RFC 3339 timestamp and renders it in the stored
// layout.
func normalizeTime(v string) (string, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
	if err != nil {
		return "", fmt.Errorf("%w: timestamp %q", ErrInvalid, v)
	}
	return t.UTC().Format(timeLayout), nil
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func get(ctx context.Context, q querier, table, id string, dest any) error {
	var data string
	err := q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT json(data) FROM %s WHERE id = ?`, table), id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func del(ctx context.Context, q querier, table, id string) error {
	result, err := q.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanDocs decodes every json(data) row of rows into a slice.
func scanDocs[T any](rows *sql.Rows) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// list runs a filtered, paginated listing over table.
func list[T any](ctx context.Context, db *sql.DB, table, orderBy string, q ListQuery) (Page[T], error) {
	where, args := q.where("")

	var total int
	err := db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table, where), args...,
	).Scan(&total)
	if err != nil {
		return Page[T]{}, fmt.Errorf("counting %s: %w", table, err)
	}

	rows, err := db.QueryContext(ctx,
		fmt.Sprintf(`SELECT json(data) FROM %s%s ORDER BY %s LIMIT ? OFFSET ?`, table, where, orderBy),
		append(args, q.Limit, q.offset())...,
	)
	if err != nil {
		return Page[T]{}, fmt.Errorf("listing %s: %w", table, err)
	}
	data, err := scanDocs[T](rows)
	if err != nil {
		return Page[T]{}, fmt.Errorf("listing %s: %w", table, err)
	}
	return Page[T]{Data: data, Pagination: q.pagination(total)}, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
