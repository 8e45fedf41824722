package content

import (
	"context"
	"encoding/json"
	"fmt"
)

type Notice struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Locale    string `json:"locale"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NoticeInput is the writable part of a notice. Locale is required on
// create and ignored on update.
type NoticeInput struct {
	Title   string `json:"title" validate:"required,max=300"`
	Content string `json:"content" validate:"required"`
	Locale  string `json:"locale" validate:"omitempty,oneof=ko en zh"`
	Status  string `json:"status" validate:"omitempty,oneof=draft published"`
}

func putNotice(ctx context.Context, q querier, n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO notices (id, locale, status, created_at, data) VALUES (?, ?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET locale = excluded.locale, status = excluded.status, data = excluded.data`,
		n.ID, n.Locale, n.Status, n.CreatedAt, string(data),
	)
	return err
}

// ListNotices returns one page of notices, newest first, 10 per page by
// default.
func (s *Store) ListNotices(ctx context.Context, q ListQuery) (Page[Notice], error) {
	q.CategoryID = ""
	return list[Notice](ctx, s.db, "notices", "created_at DESC, id", q.normalize(10))
}

func (s *Store) GetNotice(ctx context.Context, id string) (Notice, error) {
	var n Notice
	err := get(ctx, s.db, "notices", id, &n)
	return n, err
}

func (s *Store) CreateNotice(ctx context.Context, in NoticeInput) (Notice, error) {
	if in.Locale == "" {
		return Notice{}, fmt.Errorf("%w: locale is required", ErrInvalid)
	}
	if in.Status == "" {
		in.Status = StatusDraft
	}
	now := s.nowUTC()
	n := Notice{
		ID:        newID(),
		Title:     in.Title,
		Content:   in.Content,
		Locale:    in.Locale,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := putNotice(ctx, s.db, n); err != nil {
		return Notice{}, err
	}
	return n, nil
}

func (s *Store) UpdateNotice(ctx context.Context, id string, in NoticeInput) (Notice, error) {
	n, err := s.GetNotice(ctx, id)
	if err != nil {
		return Notice{}, err
	}
	n.Title = in.Title
	n.Content = in.Content
	if in.Status != "" {
		n.Status = in.Status
	}
	n.UpdatedAt = s.nowUTC()
	if err := putNotice(ctx, s.db, n); err != nil {
		return Notice{}, err
	}
	return n, nil
}

func (s *Store) DeleteNotice(ctx context.Context, id string) error {
	return del(ctx, s.db, "notices", id)
}
