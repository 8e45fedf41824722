package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DailyBrief is a one-image news digest for a single day.
type DailyBrief struct {
	ID            string `json:"id"`
	ImageURL      string `json:"image_url"`
	PublishedDate string `json:"published_date"`
	Locale        string `json:"locale"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// BriefInput is the writable part of a daily brief. PublishedDate is a
// calendar date (YYYY-MM-DD). Locale defaults to ko on create.
type BriefInput struct {
	ImageURL      string `json:"image_url" validate:"required"`
	PublishedDate string `json:"published_date" validate:"required,datetime=2006-01-02"`
	Locale        string `json:"locale" validate:"omitempty,oneof=ko en zh"`
	Status        string `json:"status" validate:"omitempty,oneof=draft published"`
}

const dateLayout = "2006-01-02"

func putBrief(ctx context.Context, q querier, b DailyBrief) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO daily_briefs (id, locale, status, published_date, created_at, data) VALUES (?, ?, ?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET locale = excluded.locale, status = excluded.status,
		   published_date = excluded.published_date, data = excluded.data`,
		b.ID, b.Locale, b.Status, b.PublishedDate, b.CreatedAt, string(data),
	)
	return err
}

func checkDate(v string) error {
	if _, err := time.Parse(dateLayout, v); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalid, v)
	}
	return nil
}

// ListBriefs returns one page of briefs, latest date first, 50 per page by
// default.
func (s *Store) ListBriefs(ctx context.Context, q ListQuery) (Page[DailyBrief], error) {
	q.CategoryID = ""
	return list[DailyBrief](ctx, s.db, "daily_briefs", "published_date DESC, created_at DESC, id", q.normalize(50))
}

func (s *Store) GetBrief(ctx context.Context, id string) (DailyBrief, error) {
	var b DailyBrief
	err := get(ctx, s.db, "daily_briefs", id, &b)
	return b, err
}

func (s *Store) CreateBrief(ctx context.Context, in BriefInput) (DailyBrief, error) {
	if err := checkDate(in.PublishedDate); err != nil {
		return DailyBrief{}, err
	}
	if in.Locale == "" {
		in.Locale = "ko"
	}
	if in.Status == "" {
		in.Status = StatusDraft
	}
	now := s.nowUTC()
	b := DailyBrief{
		ID:            newID(),
		ImageURL:      in.ImageURL,
		PublishedDate: in.PublishedDate,
		Locale:        in.Locale,
		Status:        in.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := putBrief(ctx, s.db, b); err != nil {
		return DailyBrief{}, err
	}
	return b, nil
}

func (s *Store) UpdateBrief(ctx context.Context, id string, in BriefInput) (DailyBrief, error) {
	if err := checkDate(in.PublishedDate); err != nil {
		return DailyBrief{}, err
	}
	b, err := s.GetBrief(ctx, id)
	if err != nil {
		return DailyBrief{}, err
	}
	b.ImageURL = in.ImageURL
	b.PublishedDate = in.PublishedDate
	if in.Locale != "" {
		b.Locale = in.Locale
	}
	if in.Status != "" {
		b.Status = in.Status
	}
	b.UpdatedAt = s.nowUTC()
	if err := putBrief(ctx, s.db, b); err != nil {
		return DailyBrief{}, err
	}
	return b, nil
}

func (s *Store) DeleteBrief(ctx context.Context, id string) error {
	return del(ctx, s.db, "daily_briefs", id)
}
