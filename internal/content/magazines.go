package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Magazine is an article teaser. Content holds the link to the article.
type Magazine struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Excerpt     string       `json:"excerpt"`
	CoverImage  string       `json:"cover_image"`
	Locale      string       `json:"locale"`
	Status      string       `json:"status"`
	CategoryID  *string      `json:"category_id"`
	Category    *CategoryRef `json:"category,omitempty"`
	PublishedAt *string      `json:"published_at"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

// MagazineInput is the writable part of a magazine. On update an empty
// Locale keeps the stored one and a nil PublishedAt leaves the date alone.
type MagazineInput struct {
	Title       string  `json:"title" validate:"required,max=300"`
	Content     string  `json:"content" validate:"required"`
	Excerpt     string  `json:"excerpt" validate:"required"`
	CoverImage  string  `json:"cover_image" validate:"required"`
	Locale      string  `json:"locale" validate:"omitempty,oneof=ko en zh"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft published"`
	CategoryID  *string `json:"category_id"`
	PublishedAt *string `json:"published_at"`
}

// MagazineOrder selects the listing order.
type MagazineOrder int

const (
	ByPublishedAt MagazineOrder = iota
	ByCreatedAt
)

func (o MagazineOrder) clause() string {
	if o == ByCreatedAt {
		return "m.created_at DESC, m.id"
	}
	return "m.published_at DESC, m.created_at DESC, m.id"
}

func putMagazine(ctx context.Context, q querier, m Magazine) error {
	m.Category = nil
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO magazines (id, category_id, locale, status, published_at, created_at, data)
		 VALUES (?, ?, ?, ?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET category_id = excluded.category_id, locale = excluded.locale,
		   status = excluded.status, published_at = excluded.published_at, data = excluded.data`,
		m.ID, m.CategoryID, m.Locale, m.Status, m.PublishedAt, m.CreatedAt, string(data),
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: unknown category", ErrInvalid)
	}
	return err
}

func scanMagazines(rows *sql.Rows) ([]Magazine, error) {
	defer rows.Close()
	out := []Magazine{}
	for rows.Next() {
		var data string
		var catID, catName sql.NullString
		if err := rows.Scan(&data, &catID, &catName); err != nil {
			return nil, err
		}
		var m Magazine
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, err
		}
		if catID.Valid {
			m.Category = &CategoryRef{ID: catID.String, Name: catName.String}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const magazineSelect = `SELECT json(m.data), c.id, c.name
	FROM magazines m LEFT JOIN categories c ON c.id = m.category_id`

// ListMagazines returns one page of magazines with their category embedded.
// The public listing defaults to 8 per page.
func (s *Store) ListMagazines(ctx context.Context, q ListQuery, order MagazineOrder) (Page[Magazine], error) {
	q = q.normalize(8)
	where, args := q.where("m.")

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM magazines m`+where, args...).Scan(&total)
	if err != nil {
		return Page[Magazine]{}, fmt.Errorf("counting magazines: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		magazineSelect+where+` ORDER BY `+order.clause()+` LIMIT ? OFFSET ?`,
		append(args, q.Limit, q.offset())...,
	)
	if err != nil {
		return Page[Magazine]{}, fmt.Errorf("listing magazines: %w", err)
	}
	data, err := scanMagazines(rows)
	if err != nil {
		return Page[Magazine]{}, fmt.Errorf("listing magazines: %w", err)
	}
	return Page[Magazine]{Data: data, Pagination: q.pagination(total)}, nil
}

func (s *Store) GetMagazine(ctx context.Context, id string) (Magazine, error) {
	rows, err := s.db.QueryContext(ctx, magazineSelect+` WHERE m.id = ?`, id)
	if err != nil {
		return Magazine{}, err
	}
	list, err := scanMagazines(rows)
	if err != nil {
		return Magazine{}, err
	}
	if len(list) == 0 {
		return Magazine{}, ErrNotFound
	}
	return list[0], nil
}

// publishedAt resolves the publication date: an explicit date wins, a
// published record without one is stamped now, anything else has none.
func (s *Store) publishedAt(explicit *string, status string) (*string, error) {
	if explicit != nil && *explicit != "" {
		v, err := normalizeTime(*explicit)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	if status == StatusPublished {
		v := s.nowUTC()
		return &v, nil
	}
	return nil, nil
}

func (s *Store) CreateMagazine(ctx context.Context, in MagazineInput) (Magazine, error) {
	if in.Locale == "" {
		return Magazine{}, fmt.Errorf("%w: locale is required", ErrInvalid)
	}
	if in.Status == "" {
		in.Status = StatusDraft
	}
	published, err := s.publishedAt(in.PublishedAt, in.Status)
	if err != nil {
		return Magazine{}, err
	}

	now := s.nowUTC()
	m := Magazine{
		ID:          newID(),
		Title:       in.Title,
		Content:     in.Content,
		Excerpt:     in.Excerpt,
		CoverImage:  in.CoverImage,
		Locale:      in.Locale,
		Status:      in.Status,
		CategoryID:  emptyToNil(in.CategoryID),
		PublishedAt: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := putMagazine(ctx, s.db, m); err != nil {
		return Magazine{}, err
	}
	return s.GetMagazine(ctx, m.ID)
}

func (s *Store) UpdateMagazine(ctx context.Context, id string, in MagazineInput) (Magazine, error) {
	var m Magazine
	if err := get(ctx, s.db, "magazines", id, &m); err != nil {
		return Magazine{}, err
	}

	m.Title = in.Title
	m.Content = in.Content
	m.Excerpt = in.Excerpt
	m.CoverImage = in.CoverImage
	if in.Locale != "" {
		m.Locale = in.Locale
	}
	if in.Status != "" {
		m.Status = in.Status
	}
	if in.CategoryID != nil {
		m.CategoryID = emptyToNil(in.CategoryID)
	}
	switch {
	case in.PublishedAt != nil:
		published, err := s.publishedAt(in.PublishedAt, m.Status)
		if err != nil {
			return Magazine{}, err
		}
		m.PublishedAt = published
	case m.Status == StatusPublished && m.PublishedAt == nil:
		now := s.nowUTC()
		m.PublishedAt = &now
	}
	m.UpdatedAt = s.nowUTC()

	if err := putMagazine(ctx, s.db, m); err != nil {
		return Magazine{}, err
	}
	return s.GetMagazine(ctx, id)
}

func (s *Store) DeleteMagazine(ctx context.Context, id string) error {
	return del(ctx, s.db, "magazines", id)
}

func emptyToNil(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
