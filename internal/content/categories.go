package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Category groups magazines. Categories are listed by DisplayOrder.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type CategoryInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	DisplayOrder *int   `json:"display_order" validate:"omitempty,min=0"`
}

type CategoryOrder struct {
	ID           string `json:"id" validate:"required"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
}

func putCategory(ctx context.Context, q querier, c Category) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO categories (id, name, display_order, data) VALUES (?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, display_order = excluded.display_order, data = excluded.data`,
		c.ID, c.Name, c.DisplayOrder, string(data),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: category %q already exists", ErrConflict, c.Name)
	}
	return err
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM categories ORDER BY display_order, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return scanDocs[Category](rows)
}

func (s *Store) GetCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := get(ctx, s.db, "categories", id, &c)
	return c, err
}

// CreateCategory adds a category. Without an explicit display order it is
// placed after the last one.
func (s *Store) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	now := s.nowUTC()
	c := Category{
		ID:        newID(),
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.DisplayOrder != nil {
		c.DisplayOrder = *in.DisplayOrder
	} else {
		var maxOrder sql.NullInt64
		err := s.db.QueryRowContext(ctx, `SELECT MAX(display_order) FROM categories`).Scan(&maxOrder)
		if err != nil {
			return Category{}, err
		}
		c.DisplayOrder = int(maxOrder.Int64) + 1
	}

	if err := putCategory(ctx, s.db, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	c.Name = in.Name
	if in.DisplayOrder != nil {
		c.DisplayOrder = *in.DisplayOrder
	}
	c.UpdatedAt = s.nowUTC()
	if err := putCategory(ctx, s.db, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// DeleteCategory removes a category. It fails with ErrInUse while any
// magazine references it.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM magazines WHERE category_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d magazines use this category", ErrInUse, count)
	}
	return del(ctx, s.db, "categories", id)
}

// ReorderCategories applies all display orders in one transaction. An
// unknown id rolls back every change.
func (s *Store) ReorderCategories(ctx context.Context, orders []CategoryOrder) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := s.nowUTC()
	for _, o := range orders {
		var c Category
		if err := get(ctx, tx, "categories", o.ID, &c); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: category %s", ErrNotFound, o.ID)
			}
			return err
		}
		c.DisplayOrder = o.DisplayOrder
		c.UpdatedAt = now
		if err := putCategory(ctx, tx, c); err != nil {
			return err
		}
	}

	return tx.Commit()
}
