package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listMenuItems = `
SELECT id, name, price, category, is_active, created_at, updated_at
FROM menu_items
WHERE is_active
ORDER BY category, name
`

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const getMenuItem = `
SELECT id, name, price, category, is_active, created_at, updated_at
FROM menu_items
WHERE id = $1 AND is_active
`

func (q *Queries) GetMenuItem(ctx context.Context, id string) (MenuItem, error) {
	var m MenuItem
	err := q.db.QueryRow(ctx, getMenuItem, id).
		Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

type UpsertMenuItemParams struct {
	ID       string
	Name     string
	Price    pgtype.Numeric
	Category string
}

const upsertMenuItem = `
INSERT INTO menu_items (id, name, price, category)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    is_active = true,
    updated_at = now()
RETURNING id, name, price, category, is_active, created_at, updated_at
`

func (q *Queries) UpsertMenuItem(ctx context.Context, arg UpsertMenuItemParams) (MenuItem, error) {
	var m MenuItem
	err := q.db.QueryRow(ctx, upsertMenuItem, arg.ID, arg.Name, arg.Price, arg.Category).
		Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}
