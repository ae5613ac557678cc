package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const inventoryColumns = `menu_item_id, date, default_quantity, available_quantity, is_available, created_at, updated_at`

func scanInventory(row interface{ Scan(dest ...any) error }) (MenuInventory, error) {
	var inv MenuInventory
	err := row.Scan(&inv.MenuItemID, &inv.Date, &inv.DefaultQuantity,
		&inv.AvailableQuantity, &inv.IsAvailable, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

const listInventoryByDate = `
SELECT ` + inventoryColumns + `
FROM menu_inventory
WHERE date = $1
ORDER BY menu_item_id
`

func (q *Queries) ListInventoryByDate(ctx context.Context, date pgtype.Date) ([]MenuInventory, error) {
	rows, err := q.db.Query(ctx, listInventoryByDate, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []MenuInventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, inv)
	}
	return records, rows.Err()
}

type GetInventoryParams struct {
	MenuItemID string
	Date       pgtype.Date
}

const getInventory = `
SELECT ` + inventoryColumns + `
FROM menu_inventory
WHERE menu_item_id = $1 AND date = $2
`

func (q *Queries) GetInventory(ctx context.Context, arg GetInventoryParams) (MenuInventory, error) {
	return scanInventory(q.db.QueryRow(ctx, getInventory, arg.MenuItemID, arg.Date))
}

type InitInventoryParams struct {
	MenuItemID      string
	Date            pgtype.Date
	DefaultQuantity int32
}

// initInventory is the self-healing bootstrap: insert-or-ignore keyed by
// (menu_item_id, date) so concurrent first callers cannot double-insert.
const initInventory = `
INSERT INTO menu_inventory (menu_item_id, date, default_quantity, available_quantity, is_available)
VALUES ($1, $2, $3, $3, $3 > 0)
ON CONFLICT (menu_item_id, date) DO NOTHING
`

func (q *Queries) InitInventory(ctx context.Context, arg InitInventoryParams) error {
	_, err := q.db.Exec(ctx, initInventory, arg.MenuItemID, arg.Date, arg.DefaultQuantity)
	return err
}

type UpsertInventoryParams struct {
	MenuItemID        string
	Date              pgtype.Date
	DefaultQuantity   int32
	AvailableQuantity int32
	IsAvailable       bool
}

const upsertInventory = `
INSERT INTO menu_inventory (menu_item_id, date, default_quantity, available_quantity, is_available)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (menu_item_id, date) DO UPDATE
SET default_quantity = EXCLUDED.default_quantity,
    available_quantity = EXCLUDED.available_quantity,
    is_available = EXCLUDED.is_available,
    updated_at = now()
RETURNING ` + inventoryColumns + `
`

func (q *Queries) UpsertInventory(ctx context.Context, arg UpsertInventoryParams) (MenuInventory, error) {
	return scanInventory(q.db.QueryRow(ctx, upsertInventory,
		arg.MenuItemID, arg.Date, arg.DefaultQuantity, arg.AvailableQuantity, arg.IsAvailable))
}

type ReserveInventoryParams struct {
	MenuItemID string
	Date       pgtype.Date
	Quantity   int32
}

// reserveInventory is the single atomic check-and-decrement. The WHERE
// predicate is the stock gate: if the row is missing, 86'd, or short,
// no row comes back and nothing is written. Two concurrent reservations
// for the last unit serialize on the row lock; the loser's predicate
// re-evaluates against the decremented value and fails.
const reserveInventory = `
UPDATE menu_inventory
SET available_quantity = available_quantity - $3,
    is_available = available_quantity - $3 > 0,
    updated_at = now()
WHERE menu_item_id = $1 AND date = $2
  AND is_available
  AND available_quantity >= $3
RETURNING ` + inventoryColumns + `
`

func (q *Queries) ReserveInventory(ctx context.Context, arg ReserveInventoryParams) (MenuInventory, error) {
	return scanInventory(q.db.QueryRow(ctx, reserveInventory, arg.MenuItemID, arg.Date, arg.Quantity))
}

type RestoreInventoryParams struct {
	MenuItemID string
	Date       pgtype.Date
	Quantity   int32
}

// restoreInventory is uncapped: restoring past default_quantity is a
// tolerated inconsistency, not corrected here.
const restoreInventory = `
UPDATE menu_inventory
SET available_quantity = available_quantity + $3,
    is_available = available_quantity + $3 > 0,
    updated_at = now()
WHERE menu_item_id = $1 AND date = $2
RETURNING ` + inventoryColumns + `
`

func (q *Queries) RestoreInventory(ctx context.Context, arg RestoreInventoryParams) (MenuInventory, error) {
	return scanInventory(q.db.QueryRow(ctx, restoreInventory, arg.MenuItemID, arg.Date, arg.Quantity))
}

type SetInventoryAvailabilityParams struct {
	MenuItemID        string
	Date              pgtype.Date
	IsAvailable       bool
	AvailableQuantity pgtype.Int4
}

// setInventoryAvailability is the staff override. is_available is set
// independently of quantity (an item can be 86'd with stock remaining);
// last writer wins.
const setInventoryAvailability = `
UPDATE menu_inventory
SET is_available = $3,
    available_quantity = COALESCE($4, available_quantity),
    updated_at = now()
WHERE menu_item_id = $1 AND date = $2
RETURNING ` + inventoryColumns + `
`

func (q *Queries) SetInventoryAvailability(ctx context.Context, arg SetInventoryAvailabilityParams) (MenuInventory, error) {
	return scanInventory(q.db.QueryRow(ctx, setInventoryAvailability,
		arg.MenuItemID, arg.Date, arg.IsAvailable, arg.AvailableQuantity))
}
