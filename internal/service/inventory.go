package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
)

// ErrInventoryNotFound is returned when no inventory row exists for the
// requested (item, date) key.
var ErrInventoryNotFound = errors.New("menu inventory not found")

// LedgerStore defines the DB methods needed by the inventory ledger's
// staff-facing and read paths. Satisfied by *database.Queries. The
// admission and cancellation paths hit the same reserve/restore queries
// through their own transaction-scoped stores.
type LedgerStore interface {
	ListMenuItems(ctx context.Context) ([]database.MenuItem, error)
	ListInventoryByDate(ctx context.Context, date pgtype.Date) ([]database.MenuInventory, error)
	InitInventory(ctx context.Context, arg database.InitInventoryParams) error
	UpsertInventory(ctx context.Context, arg database.UpsertInventoryParams) (database.MenuInventory, error)
	SetInventoryAvailability(ctx context.Context, arg database.SetInventoryAvailabilityParams) (database.MenuInventory, error)
}

// InventoryLedger manages the per (item, day) stock counters. The default
// quantity for lazily created rows is explicit configuration, not a
// process-wide global.
type InventoryLedger struct {
	store      LedgerStore
	defaultQty int32
	now        func() time.Time
}

// NewInventoryLedger creates a new InventoryLedger.
func NewInventoryLedger(store LedgerStore, defaultQty int32) *InventoryLedger {
	return &InventoryLedger{store: store, defaultQty: defaultQty, now: time.Now}
}

// GetForDate returns every inventory record for the given date. If none
// exist and the date is today, it seeds one row per active menu item with
// the configured default quantity. The seed is an insert-or-ignore per
// (item, date), so concurrent first callers converge on one row set.
func (l *InventoryLedger) GetForDate(ctx context.Context, date time.Time) ([]database.MenuInventory, error) {
	day := pgtype.Date{Time: dayOf(date), Valid: true}

	records, err := l.store.ListInventoryByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	if len(records) > 0 || !dayOf(date).Equal(dayOf(l.now())) {
		return records, nil
	}

	items, err := l.store.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	for _, item := range items {
		if err := l.store.InitInventory(ctx, database.InitInventoryParams{
			MenuItemID:      item.ID,
			Date:            day,
			DefaultQuantity: l.defaultQty,
		}); err != nil {
			return nil, fmt.Errorf("init inventory for %s: %w", item.ID, err)
		}
	}

	records, err = l.store.ListInventoryByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return records, nil
}

// Upsert creates or replaces an inventory record (explicit staff
// initialization, e.g. setting up tomorrow's quantities).
func (l *InventoryLedger) Upsert(ctx context.Context, menuItemID string, date time.Time, defaultQuantity, availableQuantity int32, isAvailable bool) (*database.MenuInventory, error) {
	inv, err := l.store.UpsertInventory(ctx, database.UpsertInventoryParams{
		MenuItemID:        menuItemID,
		Date:              pgtype.Date{Time: dayOf(date), Valid: true},
		DefaultQuantity:   defaultQuantity,
		AvailableQuantity: availableQuantity,
		IsAvailable:       isAvailable,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert inventory: %w", err)
	}
	return &inv, nil
}

// SetAvailability is the staff override: flip an item's availability flag
// and optionally pin its quantity. Last writer wins.
func (l *InventoryLedger) SetAvailability(ctx context.Context, menuItemID string, date time.Time, isAvailable bool, quantity *int32) (*database.MenuInventory, error) {
	qty := pgtype.Int4{}
	if quantity != nil {
		qty = pgtype.Int4{Int32: *quantity, Valid: true}
	}
	inv, err := l.store.SetInventoryAvailability(ctx, database.SetInventoryAvailabilityParams{
		MenuItemID:        menuItemID,
		Date:              pgtype.Date{Time: dayOf(date), Valid: true},
		IsAvailable:       isAvailable,
		AvailableQuantity: qty,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("set availability: %w", err)
	}
	return &inv, nil
}
