package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/enum"
)

// Errors returned by the status engine.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStatusConflict    = errors.New("order status changed, please retry")
	ErrAlreadyCheckedIn  = errors.New("order already checked in")
	ErrCheckInNotAllowed = errors.New("order cannot be checked in")
)

// StatusStore defines the DB methods needed to move orders through the
// kitchen lifecycle. Satisfied by *database.Queries (and its WithTx variant).
type StatusStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	ClaimInventoryRestore(ctx context.Context, id uuid.UUID) (bool, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	RestoreInventory(ctx context.Context, arg database.RestoreInventoryParams) (database.MenuInventory, error)
	CheckInOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
}

// NewStatusStore creates a StatusStore from a DBTX (pool or tx).
type NewStatusStore func(db database.DBTX) StatusStore

// allowedTransitions defines the order lifecycle. Key is current status,
// value is the set of statuses it can move to. served and cancelled are
// terminal and deliberately absent.
var allowedTransitions = map[string][]string{
	enum.OrderStatusPending:   {enum.OrderStatusPreparing, enum.OrderStatusCancelled},
	enum.OrderStatusPreparing: {enum.OrderStatusReady, enum.OrderStatusCancelled},
	enum.OrderStatusReady:     {enum.OrderStatusServed, enum.OrderStatusCancelled},
}

// StatusEngine advances orders through the kitchen state machine.
// Transitions run inside a transaction holding the order's row lock, so
// two concurrent advances on one order cannot both succeed: the loser
// re-reads the already-moved status and fails the transition check.
type StatusEngine struct {
	pool     TxBeginner
	queries  StatusStore
	newStore NewStatusStore
}

// NewStatusEngine creates a new StatusEngine.
func NewStatusEngine(pool TxBeginner, queries StatusStore, newStore NewStatusStore) *StatusEngine {
	return &StatusEngine{pool: pool, queries: queries, newStore: newStore}
}

// Advance moves an order to targetStatus if that is a legal successor of
// its current status. Same-state and backward moves are rejected. A
// transition into cancelled restores the reserved stock for every line
// item, exactly once per order: a retried or repeated cancellation finds
// the compensation flag already claimed and skips the restore.
func (e *StatusEngine) Advance(ctx context.Context, orderID uuid.UUID, targetStatus string) (*database.Order, error) {
	if !isValidOrderStatus(targetStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, targetStatus)
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := e.newStore(tx)

	current, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := validateTransition(current.Status, targetStatus); err != nil {
		return nil, err
	}

	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:         orderID,
		Status:     targetStatus,
		FromStatus: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusConflict
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if targetStatus == enum.OrderStatusCancelled {
		if err := e.compensate(ctx, store, updated); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &updated, nil
}

// compensate returns the cancelled order's reserved stock to that day's
// inventory rows, guarded by the order's inventory_restored flag.
func (e *StatusEngine) compensate(ctx context.Context, store StatusStore, order database.Order) error {
	claimed, err := store.ClaimInventoryRestore(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("claim inventory restore: %w", err)
	}
	if !claimed {
		return nil
	}

	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	for _, item := range items {
		_, err := store.RestoreInventory(ctx, database.RestoreInventoryParams{
			MenuItemID: item.MenuItemID,
			Date:       order.OrderDay,
			Quantity:   item.Quantity,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Inventory row gone for that day; nothing to return stock to.
				log.Printf("WARN: no inventory row for %s on %s, restore skipped", item.MenuItemID, order.OrderDay.Time.Format("2006-01-02"))
				continue
			}
			return fmt.Errorf("restore inventory for %s: %w", item.MenuItemID, err)
		}
	}
	return nil
}

// CheckIn records the customer's arrival. It succeeds at most once per
// order and only while the order is preparing or ready; repeated calls
// are rejected rather than silently absorbed.
func (e *StatusEngine) CheckIn(ctx context.Context, orderID uuid.UUID) (*database.Order, error) {
	order, err := e.queries.CheckInOrder(ctx, orderID)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check in order: %w", err)
	}

	// No rows updated: disambiguate for a precise error.
	current, fetchErr := e.queries.GetOrder(ctx, orderID)
	if fetchErr != nil {
		if errors.Is(fetchErr, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", fetchErr)
	}
	if current.CheckInTime.Valid {
		return nil, ErrAlreadyCheckedIn
	}
	return nil, fmt.Errorf("%w while %s", ErrCheckInNotAllowed, current.Status)
}

// --- Helpers ---

func isValidOrderStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending, enum.OrderStatusPreparing, enum.OrderStatusReady,
		enum.OrderStatusServed, enum.OrderStatusCancelled:
		return true
	}
	return false
}

func validateTransition(current, next string) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("%w: cannot transition from %s", ErrInvalidTransition, current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, current, next)
}
