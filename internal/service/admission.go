package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/enum"
)

const maxQueueNumberRetries = 3

// Errors returned by the admission service.
var (
	ErrEmptyCart              = errors.New("items are required")
	ErrMissingCustomerName    = errors.New("customer_name is required")
	ErrMissingCustomerContact = errors.New("customer_phone is required")
	ErrInvalidQuantity        = errors.New("quantity must be > 0")
	ErrMenuItemNotFound       = errors.New("menu item not found")
	ErrInvalidCustomerID      = errors.New("invalid customer_id")
	ErrInvalidPaymentStatus   = errors.New("invalid payment status")
	ErrInsufficientStock      = errors.New("insufficient stock")
)

// TxBeginner starts a new database transaction.
// Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AdmissionStore defines the DB methods needed to admit an order.
// Satisfied by *database.Queries (and its WithTx variant).
type AdmissionStore interface {
	GetMenuItem(ctx context.Context, id string) (database.MenuItem, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
	InitInventory(ctx context.Context, arg database.InitInventoryParams) error
	ReserveInventory(ctx context.Context, arg database.ReserveInventoryParams) (database.MenuInventory, error)
	NextQueueNumber(ctx context.Context, orderDay pgtype.Date) (int32, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewAdmissionStore creates an AdmissionStore from a DBTX (pool or tx).
type NewAdmissionStore func(db database.DBTX) AdmissionStore

// PlaceOrderRequest is the validated input for admitting an order.
// Payment fields come from the external payment collaborator and are
// recorded as-is; the admission path performs no settlement logic.
type PlaceOrderRequest struct {
	CustomerID       string
	CustomerName     string
	CustomerPhone    string
	EstimatedTime    int32
	PaymentStatus    string
	PaymentMethod    string
	PaymentReference string
	Items            []PlaceOrderItem
}

// PlaceOrderItem is a single cart line.
type PlaceOrderItem struct {
	MenuItemID string
	Quantity   int32
}

// PlaceOrderResult is the admitted order with its line-item snapshot.
type PlaceOrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// AdmissionService admits orders: it validates the cart, reserves stock,
// snapshots prices, assigns the day's next queue number, and persists the
// order, all inside one transaction. A failure at any step (including a
// short item mid-cart) rolls back every reservation already taken.
type AdmissionService struct {
	pool       TxBeginner
	newStore   NewAdmissionStore
	defaultQty int32
	now        func() time.Time
}

// NewAdmissionService creates a new AdmissionService. defaultQty is the
// stock level a lazily created inventory row starts the day with.
func NewAdmissionService(pool TxBeginner, newStore NewAdmissionStore, defaultQty int32) *AdmissionService {
	return &AdmissionService{pool: pool, newStore: newStore, defaultQty: defaultQty, now: time.Now}
}

// PlaceOrder validates, reserves, sequences, and persists an order.
// Retries up to maxQueueNumberRetries times on queue_number unique
// constraint violations (concurrent transactions reading the same MAX).
func (s *AdmissionService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if req.CustomerName == "" {
		return nil, ErrMissingCustomerName
	}
	if req.CustomerPhone == "" {
		return nil, ErrMissingCustomerContact
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = enum.PaymentStatusPending
	}
	if !isValidPaymentStatus(paymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	customerID := pgtype.UUID{}
	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, ErrInvalidCustomerID
		}
		customerID = pgtype.UUID{Bytes: cid, Valid: true}
	}

	var lastErr error
	for attempt := 0; attempt < maxQueueNumberRetries; attempt++ {
		result, err := s.placeOrderTx(ctx, req, customerID, paymentStatus)
		if err == nil {
			return result, nil
		}
		if isQueueNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// isQueueNumberConflict checks for a unique constraint violation on the
// per-day queue number (pgconn error code 23505).
func isQueueNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_day_queue_number_key"
	}
	return false
}

// placeOrderTx executes the full admission in a single transaction.
func (s *AdmissionService) placeOrderTx(ctx context.Context, req PlaceOrderRequest, customerID pgtype.UUID, paymentStatus string) (*PlaceOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	orderDay := pgtype.Date{Time: dayOf(s.now()), Valid: true}

	// --- Reserve stock and snapshot prices, line by line ---
	totalAmount := decimal.Zero
	itemParams := make([]database.CreateOrderItemParams, 0, len(req.Items))
	for i, item := range req.Items {
		menuItem, err := store.GetMenuItem(ctx, item.MenuItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d] %q: %w", i, item.MenuItemID, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get menu item: %w", i, err)
		}

		// Lazily create today's inventory row, then take the atomic
		// decrement. A failed reservation aborts the transaction, which
		// releases every reservation taken for earlier lines.
		if err := store.InitInventory(ctx, database.InitInventoryParams{
			MenuItemID:      item.MenuItemID,
			Date:            orderDay,
			DefaultQuantity: s.defaultQty,
		}); err != nil {
			return nil, fmt.Errorf("item[%d]: init inventory: %w", i, err)
		}
		if _, err := store.ReserveInventory(ctx, database.ReserveInventoryParams{
			MenuItemID: item.MenuItemID,
			Date:       orderDay,
			Quantity:   item.Quantity,
		}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d] %q: %w", i, item.MenuItemID, ErrInsufficientStock)
			}
			return nil, fmt.Errorf("item[%d]: reserve inventory: %w", i, err)
		}

		unitPrice := numericToDecimal(menuItem.Price)
		totalAmount = totalAmount.Add(unitPrice.Mul(decimal.NewFromInt32(item.Quantity)))

		itemParams = append(itemParams, database.CreateOrderItemParams{
			MenuItemID: menuItem.ID,
			ItemName:   menuItem.Name,
			Quantity:   item.Quantity,
			UnitPrice:  decimalToNumeric(unitPrice),
		})
	}

	// --- Validate the customer reference, keeping the order on a miss ---
	if customerID.Valid {
		if _, err := store.GetUserByID(ctx, uuid.UUID(customerID.Bytes)); err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("get customer: %w", err)
			}
			log.Printf("WARN: customer %s not found, placing order as guest", req.CustomerID)
			customerID = pgtype.UUID{}
		}
	}

	// --- Assign the day's next queue position ---
	queueNumber, err := store.NextQueueNumber(ctx, orderDay)
	if err != nil {
		return nil, fmt.Errorf("next queue number: %w", err)
	}

	customerPhone := pgtype.Text{String: req.CustomerPhone, Valid: true}
	paymentMethod := pgtype.Text{}
	if req.PaymentMethod != "" {
		paymentMethod = pgtype.Text{String: req.PaymentMethod, Valid: true}
	}
	paymentReference := pgtype.Text{}
	if req.PaymentReference != "" {
		paymentReference = pgtype.Text{String: req.PaymentReference, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		CustomerID:       customerID,
		CustomerName:     req.CustomerName,
		CustomerPhone:    customerPhone,
		TotalAmount:      decimalToNumeric(totalAmount),
		Status:           enum.OrderStatusPending,
		QueueNumber:      queueNumber,
		OrderDay:         orderDay,
		EstimatedTime:    req.EstimatedTime,
		PaymentStatus:    paymentStatus,
		PaymentMethod:    paymentMethod,
		PaymentReference: paymentReference,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, 0, len(itemParams))
	for _, p := range itemParams {
		p.OrderID = order.ID
		it, err := store.CreateOrderItem(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, it)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &PlaceOrderResult{Order: order, Items: items}, nil
}

// --- Helpers ---

func isValidPaymentStatus(s string) bool {
	switch s {
	case enum.PaymentStatusPending, enum.PaymentStatusCompleted, enum.PaymentStatusFailed:
		return true
	}
	return false
}

// dayOf truncates to the calendar day in UTC; the day boundary is the
// natural reset point for queue numbers and inventory rows.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
