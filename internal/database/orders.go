package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, customer_id, customer_name, customer_phone, total_amount, status,
	queue_number, order_day, estimated_time, payment_status, payment_method,
	payment_reference, check_in_time, inventory_restored, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerPhone, &o.TotalAmount,
		&o.Status, &o.QueueNumber, &o.OrderDay, &o.EstimatedTime, &o.PaymentStatus,
		&o.PaymentMethod, &o.PaymentReference, &o.CheckInTime, &o.InventoryRestored,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// NextQueueNumber derives the next per-day queue position. Callers must
// consume it inside the same transaction that inserts the order; the
// unique index on (order_day, queue_number) catches the remaining race
// and the admission service retries on that conflict.
const nextQueueNumber = `
SELECT COALESCE(MAX(queue_number), 0) + 1
FROM orders
WHERE order_day = $1
`

func (q *Queries) NextQueueNumber(ctx context.Context, orderDay pgtype.Date) (int32, error) {
	var n int32
	err := q.db.QueryRow(ctx, nextQueueNumber, orderDay).Scan(&n)
	return n, err
}

type CreateOrderParams struct {
	CustomerID       pgtype.UUID
	CustomerName     string
	CustomerPhone    pgtype.Text
	TotalAmount      pgtype.Numeric
	Status           string
	QueueNumber      int32
	OrderDay         pgtype.Date
	EstimatedTime    int32
	PaymentStatus    string
	PaymentMethod    pgtype.Text
	PaymentReference pgtype.Text
}

const createOrder = `
INSERT INTO orders (customer_id, customer_name, customer_phone, total_amount, status,
	queue_number, order_day, estimated_time, payment_status, payment_method, payment_reference)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + orderColumns + `
`

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, createOrder,
		arg.CustomerID, arg.CustomerName, arg.CustomerPhone, arg.TotalAmount, arg.Status,
		arg.QueueNumber, arg.OrderDay, arg.EstimatedTime, arg.PaymentStatus,
		arg.PaymentMethod, arg.PaymentReference))
}

type CreateOrderItemParams struct {
	OrderID    uuid.UUID
	MenuItemID string
	ItemName   string
	Quantity   int32
	UnitPrice  pgtype.Numeric
}

const createOrderItem = `
INSERT INTO order_items (order_id, menu_item_id, item_name, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, menu_item_id, item_name, quantity, unit_price
`

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	var it OrderItem
	err := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.MenuItemID, arg.ItemName, arg.Quantity, arg.UnitPrice).
		Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.ItemName, &it.Quantity, &it.UnitPrice)
	return it, err
}

const getOrder = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

// GetOrderForUpdate locks the order row for the length of the enclosing
// transaction, serializing concurrent status transitions on one order.
const getOrderForUpdate = getOrder + ` FOR UPDATE`

func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUpdate, id))
}

func (q *Queries) collectOrders(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const listOrders = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
`

func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	return q.collectOrders(ctx, listOrders)
}

const listOrdersByCustomer = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error) {
	return q.collectOrders(ctx, listOrdersByCustomer, customerID)
}

const listActiveOrders = `
SELECT ` + orderColumns + `
FROM orders
WHERE status IN ('pending', 'preparing', 'ready')
ORDER BY order_day, queue_number
`

func (q *Queries) ListActiveOrders(ctx context.Context) ([]Order, error) {
	return q.collectOrders(ctx, listActiveOrders)
}

const listOrderItemsByOrder = `
SELECT id, order_id, menu_item_id, item_name, quantity, unit_price
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.ItemName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type UpdateOrderStatusParams struct {
	ID         uuid.UUID
	Status     string
	FromStatus string
}

// updateOrderStatus only succeeds from the expected current status. No
// rows back means the status moved between read and write; callers map
// that to a retryable conflict.
const updateOrderStatus = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1 AND status = $3
RETURNING ` + orderColumns + `
`

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status, arg.FromStatus))
}

// ClaimInventoryRestore flips the order's compensation flag exactly once.
// A second cancellation attempt (or a retried one) finds the flag already
// set and must not restore stock again.
const claimInventoryRestore = `
UPDATE orders
SET inventory_restored = true, updated_at = now()
WHERE id = $1 AND NOT inventory_restored
`

func (q *Queries) ClaimInventoryRestore(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := q.db.Exec(ctx, claimInventoryRestore, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// checkInOrder records the customer's arrival at most once, and only
// while the order is in the kitchen (preparing or ready).
const checkInOrder = `
UPDATE orders
SET check_in_time = now(), updated_at = now()
WHERE id = $1
  AND check_in_time IS NULL
  AND status NOT IN ('pending', 'cancelled', 'served')
RETURNING ` + orderColumns + `
`

func (q *Queries) CheckInOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, checkInOrder, id))
}
