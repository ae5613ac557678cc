package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type GetOrderStatusCountsRow struct {
	Status     string
	OrderCount int64
}

const getOrderStatusCounts = `
SELECT status, COUNT(*) AS order_count
FROM orders
WHERE order_day = $1
GROUP BY status
`

// GetOrderStatusCounts returns how many orders sit in each status for a
// single trading day.
func (q *Queries) GetOrderStatusCounts(ctx context.Context, day pgtype.Date) ([]GetOrderStatusCountsRow, error) {
	rows, err := q.db.Query(ctx, getOrderStatusCounts, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []GetOrderStatusCountsRow
	for rows.Next() {
		var row GetOrderStatusCountsRow
		if err := rows.Scan(&row.Status, &row.OrderCount); err != nil {
			return nil, err
		}
		counts = append(counts, row)
	}
	return counts, rows.Err()
}

type GetDailySalesParams struct {
	StartDay pgtype.Date
	EndDay   pgtype.Date
}

type GetDailySalesRow struct {
	Day          pgtype.Date
	OrderCount   int64
	TotalRevenue pgtype.Numeric
}

const getDailySales = `
SELECT order_day, COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS total_revenue
FROM orders
WHERE status = 'served' AND order_day >= $1 AND order_day <= $2
GROUP BY order_day
ORDER BY order_day
`

// GetDailySales returns per-day served order counts and revenue for an
// inclusive day range.
func (q *Queries) GetDailySales(ctx context.Context, arg GetDailySalesParams) ([]GetDailySalesRow, error) {
	rows, err := q.db.Query(ctx, getDailySales, arg.StartDay, arg.EndDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []GetDailySalesRow
	for rows.Next() {
		var row GetDailySalesRow
		if err := rows.Scan(&row.Day, &row.OrderCount, &row.TotalRevenue); err != nil {
			return nil, err
		}
		sales = append(sales, row)
	}
	return sales, rows.Err()
}

type GetTopSellingItemsParams struct {
	StartDay pgtype.Date
	EndDay   pgtype.Date
	Limit    int32
}

type GetTopSellingItemsRow struct {
	MenuItemID   string
	ItemName     string
	QuantitySold int64
	TotalRevenue pgtype.Numeric
}

const getTopSellingItems = `
SELECT oi.menu_item_id, oi.item_name,
       COALESCE(SUM(oi.quantity), 0) AS quantity_sold,
       COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total_revenue
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE o.status = 'served' AND o.order_day >= $1 AND o.order_day <= $2
GROUP BY oi.menu_item_id, oi.item_name
ORDER BY quantity_sold DESC
LIMIT $3
`

// GetTopSellingItems returns the best selling items by quantity across
// served orders in an inclusive day range.
func (q *Queries) GetTopSellingItems(ctx context.Context, arg GetTopSellingItemsParams) ([]GetTopSellingItemsRow, error) {
	rows, err := q.db.Query(ctx, getTopSellingItems, arg.StartDay, arg.EndDay, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetTopSellingItemsRow
	for rows.Next() {
		var row GetTopSellingItemsRow
		if err := rows.Scan(&row.MenuItemID, &row.ItemName, &row.QuantitySold, &row.TotalRevenue); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

const countActiveOrders = `
SELECT COUNT(*)
FROM orders
WHERE status IN ('pending', 'preparing', 'ready')
`

// CountActiveOrders returns the number of orders currently in the live
// queue.
func (q *Queries) CountActiveOrders(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countActiveOrders).Scan(&count)
	return count, err
}
