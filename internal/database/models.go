package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// MenuItem is reference data; ids are stable slugs ("fuchka", "tea").
// Prices are immutable during a trading day; orders snapshot them anyway.
type MenuItem struct {
	ID        string
	Name      string
	Price     pgtype.Numeric
	Category  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID        uuid.UUID
	Phone     string
	Email     pgtype.Text
	FullName  pgtype.Text
	CreatedAt time.Time
}

type Staff struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	CreatedAt      time.Time
}

// MenuInventory is the per (menu_item_id, date) stock counter. The row is
// the unit of atomic reserve/restore; available_quantity never goes below
// zero (enforced by the reserve predicate and a CHECK constraint).
type MenuInventory struct {
	MenuItemID        string
	Date              pgtype.Date
	DefaultQuantity   int32
	AvailableQuantity int32
	IsAvailable       bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Order struct {
	ID                uuid.UUID
	CustomerID        pgtype.UUID
	CustomerName      string
	CustomerPhone     pgtype.Text
	TotalAmount       pgtype.Numeric
	Status            string
	QueueNumber       int32
	OrderDay          pgtype.Date
	EstimatedTime     int32
	PaymentStatus     string
	PaymentMethod     pgtype.Text
	PaymentReference  pgtype.Text
	CheckInTime       pgtype.Timestamptz
	InventoryRestored bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem is a point-in-time snapshot of a cart line: name and unit price
// are copied from the menu at admission so later menu edits cannot alter
// historical orders.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID string
	ItemName   string
	Quantity   int32
	UnitPrice  pgtype.Numeric
}

type CustomerIssue struct {
	ID          uuid.UUID
	CustomerID  pgtype.UUID
	OrderID     uuid.UUID
	IssueType   string
	Description string
	Status      string
	Priority    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
