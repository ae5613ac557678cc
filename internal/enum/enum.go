// Package enum defines the string constants persisted in the database.
package enum

// Order lifecycle statuses (CHECK constrained in DB).
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses as reported by the payment collaborator.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Customer issue types.
const (
	IssueTypeWrongOrder   = "wrong_order"
	IssueTypeQuality      = "quality_issue"
	IssueTypeMissingItems = "missing_items"
	IssueTypeLateDelivery = "late_delivery"
	IssueTypeOther        = "other"
)

// Customer issue statuses.
const (
	IssueStatusOpen          = "open"
	IssueStatusInvestigating = "investigating"
	IssueStatusResolved      = "resolved"
	IssueStatusClosed        = "closed"
)

// Customer issue priorities.
const (
	IssuePriorityLow    = "low"
	IssuePriorityMedium = "medium"
	IssuePriorityHigh   = "high"
	IssuePriorityUrgent = "urgent"
)

// Staff roles.
const (
	StaffRoleOwner   = "OWNER"
	StaffRoleKitchen = "KITCHEN"
)

// RoleCustomer marks tokens issued to customers after the external
// OTP verification step. Customers never pass RequireRole checks.
const RoleCustomer = "CUSTOMER"

// Menu categories (labels only, no DB constraint).
const (
	MenuCategorySnacks    = "snacks"
	MenuCategoryBeverages = "beverages"
)
