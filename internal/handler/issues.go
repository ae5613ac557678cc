package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/enum"
)

// IssueStore defines the database methods needed by the issue handler.
// Satisfied by *database.Queries; narrow interface for testability.
type IssueStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	CreateIssue(ctx context.Context, arg database.CreateIssueParams) (database.CustomerIssue, error)
	ListIssues(ctx context.Context) ([]database.CustomerIssue, error)
	UpdateIssueStatus(ctx context.Context, arg database.UpdateIssueStatusParams) (database.CustomerIssue, error)
}

// IssueHandler handles customer issue endpoints.
type IssueHandler struct {
	store IssueStore
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(store IssueStore) *IssueHandler {
	return &IssueHandler{store: store}
}

// RegisterPublicRoutes registers the customer-facing issue endpoints.
func (h *IssueHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/customer-issues", h.Create)
}

// RegisterStaffRoutes registers the staff-facing issue endpoints.
func (h *IssueHandler) RegisterStaffRoutes(r chi.Router) {
	r.Get("/customer-issues", h.List)
	r.Patch("/customer-issues/{id}/status", h.UpdateStatus)
}

type createIssueRequest struct {
	CustomerID  string `json:"customer_id"`
	OrderID     string `json:"order_id"`
	IssueType   string `json:"issue_type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type updateIssueStatusRequest struct {
	Status string `json:"status"`
}

type issueResponse struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  *string   `json:"customer_id"`
	OrderID     uuid.UUID `json:"order_id"`
	IssueType   string    `json:"issue_type"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Create handles POST /customer-issues. Issues are filed after the fact,
// so the referenced order must already be served or cancelled.
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order_id"})
		return
	}
	if !isValidIssueType(req.IssueType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid issue_type"})
		return
	}
	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = enum.IssuePriorityMedium
	}
	if !isValidIssuePriority(priority) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid priority"})
		return
	}

	customerID := pgtype.UUID{}
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer_id"})
			return
		}
		customerID = pgtype.UUID{Bytes: id, Valid: true}
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order for issue: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if order.Status != enum.OrderStatusServed && order.Status != enum.OrderStatusCancelled {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "issues can only be reported for completed orders"})
		return
	}

	issue, err := h.store.CreateIssue(r.Context(), database.CreateIssueParams{
		CustomerID:  customerID,
		OrderID:     orderID,
		IssueType:   req.IssueType,
		Description: req.Description,
		Priority:    priority,
	})
	if err != nil {
		log.Printf("ERROR: create issue: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toIssueResponse(issue))
}

// List handles GET /customer-issues, most recent first.
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	issues, err := h.store.ListIssues(r.Context())
	if err != nil {
		log.Printf("ERROR: list issues: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]issueResponse, len(issues))
	for i, is := range issues {
		resp[i] = toIssueResponse(is)
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /customer-issues/{id}/status.
func (h *IssueHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	issueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid issue ID"})
		return
	}

	var req updateIssueStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !isValidIssueStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	issue, err := h.store.UpdateIssueStatus(r.Context(), database.UpdateIssueStatusParams{
		ID:     issueID,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "issue not found"})
			return
		}
		log.Printf("ERROR: update issue status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toIssueResponse(issue))
}

func isValidIssueType(s string) bool {
	switch s {
	case enum.IssueTypeWrongOrder, enum.IssueTypeQuality, enum.IssueTypeMissingItems,
		enum.IssueTypeLateDelivery, enum.IssueTypeOther:
		return true
	}
	return false
}

func isValidIssueStatus(s string) bool {
	switch s {
	case enum.IssueStatusOpen, enum.IssueStatusInvestigating, enum.IssueStatusResolved, enum.IssueStatusClosed:
		return true
	}
	return false
}

func isValidIssuePriority(s string) bool {
	switch s {
	case enum.IssuePriorityLow, enum.IssuePriorityMedium, enum.IssuePriorityHigh, enum.IssuePriorityUrgent:
		return true
	}
	return false
}

func toIssueResponse(is database.CustomerIssue) issueResponse {
	resp := issueResponse{
		ID:          is.ID,
		OrderID:     is.OrderID,
		IssueType:   is.IssueType,
		Description: is.Description,
		Status:      is.Status,
		Priority:    is.Priority,
		CreatedAt:   is.CreatedAt,
		UpdatedAt:   is.UpdatedAt,
	}
	if is.CustomerID.Valid {
		s := uuid.UUID(is.CustomerID.Bytes).String()
		resp.CustomerID = &s
	}
	return resp
}
