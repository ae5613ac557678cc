package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/enum"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/handler"
)

type mockIssueStore struct {
	getOrderFn          func(ctx context.Context, id uuid.UUID) (database.Order, error)
	createIssueFn       func(ctx context.Context, arg database.CreateIssueParams) (database.CustomerIssue, error)
	listIssuesFn        func(ctx context.Context) ([]database.CustomerIssue, error)
	updateIssueStatusFn func(ctx context.Context, arg database.UpdateIssueStatusParams) (database.CustomerIssue, error)
}

func (m *mockIssueStore) GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error) {
	if m.getOrderFn != nil {
		return m.getOrderFn(ctx, id)
	}
	return database.Order{}, pgx.ErrNoRows
}

func (m *mockIssueStore) CreateIssue(ctx context.Context, arg database.CreateIssueParams) (database.CustomerIssue, error) {
	if m.createIssueFn != nil {
		return m.createIssueFn(ctx, arg)
	}
	return database.CustomerIssue{
		ID:          uuid.New(),
		CustomerID:  arg.CustomerID,
		OrderID:     arg.OrderID,
		IssueType:   arg.IssueType,
		Description: arg.Description,
		Status:      enum.IssueStatusOpen,
		Priority:    arg.Priority,
	}, nil
}

func (m *mockIssueStore) ListIssues(ctx context.Context) ([]database.CustomerIssue, error) {
	if m.listIssuesFn != nil {
		return m.listIssuesFn(ctx)
	}
	return []database.CustomerIssue{}, nil
}

func (m *mockIssueStore) UpdateIssueStatus(ctx context.Context, arg database.UpdateIssueStatusParams) (database.CustomerIssue, error) {
	if m.updateIssueStatusFn != nil {
		return m.updateIssueStatusFn(ctx, arg)
	}
	return database.CustomerIssue{}, pgx.ErrNoRows
}

func setupIssueRouter(store *mockIssueStore) *chi.Mux {
	h := handler.NewIssueHandler(store)
	r := chi.NewRouter()
	h.RegisterPublicRoutes(r)
	h.RegisterStaffRoutes(r)
	return r
}

func servedOrderStore(orderID uuid.UUID) *mockIssueStore {
	return &mockIssueStore{
		getOrderFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			if id != orderID {
				return database.Order{}, pgx.ErrNoRows
			}
			return database.Order{ID: orderID, Status: enum.OrderStatusServed}, nil
		},
	}
}

func issueBody(orderID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"order_id":    orderID.String(),
		"issue_type":  "missing_items",
		"description": "The singara was missing",
		"priority":    "high",
	}
}

func TestIssueCreate_HappyPath(t *testing.T) {
	orderID := uuid.New()
	router := setupIssueRouter(servedOrderStore(orderID))

	rr := doRequest(t, router, "POST", "/customer-issues", issueBody(orderID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d, body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeBody(t, rr)
	if resp["status"] != "open" {
		t.Errorf("issue status: got %v, want open", resp["status"])
	}
	if resp["priority"] != "high" {
		t.Errorf("priority: got %v, want high", resp["priority"])
	}
}

func TestIssueCreate_DefaultsPriorityToMedium(t *testing.T) {
	orderID := uuid.New()
	router := setupIssueRouter(servedOrderStore(orderID))

	body := issueBody(orderID)
	delete(body, "priority")
	rr := doRequest(t, router, "POST", "/customer-issues", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusCreated)
	}
	if resp := decodeBody(t, rr); resp["priority"] != "medium" {
		t.Errorf("priority: got %v, want medium", resp["priority"])
	}
}

func TestIssueCreate_OrderNotFound(t *testing.T) {
	router := setupIssueRouter(&mockIssueStore{})

	rr := doRequest(t, router, "POST", "/customer-issues", issueBody(uuid.New()))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestIssueCreate_OrderStillActive(t *testing.T) {
	orderID := uuid.New()
	store := &mockIssueStore{
		getOrderFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{ID: orderID, Status: enum.OrderStatusPreparing}, nil
		},
	}
	router := setupIssueRouter(store)

	rr := doRequest(t, router, "POST", "/customer-issues", issueBody(orderID))
	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestIssueCreate_InvalidType(t *testing.T) {
	orderID := uuid.New()
	router := setupIssueRouter(servedOrderStore(orderID))

	body := issueBody(orderID)
	body["issue_type"] = "vibes"
	rr := doRequest(t, router, "POST", "/customer-issues", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestIssueCreate_MissingDescription(t *testing.T) {
	orderID := uuid.New()
	router := setupIssueRouter(servedOrderStore(orderID))

	body := issueBody(orderID)
	body["description"] = ""
	rr := doRequest(t, router, "POST", "/customer-issues", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestIssueUpdateStatus_HappyPath(t *testing.T) {
	issueID := uuid.New()
	store := &mockIssueStore{
		updateIssueStatusFn: func(ctx context.Context, arg database.UpdateIssueStatusParams) (database.CustomerIssue, error) {
			if arg.ID != issueID || arg.Status != "resolved" {
				t.Errorf("args: %+v", arg)
			}
			return database.CustomerIssue{ID: issueID, OrderID: uuid.New(), Status: arg.Status}, nil
		},
	}
	router := setupIssueRouter(store)

	rr := doRequest(t, router, "PATCH", "/customer-issues/"+issueID.String()+"/status", map[string]string{"status": "resolved"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestIssueUpdateStatus_InvalidStatus(t *testing.T) {
	router := setupIssueRouter(&mockIssueStore{})

	rr := doRequest(t, router, "PATCH", "/customer-issues/"+uuid.NewString()+"/status", map[string]string{"status": "done"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestIssueUpdateStatus_NotFound(t *testing.T) {
	router := setupIssueRouter(&mockIssueStore{})

	rr := doRequest(t, router, "PATCH", "/customer-issues/"+uuid.NewString()+"/status", map[string]string{"status": "closed"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
