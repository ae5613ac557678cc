package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/service"
)

// AdmissionServicer defines the service methods needed by the order
// create handler. Satisfied by *service.AdmissionService.
type AdmissionServicer interface {
	PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error)
}

// StatusAdvancer defines the service methods needed by the status and
// check-in handlers. Satisfied by *service.StatusEngine.
type StatusAdvancer interface {
	Advance(ctx context.Context, orderID uuid.UUID, targetStatus string) (*database.Order, error)
	CheckIn(ctx context.Context, orderID uuid.UUID) (*database.Order, error)
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context) ([]database.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]database.Order, error)
	ListActiveOrders(ctx context.Context) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc    AdmissionServicer
	status StatusAdvancer
	store  OrderStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc AdmissionServicer, status StatusAdvancer, store OrderStore) *OrderHandler {
	return &OrderHandler{svc: svc, status: status, store: store}
}

// RegisterPublicRoutes registers the customer-facing order endpoints.
func (h *OrderHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders", h.List)
	r.Get("/orders/active", h.ListActive)
	r.Get("/orders/{id}", h.Get)
	r.Patch("/orders/{id}/check-in", h.CheckIn)
}

// RegisterStaffRoutes registers the kitchen-facing order endpoints.
func (h *OrderHandler) RegisterStaffRoutes(r chi.Router) {
	r.Patch("/orders/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type createOrderRequest struct {
	CustomerID    string                   `json:"customer_id"`
	CustomerName  string                   `json:"customer_name"`
	CustomerPhone string                   `json:"customer_phone"`
	EstimatedTime int32                    `json:"estimated_time"`
	Payment       paymentConfirmation      `json:"payment"`
	Items         []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int32  `json:"quantity"`
}

// paymentConfirmation mirrors what the external payment collaborator
// reports; it is recorded verbatim.
type paymentConfirmation struct {
	Status    string `json:"status"`
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

type orderResponse struct {
	ID               uuid.UUID           `json:"id"`
	CustomerID       *string             `json:"customer_id"`
	CustomerName     string              `json:"customer_name"`
	CustomerPhone    *string             `json:"customer_phone"`
	Items            []orderItemResponse `json:"items,omitempty"`
	TotalAmount      string              `json:"total_amount"`
	Status           string              `json:"status"`
	QueueNumber      int32               `json:"queue_number"`
	EstimatedTime    int32               `json:"estimated_time"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentMethod    *string             `json:"payment_method"`
	PaymentReference *string             `json:"payment_reference"`
	CheckInTime      *time.Time          `json:"check_in_time"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

type orderItemResponse struct {
	MenuItemID string `json:"menu_item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int32  `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// --- Handlers ---

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.CustomerName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer_name is required"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}
	for i, item := range req.Items {
		if item.MenuItemID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": formatItemError(i, "menu_item_id is required"),
			})
			return
		}
		if item.Quantity <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": formatItemError(i, "quantity must be > 0"),
			})
			return
		}
	}

	svcItems := make([]service.PlaceOrderItem, len(req.Items))
	for i, item := range req.Items {
		svcItems[i] = service.PlaceOrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		}
	}

	result, err := h.svc.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		CustomerID:       req.CustomerID,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		EstimatedTime:    req.EstimatedTime,
		PaymentStatus:    req.Payment.Status,
		PaymentMethod:    req.Payment.Method,
		PaymentReference: req.Payment.Reference,
		Items:            svcItems,
	})
	if err != nil {
		if errors.Is(err, service.ErrInsufficientStock) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		if isAdmissionValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: place order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(result.Order)
	resp.Items = toOrderItemResponses(result.Items)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /orders, most recent first. With ?customer_id= the
// list is scoped to that customer's order history.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		orders []database.Order
		err    error
	)
	if s := r.URL.Query().Get("customer_id"); s != "" {
		customerID, parseErr := uuid.Parse(s)
		if parseErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer_id"})
			return
		}
		orders, err = h.store.ListOrdersByCustomer(r.Context(), customerID)
	} else {
		orders, err = h.store.ListOrders(r.Context())
	}
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListActive handles GET /orders/active: the live queue (pending,
// preparing, ready) in queue-number order, items included for the
// kitchen display.
func (h *OrderHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListActiveOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: list active orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		items, err := h.store.ListOrderItemsByOrder(r.Context(), o.ID)
		if err != nil {
			log.Printf("ERROR: list order items: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		resp[i] = toOrderResponse(o)
		resp[i].Items = toOrderItemResponses(items)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(order)
	resp.Items = toOrderItemResponses(items)
	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	order, err := h.status.Advance(r.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrStatusConflict):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: update order status: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// CheckIn handles PATCH /orders/{id}/check-in.
func (h *OrderHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.status.CheckIn(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, service.ErrAlreadyCheckedIn), errors.Is(err, service.ErrCheckInNotAllowed):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: check in order: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// --- Helpers ---

func formatItemError(idx int, msg string) string {
	return "items[" + strconv.Itoa(idx) + "]: " + msg
}

// isAdmissionValidationError checks if the error is a known validation
// error from the admission service that should result in 400 Bad Request.
func isAdmissionValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyCart) ||
		errors.Is(err, service.ErrMissingCustomerName) ||
		errors.Is(err, service.ErrMissingCustomerContact) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrMenuItemNotFound) ||
		errors.Is(err, service.ErrInvalidCustomerID) ||
		errors.Is(err, service.ErrInvalidPaymentStatus)
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		TotalAmount:   numericToString(o.TotalAmount),
		Status:        o.Status,
		QueueNumber:   o.QueueNumber,
		EstimatedTime: o.EstimatedTime,
		PaymentStatus: o.PaymentStatus,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.CustomerID.Valid {
		s := uuid.UUID(o.CustomerID.Bytes).String()
		resp.CustomerID = &s
	}
	if o.CustomerPhone.Valid {
		resp.CustomerPhone = &o.CustomerPhone.String
	}
	if o.PaymentMethod.Valid {
		resp.PaymentMethod = &o.PaymentMethod.String
	}
	if o.PaymentReference.Valid {
		resp.PaymentReference = &o.PaymentReference.String
	}
	if o.CheckInTime.Valid {
		resp.CheckInTime = &o.CheckInTime.Time
	}
	return resp
}

func toOrderItemResponses(items []database.OrderItem) []orderItemResponse {
	resp := make([]orderItemResponse, len(items))
	for i, it := range items {
		resp[i] = orderItemResponse{
			MenuItemID: it.MenuItemID,
			ItemName:   it.ItemName,
			Quantity:   it.Quantity,
			UnitPrice:  numericToString(it.UnitPrice),
		}
	}
	return resp
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
