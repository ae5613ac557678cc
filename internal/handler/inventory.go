package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/service"
)

// InventoryServicer defines the service methods needed by the inventory
// handler. Satisfied by *service.InventoryLedger.
type InventoryServicer interface {
	GetForDate(ctx context.Context, date time.Time) ([]database.MenuInventory, error)
	Upsert(ctx context.Context, menuItemID string, date time.Time, defaultQuantity, availableQuantity int32, isAvailable bool) (*database.MenuInventory, error)
	SetAvailability(ctx context.Context, menuItemID string, date time.Time, isAvailable bool, quantity *int32) (*database.MenuInventory, error)
}

// InventoryHandler handles menu inventory endpoints.
type InventoryHandler struct {
	svc InventoryServicer
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(svc InventoryServicer) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// RegisterPublicRoutes registers the customer-facing inventory endpoints.
func (h *InventoryHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/menu-inventory/{date}", h.GetByDate)
}

// RegisterStaffRoutes registers the staff-facing inventory endpoints.
func (h *InventoryHandler) RegisterStaffRoutes(r chi.Router) {
	r.Post("/menu-inventory", h.Upsert)
	r.Patch("/menu-inventory/{menuItemId}/{date}", h.SetAvailability)
}

type upsertInventoryRequest struct {
	MenuItemID        string `json:"menu_item_id"`
	Date              string `json:"date"`
	DefaultQuantity   int32  `json:"default_quantity"`
	AvailableQuantity int32  `json:"available_quantity"`
	IsAvailable       bool   `json:"is_available"`
}

type setAvailabilityRequest struct {
	IsAvailable       bool   `json:"is_available"`
	AvailableQuantity *int32 `json:"available_quantity"`
}

type inventoryResponse struct {
	MenuItemID        string    `json:"menu_item_id"`
	Date              string    `json:"date"`
	DefaultQuantity   int32     `json:"default_quantity"`
	AvailableQuantity int32     `json:"available_quantity"`
	IsAvailable       bool      `json:"is_available"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GetByDate handles GET /menu-inventory/{date}. Requesting today's date
// seeds missing rows with the default quantity.
func (h *InventoryHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	records, err := h.svc.GetForDate(r.Context(), date)
	if err != nil {
		log.Printf("ERROR: get inventory: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]inventoryResponse, len(records))
	for i, rec := range records {
		resp[i] = toInventoryResponse(rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Upsert handles POST /menu-inventory.
func (h *InventoryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.MenuItemID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "menu_item_id is required"})
		return
	}
	if req.DefaultQuantity < 0 || req.AvailableQuantity < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantities must be >= 0"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	inv, err := h.svc.Upsert(r.Context(), req.MenuItemID, date, req.DefaultQuantity, req.AvailableQuantity, req.IsAvailable)
	if err != nil {
		log.Printf("ERROR: upsert inventory: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toInventoryResponse(*inv))
}

// SetAvailability handles PATCH /menu-inventory/{menuItemId}/{date}.
func (h *InventoryHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	menuItemID := chi.URLParam(r, "menuItemId")
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	var req setAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.AvailableQuantity != nil && *req.AvailableQuantity < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "available_quantity must be >= 0"})
		return
	}

	inv, err := h.svc.SetAvailability(r.Context(), menuItemID, date, req.IsAvailable, req.AvailableQuantity)
	if err != nil {
		if errors.Is(err, service.ErrInventoryNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "inventory record not found"})
			return
		}
		log.Printf("ERROR: set inventory availability: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toInventoryResponse(*inv))
}

func toInventoryResponse(inv database.MenuInventory) inventoryResponse {
	return inventoryResponse{
		MenuItemID:        inv.MenuItemID,
		Date:              inv.Date.Time.Format("2006-01-02"),
		DefaultQuantity:   inv.DefaultQuantity,
		AvailableQuantity: inv.AvailableQuantity,
		IsAvailable:       inv.IsAvailable,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}
