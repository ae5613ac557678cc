package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/handler"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/service"
)

type mockInventoryService struct {
	getForDateFn      func(ctx context.Context, date time.Time) ([]database.MenuInventory, error)
	upsertFn          func(ctx context.Context, menuItemID string, date time.Time, defaultQuantity, availableQuantity int32, isAvailable bool) (*database.MenuInventory, error)
	setAvailabilityFn func(ctx context.Context, menuItemID string, date time.Time, isAvailable bool, quantity *int32) (*database.MenuInventory, error)
}

func (m *mockInventoryService) GetForDate(ctx context.Context, date time.Time) ([]database.MenuInventory, error) {
	return m.getForDateFn(ctx, date)
}

func (m *mockInventoryService) Upsert(ctx context.Context, menuItemID string, date time.Time, defaultQuantity, availableQuantity int32, isAvailable bool) (*database.MenuInventory, error) {
	return m.upsertFn(ctx, menuItemID, date, defaultQuantity, availableQuantity, isAvailable)
}

func (m *mockInventoryService) SetAvailability(ctx context.Context, menuItemID string, date time.Time, isAvailable bool, quantity *int32) (*database.MenuInventory, error) {
	return m.setAvailabilityFn(ctx, menuItemID, date, isAvailable, quantity)
}

func setupInventoryRouter(svc *mockInventoryService) *chi.Mux {
	h := handler.NewInventoryHandler(svc)
	r := chi.NewRouter()
	h.RegisterPublicRoutes(r)
	h.RegisterStaffRoutes(r)
	return r
}

func testInventory(itemID string, date time.Time, available int32) database.MenuInventory {
	return database.MenuInventory{
		MenuItemID:        itemID,
		Date:              pgtype.Date{Time: date, Valid: true},
		DefaultQuantity:   50,
		AvailableQuantity: available,
		IsAvailable:       available > 0,
	}
}

func TestInventoryGetByDate_HappyPath(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	svc := &mockInventoryService{
		getForDateFn: func(ctx context.Context, date time.Time) ([]database.MenuInventory, error) {
			if !date.Equal(day) {
				t.Errorf("date: got %v, want %v", date, day)
			}
			return []database.MenuInventory{
				testInventory("fuchka", day, 48),
				testInventory("tea", day, 0),
			}, nil
		},
	}
	router := setupInventoryRouter(svc)

	rr := doRequest(t, router, "GET", "/menu-inventory/2026-09-01", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("records: got %d, want 2", len(resp))
	}
	if resp[0]["available_quantity"].(float64) != 48 {
		t.Errorf("first quantity: got %v", resp[0]["available_quantity"])
	}
	if resp[1]["is_available"].(bool) {
		t.Error("sold out item should be unavailable")
	}
}

func TestInventoryGetByDate_InvalidDate(t *testing.T) {
	router := setupInventoryRouter(&mockInventoryService{})

	rr := doRequest(t, router, "GET", "/menu-inventory/september-first", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestInventoryUpsert_HappyPath(t *testing.T) {
	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	svc := &mockInventoryService{
		upsertFn: func(ctx context.Context, menuItemID string, date time.Time, defaultQuantity, availableQuantity int32, isAvailable bool) (*database.MenuInventory, error) {
			if menuItemID != "fuchka" || defaultQuantity != 60 || availableQuantity != 60 {
				t.Errorf("args: %s %d %d", menuItemID, defaultQuantity, availableQuantity)
			}
			inv := testInventory(menuItemID, day, availableQuantity)
			inv.DefaultQuantity = defaultQuantity
			return &inv, nil
		},
	}
	router := setupInventoryRouter(svc)

	rr := doRequest(t, router, "POST", "/menu-inventory", map[string]interface{}{
		"menu_item_id":       "fuchka",
		"date":               "2026-09-02",
		"default_quantity":   60,
		"available_quantity": 60,
		"is_available":       true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
}

func TestInventoryUpsert_NegativeQuantity(t *testing.T) {
	router := setupInventoryRouter(&mockInventoryService{})

	rr := doRequest(t, router, "POST", "/menu-inventory", map[string]interface{}{
		"menu_item_id":       "fuchka",
		"date":               "2026-09-02",
		"default_quantity":   -1,
		"available_quantity": 0,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestInventorySetAvailability_HappyPath(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	svc := &mockInventoryService{
		setAvailabilityFn: func(ctx context.Context, menuItemID string, date time.Time, isAvailable bool, quantity *int32) (*database.MenuInventory, error) {
			if menuItemID != "tea" {
				t.Errorf("item: got %s", menuItemID)
			}
			if isAvailable {
				t.Error("expected is_available false")
			}
			if quantity != nil {
				t.Errorf("quantity should be nil, got %d", *quantity)
			}
			inv := testInventory(menuItemID, day, 30)
			inv.IsAvailable = false
			return &inv, nil
		},
	}
	router := setupInventoryRouter(svc)

	rr := doRequest(t, router, "PATCH", "/menu-inventory/tea/2026-09-01", map[string]interface{}{
		"is_available": false,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
}

func TestInventorySetAvailability_NotFound(t *testing.T) {
	svc := &mockInventoryService{
		setAvailabilityFn: func(ctx context.Context, menuItemID string, date time.Time, isAvailable bool, quantity *int32) (*database.MenuInventory, error) {
			return nil, service.ErrInventoryNotFound
		},
	}
	router := setupInventoryRouter(svc)

	rr := doRequest(t, router, "PATCH", "/menu-inventory/tea/2026-09-01", map[string]interface{}{
		"is_available": true,
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
