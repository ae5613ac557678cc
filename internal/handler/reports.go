package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	GetOrderStatusCounts(ctx context.Context, day pgtype.Date) ([]database.GetOrderStatusCountsRow, error)
	GetDailySales(ctx context.Context, arg database.GetDailySalesParams) ([]database.GetDailySalesRow, error)
	GetTopSellingItems(ctx context.Context, arg database.GetTopSellingItemsParams) ([]database.GetTopSellingItemsRow, error)
	CountActiveOrders(ctx context.Context) (int64, error)
}

// ReportsHandler handles owner report endpoints.
type ReportsHandler struct {
	store ReportsStore
	now   func() time.Time
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store, now: time.Now}
}

// RegisterOwnerRoutes registers owner-only report endpoints.
func (h *ReportsHandler) RegisterOwnerRoutes(r chi.Router) {
	r.Get("/reports/owner-dashboard", h.OwnerDashboard)
}

type ownerDashboardResponse struct {
	Date            string               `json:"date"`
	StatusCounts    map[string]int64     `json:"status_counts"`
	ActiveOrders    int64                `json:"active_orders"`
	TodayRevenue    string               `json:"today_revenue"`
	DailySales      []dailySalesEntry    `json:"daily_sales"`
	TopSellingItems []topSellingResponse `json:"top_selling_items"`
}

type dailySalesEntry struct {
	Date         string `json:"date"`
	OrderCount   int64  `json:"order_count"`
	TotalRevenue string `json:"total_revenue"`
}

type topSellingResponse struct {
	MenuItemID   string `json:"menu_item_id"`
	ItemName     string `json:"item_name"`
	QuantitySold int64  `json:"quantity_sold"`
	TotalRevenue string `json:"total_revenue"`
}

// OwnerDashboard handles GET /reports/owner-dashboard: today's order
// status breakdown, queue depth, and served revenue over a recent window
// (default 7 days, ?days= up to 90).
func (h *ReportsHandler) OwnerDashboard(w http.ResponseWriter, r *http.Request) {
	days := 7
	if s := r.URL.Query().Get("days"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid days"})
			return
		}
		days = v
	}
	if days > 90 {
		days = 90
	}

	now := h.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayDate := pgtype.Date{Time: today, Valid: true}
	startDate := pgtype.Date{Time: today.AddDate(0, 0, -(days - 1)), Valid: true}

	statusRows, err := h.store.GetOrderStatusCounts(r.Context(), todayDate)
	if err != nil {
		log.Printf("ERROR: get order status counts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	active, err := h.store.CountActiveOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: count active orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	sales, err := h.store.GetDailySales(r.Context(), database.GetDailySalesParams{
		StartDay: startDate,
		EndDay:   todayDate,
	})
	if err != nil {
		log.Printf("ERROR: get daily sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	topItems, err := h.store.GetTopSellingItems(r.Context(), database.GetTopSellingItemsParams{
		StartDay: startDate,
		EndDay:   todayDate,
		Limit:    10,
	})
	if err != nil {
		log.Printf("ERROR: get top selling items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := ownerDashboardResponse{
		Date:            today.Format("2006-01-02"),
		StatusCounts:    make(map[string]int64, len(statusRows)),
		ActiveOrders:    active,
		TodayRevenue:    "0.00",
		DailySales:      make([]dailySalesEntry, len(sales)),
		TopSellingItems: make([]topSellingResponse, len(topItems)),
	}
	for _, row := range statusRows {
		resp.StatusCounts[row.Status] = row.OrderCount
	}
	for i, row := range sales {
		entry := dailySalesEntry{
			OrderCount:   row.OrderCount,
			TotalRevenue: numericToString(row.TotalRevenue),
		}
		if row.Day.Valid {
			entry.Date = row.Day.Time.Format("2006-01-02")
			if row.Day.Time.Equal(today) {
				resp.TodayRevenue = entry.TotalRevenue
			}
		}
		resp.DailySales[i] = entry
	}
	for i, row := range topItems {
		resp.TopSellingItems[i] = topSellingResponse{
			MenuItemID:   row.MenuItemID,
			ItemName:     row.ItemName,
			QuantitySold: row.QuantitySold,
			TotalRevenue: numericToString(row.TotalRevenue),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
