package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/config"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/enum"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/handler"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/middleware"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/service"
)

// New builds the HTTP router with all routes wired up.
func New(cfg *config.Config, pool *pgxpool.Pool) http.Handler {
	queries := database.New(pool)

	admission := service.NewAdmissionService(pool,
		func(db database.DBTX) service.AdmissionStore { return database.New(db) },
		cfg.DefaultStockQty)
	status := service.NewStatusEngine(pool, queries,
		func(db database.DBTX) service.StatusStore { return database.New(db) })
	ledger := service.NewInventoryLedger(queries, cfg.DefaultStockQty)

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	menuHandler := handler.NewMenuHandler(queries)
	inventoryHandler := handler.NewInventoryHandler(ledger)
	orderHandler := handler.NewOrderHandler(admission, status, queries)
	issueHandler := handler.NewIssueHandler(queries)
	reportsHandler := handler.NewReportsHandler(queries)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public routes: customers order and track without staff credentials.
	r.Group(func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		menuHandler.RegisterRoutes(r)
		inventoryHandler.RegisterPublicRoutes(r)
		orderHandler.RegisterPublicRoutes(r)
		issueHandler.RegisterPublicRoutes(r)
	})

	// Staff routes: kitchen and owner.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTSecret))
		r.Use(middleware.RequireRole(enum.StaffRoleOwner, enum.StaffRoleKitchen))
		orderHandler.RegisterStaffRoutes(r)
		inventoryHandler.RegisterStaffRoutes(r)
		issueHandler.RegisterStaffRoutes(r)
	})

	// Owner-only routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTSecret))
		r.Use(middleware.RequireRole(enum.StaffRoleOwner))
		reportsHandler.RegisterOwnerRoutes(r)
	})

	return r
}
