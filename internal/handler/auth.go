package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/auth"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/enum"
)

// AuthStore defines the database methods needed by auth handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AuthStore interface {
	GetStaffByEmail(ctx context.Context, email string) (database.Staff, error)
	UpsertUserByPhone(ctx context.Context, arg database.UpsertUserByPhoneParams) (database.User, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	store     AuthStore
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store AuthStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/verify", h.Verify)
	r.Post("/auth/staff/login", h.StaffLogin)
}

// --- Request / Response types ---

type verifyRequest struct {
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type staffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type customerResponse struct {
	ID       string  `json:"id"`
	Phone    string  `json:"phone"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

type verifyResponse struct {
	User  customerResponse `json:"user"`
	Token string           `json:"token"`
}

type staffLoginResponse struct {
	Token string `json:"token"`
	Staff struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	} `json:"staff"`
}

// --- Handlers ---

// Verify records an identity the external OTP collaborator has already
// verified and issues a customer token. The OTP exchange itself happens
// out of band; this endpoint trusts its input per that contract.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return
	}

	email := pgtype.Text{}
	if req.Email != "" {
		email = pgtype.Text{String: req.Email, Valid: true}
	}
	fullName := pgtype.Text{}
	if req.FullName != "" {
		fullName = pgtype.Text{String: req.FullName, Valid: true}
	}

	user, err := h.store.UpsertUserByPhone(r.Context(), database.UpsertUserByPhoneParams{
		Phone:    req.Phone,
		Email:    email,
		FullName: fullName,
	})
	if err != nil {
		log.Printf("ERROR: upsert user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID, enum.RoleCustomer)
	if err != nil {
		log.Printf("ERROR: generate customer token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		User:  toCustomerResponse(user),
		Token: token,
	})
}

// StaffLogin handles email + password authentication for kitchen and
// owner accounts.
func (h *AuthHandler) StaffLogin(w http.ResponseWriter, r *http.Request) {
	var req staffLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	staff, err := h.store.GetStaffByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		log.Printf("ERROR: get staff: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.HashedPassword), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, staff.ID, staff.Role)
	if err != nil {
		log.Printf("ERROR: generate staff token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := staffLoginResponse{Token: token}
	resp.Staff.ID = staff.ID.String()
	resp.Staff.Email = staff.Email
	resp.Staff.FullName = staff.FullName
	resp.Staff.Role = staff.Role
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func toCustomerResponse(u database.User) customerResponse {
	resp := customerResponse{
		ID:    u.ID.String(),
		Phone: u.Phone,
	}
	if u.FullName.Valid {
		resp.FullName = &u.FullName.String
	}
	if u.Email.Valid {
		resp.Email = &u.Email.String
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
