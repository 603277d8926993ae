package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/driveline/rental-be/internal/auth"
	"github.com/driveline/rental-be/internal/http/respond"
	"github.com/driveline/rental-be/internal/logging"
	"github.com/driveline/rental-be/internal/models"
	"github.com/driveline/rental-be/internal/models/dto"
	"github.com/driveline/rental-be/internal/pricing"
	"github.com/driveline/rental-be/internal/storage"
)

// RentalsStore is the slice of storage the booking flow needs.
type RentalsStore interface {
	storage.RentalStore
	storage.CarStore
	storage.LocationStore
	storage.PromotionStore
}

// RentalsHandler owns the customer booking endpoints. All routes are behind
// the access gate.
type RentalsHandler struct {
	store RentalsStore
	log   logging.Logger
}

// NewRentalsHandler constructs the handler.
func NewRentalsHandler(store RentalsStore, log logging.Logger) *RentalsHandler {
	return &RentalsHandler{store: store, log: log}
}

// Register attaches rental routes to the mux.
func (h *RentalsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/rentals", h.handleBook)
	mux.HandleFunc("GET /api/rentals", h.handleList)
	mux.HandleFunc("GET /api/rentals/{id}", h.handleGet)
	mux.HandleFunc("POST /api/rentals/{id}/cancel", h.handleCancel)
}

func (h *RentalsHandler) handleBook(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req dto.BookRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.CarID <= 0 || req.LocationID <= 0 {
		respond.Error(w, http.StatusBadRequest, "carId and locationId are required")
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
		return
	}
	if !end.After(start) {
		respond.Error(w, http.StatusBadRequest, "endDate must be after startDate")
		return
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if start.Before(today) {
		respond.Error(w, http.StatusBadRequest, "startDate must not be in the past")
		return
	}

	car, err := h.store.FindCarByID(r.Context(), req.CarID)
	if err != nil {
		respondStoreError(w, r, h.log, err, "fetch car")
		return
	}
	if car.Status != models.CarAvailable {
		respond.Error(w, http.StatusConflict, "car is not available")
		return
	}
	if _, err := h.store.FindLocationByID(r.Context(), req.LocationID); err != nil {
		respondStoreError(w, r, h.log, err, "fetch location")
		return
	}

	discount := 0
	promoCode := strings.ToUpper(strings.TrimSpace(req.PromoCode))
	if promoCode != "" {
		promo, err := h.store.FindPromotionByCode(r.Context(), promoCode)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusBadRequest, "unknown promo code")
				return
			}
			respondStoreError(w, r, h.log, err, "fetch promotion")
			return
		}
		if !promo.ActiveAt(time.Now()) {
			respond.Error(w, http.StatusBadRequest, "promo code is not active")
			return
		}
		discount = promo.DiscountPercent
	}

	rental := models.Rental{
		UserID:     identity.UserID,
		CarID:      req.CarID,
		LocationID: req.LocationID,
		StartDate:  start,
		EndDate:    end,
		PriceCents: pricing.Quote(car.DailyRateCents, start, end, discount),
		PromoCode:  promoCode,
	}
	created, err := h.store.BookRental(r.Context(), rental)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			respond.Error(w, http.StatusConflict, "car is not available")
			return
		}
		respondStoreError(w, r, h.log, err, "book rental")
		return
	}
	respond.JSON(w, http.StatusCreated, "rental booked", created)
}

func (h *RentalsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	rentals, err := h.store.ListRentalsByUser(r.Context(), identity.UserID)
	if err != nil {
		h.log.Error(r.Context(), "list rentals failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list rentals")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", rentals)
}

func (h *RentalsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rental, err := h.store.FindRentalByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, h.log, err, "fetch rental")
		return
	}
	// Customers see only their own rentals; admins see all.
	if rental.UserID != identity.UserID && identity.Role != models.RoleAdmin {
		respond.Error(w, http.StatusNotFound, "not found")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", rental)
}

func (h *RentalsHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rental, err := h.store.FindRentalByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, h.log, err, "fetch rental")
		return
	}
	if rental.UserID != identity.UserID && identity.Role != models.RoleAdmin {
		respond.Error(w, http.StatusNotFound, "not found")
		return
	}

	cancelled, err := h.store.CloseRental(r.Context(), id, models.RentalCancelled)
	if err != nil {
		respondStoreError(w, r, h.log, err, "cancel rental")
		return
	}
	respond.JSON(w, http.StatusOK, "rental cancelled", cancelled)
}
