package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/driveline/rental-be/internal/http/respond"
	"github.com/driveline/rental-be/internal/logging"
	"github.com/driveline/rental-be/internal/media"
	"github.com/driveline/rental-be/internal/middleware"
	"github.com/driveline/rental-be/internal/models"
	"github.com/driveline/rental-be/internal/models/dto"
	"github.com/driveline/rental-be/internal/storage"
)

// AdminHandler owns the back-office endpoints. Every route is behind the
// access gate plus an admin role check.
type AdminHandler struct {
	store storage.Store
	media MediaService
	log   logging.Logger
}

// NewAdminHandler constructs the handler. media may be nil.
func NewAdminHandler(store storage.Store, media MediaService, log logging.Logger) *AdminHandler {
	return &AdminHandler{store: store, media: media, log: log}
}

// Register attaches admin routes to the mux, each wrapped in the role check.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAdmin(fn))
	}

	admin("POST /api/admin/cars", h.handleCreateCar)
	admin("PUT /api/admin/cars/{id}", h.handleUpdateCar)
	admin("DELETE /api/admin/cars/{id}", h.handleDeleteCar)
	admin("POST /api/admin/cars/{id}/photos", h.handleAddCarPhoto)
	admin("POST /api/admin/cars/{id}/maintenance", h.handleCreateMaintenance)
	admin("GET /api/admin/cars/{id}/maintenance", h.handleListMaintenance)
	admin("POST /api/admin/maintenance/{id}/resolve", h.handleResolveMaintenance)
	admin("POST /api/admin/locations", h.handleCreateLocation)
	admin("POST /api/admin/promotions", h.handleCreatePromotion)
	admin("PUT /api/admin/promotions/{id}", h.handleUpdatePromotion)
	admin("DELETE /api/admin/promotions/{id}", h.handleDeletePromotion)
	admin("POST /api/admin/rentals/{id}/return", h.handleReturnRental)
	admin("GET /api/admin/dashboard", h.handleDashboard)
}

// --- fleet ---

func (h *AdminHandler) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	car, ok := h.decodeCar(w, r)
	if !ok {
		return
	}
	created, err := h.store.CreateCar(r.Context(), car)
	if err != nil {
		respondStoreError(w, r, h.log, err, "create car")
		return
	}
	respond.JSON(w, http.StatusCreated, "car created", created)
}

func (h *AdminHandler) handleUpdateCar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	car, ok := h.decodeCar(w, r)
	if !ok {
		return
	}
	car.ID = id
	updated, err := h.store.UpdateCar(r.Context(), car)
	if err != nil {
		respondStoreError(w, r, h.log, err, "update car")
		return
	}
	respond.JSON(w, http.StatusOK, "car updated", updated)
}

func (h *AdminHandler) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteCar(r.Context(), id); err != nil {
		respondStoreError(w, r, h.log, err, "delete car")
		return
	}
	respond.JSON(w, http.StatusOK, "car deleted", nil)
}

func (h *AdminHandler) decodeCar(w http.ResponseWriter, r *http.Request) (models.Car, bool) {
	var req dto.CarUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return models.Car{}, false
	}
	if req.LocationID <= 0 || strings.TrimSpace(req.Make) == "" || strings.TrimSpace(req.Model) == "" ||
		strings.TrimSpace(req.Plate) == "" || req.DailyRateCents <= 0 {
		respond.Error(w, http.StatusBadRequest, "locationId, make, model, plate, and dailyRateCents are required")
		return models.Car{}, false
	}
	if _, err := h.store.FindLocationByID(r.Context(), req.LocationID); err != nil {
		respondStoreError(w, r, h.log, err, "fetch location")
		return models.Car{}, false
	}
	return models.Car{
		LocationID:     req.LocationID,
		Make:           strings.TrimSpace(req.Make),
		Model:          strings.TrimSpace(req.Model),
		Year:           req.Year,
		Plate:          strings.ToUpper(strings.TrimSpace(req.Plate)),
		DailyRateCents: req.DailyRateCents,
	}, true
}

// --- photos ---

func (h *AdminHandler) handleAddCarPhoto(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		respond.Error(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.store.FindCarByID(r.Context(), id); err != nil {
		respondStoreError(w, r, h.log, err, "fetch car")
		return
	}

	key := media.NewStorageKey(id)
	uploadURL, err := h.media.PresignUpload(r.Context(), key)
	if err != nil {
		h.log.Error(r.Context(), "presign upload failed", "error", err, "car_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to prepare upload")
		return
	}
	if _, err := h.store.AddCarPhoto(r.Context(), models.CarPhoto{CarID: id, StorageKey: key}); err != nil {
		respondStoreError(w, r, h.log, err, "record photo")
		return
	}
	respond.JSON(w, http.StatusCreated, "upload ready", dto.PhotoUploadResponse{
		StorageKey: key,
		UploadURL:  uploadURL,
	})
}

// --- maintenance ---

func (h *AdminHandler) handleCreateMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.MaintenanceCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		respond.Error(w, http.StatusBadRequest, "description is required")
		return
	}
	created, err := h.store.CreateMaintenanceLog(r.Context(), models.MaintenanceLog{
		CarID:       id,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		respondStoreError(w, r, h.log, err, "create maintenance log")
		return
	}
	respond.JSON(w, http.StatusCreated, "maintenance logged", created)
}

func (h *AdminHandler) handleListMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	logs, err := h.store.ListMaintenanceByCar(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, h.log, err, "list maintenance logs")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", logs)
}

func (h *AdminHandler) handleResolveMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resolved, err := h.store.ResolveMaintenanceLog(r.Context(), id, time.Now())
	if err != nil {
		respondStoreError(w, r, h.log, err, "resolve maintenance log")
		return
	}
	respond.JSON(w, http.StatusOK, "maintenance resolved", resolved)
}

// --- locations ---

func (h *AdminHandler) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req dto.LocationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.store.CreateLocation(r.Context(), models.Location{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
	})
	if err != nil {
		respondStoreError(w, r, h.log, err, "create location")
		return
	}
	respond.JSON(w, http.StatusCreated, "location created", created)
}

// --- promotions ---

func (h *AdminHandler) handleCreatePromotion(w http.ResponseWriter, r *http.Request) {
	promo, ok := h.decodePromotion(w, r)
	if !ok {
		return
	}
	created, err := h.store.CreatePromotion(r.Context(), promo)
	if err != nil {
		respondStoreError(w, r, h.log, err, "create promotion")
		return
	}
	respond.JSON(w, http.StatusCreated, "promotion created", created)
}

func (h *AdminHandler) handleUpdatePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	promo, ok := h.decodePromotion(w, r)
	if !ok {
		return
	}
	promo.ID = id
	updated, err := h.store.UpdatePromotion(r.Context(), promo)
	if err != nil {
		respondStoreError(w, r, h.log, err, "update promotion")
		return
	}
	respond.JSON(w, http.StatusOK, "promotion updated", updated)
}

func (h *AdminHandler) handleDeletePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeletePromotion(r.Context(), id); err != nil {
		respondStoreError(w, r, h.log, err, "delete promotion")
		return
	}
	respond.JSON(w, http.StatusOK, "promotion deleted", nil)
}

func (h *AdminHandler) decodePromotion(w http.ResponseWriter, r *http.Request) (models.Promotion, bool) {
	var req dto.PromotionUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return models.Promotion{}, false
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" || req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		respond.Error(w, http.StatusBadRequest, "code and a discount between 0 and 100 are required")
		return models.Promotion{}, false
	}
	starts, err := parseDate(req.StartsAt)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "startsAt must be YYYY-MM-DD")
		return models.Promotion{}, false
	}
	ends, err := parseDate(req.EndsAt)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "endsAt must be YYYY-MM-DD")
		return models.Promotion{}, false
	}
	if !ends.After(starts) {
		respond.Error(w, http.StatusBadRequest, "endsAt must be after startsAt")
		return models.Promotion{}, false
	}
	return models.Promotion{
		Code:            code,
		Description:     strings.TrimSpace(req.Description),
		DiscountPercent: req.DiscountPercent,
		StartsAt:        starts,
		EndsAt:          ends,
	}, true
}

// --- rentals / dashboard ---

func (h *AdminHandler) handleReturnRental(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	returned, err := h.store.CloseRental(r.Context(), id, models.RentalReturned)
	if err != nil {
		respondStoreError(w, r, h.log, err, "return rental")
		return
	}
	respond.JSON(w, http.StatusOK, "rental returned", returned)
}

func (h *AdminHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.DashboardStats(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "dashboard stats failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", stats)
}
