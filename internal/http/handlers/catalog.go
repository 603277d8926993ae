package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/driveline/rental-be/internal/http/respond"
	"github.com/driveline/rental-be/internal/logging"
	"github.com/driveline/rental-be/internal/storage"
)

// CatalogStore is the read-only slice of storage the public catalog needs.
type CatalogStore interface {
	storage.CarStore
	storage.LocationStore
	storage.PromotionStore
}

// CatalogHandler serves the public browse endpoints. No token required.
type CatalogHandler struct {
	store CatalogStore
	media MediaService
	log   logging.Logger
}

// NewCatalogHandler constructs the handler. media may be nil.
func NewCatalogHandler(store CatalogStore, media MediaService, log logging.Logger) *CatalogHandler {
	return &CatalogHandler{store: store, media: media, log: log}
}

// Register attaches catalog routes to the mux.
func (h *CatalogHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog/cars", h.handleListCars)
	mux.HandleFunc("GET /api/catalog/cars/{id}", h.handleGetCar)
	mux.HandleFunc("GET /api/catalog/locations", h.handleListLocations)
	mux.HandleFunc("GET /api/catalog/promotions", h.handleListPromotions)
}

func (h *CatalogHandler) handleListCars(w http.ResponseWriter, r *http.Request) {
	filter := storage.CarFilter{}
	if loc := r.URL.Query().Get("location"); loc != "" {
		id, err := strconv.ParseInt(loc, 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid location filter")
			return
		}
		filter.LocationID = id
	}
	if r.URL.Query().Get("available") == "true" {
		filter.OnlyAvailable = true
	}

	cars, err := h.store.ListCars(r.Context(), filter)
	if err != nil {
		h.log.Error(r.Context(), "list cars failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list cars")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", cars)
}

func (h *CatalogHandler) handleGetCar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	car, err := h.store.FindCarByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, h.log, err, "fetch car")
		return
	}

	if h.media != nil {
		photos, err := h.store.ListCarPhotos(r.Context(), id)
		if err != nil {
			h.log.Error(r.Context(), "list car photos failed", "error", err, "car_id", id)
		}
		for _, photo := range photos {
			url, err := h.media.PresignDownload(r.Context(), photo.StorageKey)
			if err != nil {
				h.log.Warn(r.Context(), "presign photo failed", "error", err, "key", photo.StorageKey)
				continue
			}
			car.PhotoURLs = append(car.PhotoURLs, url)
		}
	}
	respond.JSON(w, http.StatusOK, "ok", car)
}

func (h *CatalogHandler) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.store.ListLocations(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "list locations failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list locations")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", locations)
}

func (h *CatalogHandler) handleListPromotions(w http.ResponseWriter, r *http.Request) {
	promos, err := h.store.ListActivePromotions(r.Context(), time.Now())
	if err != nil {
		h.log.Error(r.Context(), "list promotions failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list promotions")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", promos)
}
