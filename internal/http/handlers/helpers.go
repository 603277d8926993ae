package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/driveline/rental-be/internal/http/respond"
	"github.com/driveline/rental-be/internal/logging"
	"github.com/driveline/rental-be/internal/storage"
)

// MediaService issues presigned URLs for car photos. Nil means media storage
// is not configured and photo features degrade gracefully.
type MediaService interface {
	PresignUpload(ctx context.Context, key string) (string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

// pathID parses the {id} segment of a route. Writes a 400 and returns false
// on garbage.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// parseDate accepts a YYYY-MM-DD calendar date.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// respondStoreError maps storage sentinel errors onto HTTP statuses; anything
// unexpected is logged in full and reported generically.
func respondStoreError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error, action string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusBadRequest, "already exists")
	case errors.Is(err, storage.ErrConflict):
		respond.Error(w, http.StatusConflict, "conflicting state")
	default:
		log.Error(r.Context(), action+" failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to "+action)
	}
}
