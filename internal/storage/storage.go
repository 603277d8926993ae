package storage

import (
	"context"
	"errors"
	"time"

	"github.com/driveline/rental-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrConflict indicates a state transition the current record does not allow,
// e.g. booking a car that is not available.
var ErrConflict = errors.New("conflicting state")

// UserStore captures persistence operations for credentials and profiles.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
}

// SessionAuditStore records successful logins. Audit rows carry no authority.
type SessionAuditStore interface {
	RecordLogin(ctx context.Context, session models.LoginSession) error
	ListLoginsByUser(ctx context.Context, userID int64, limit int) ([]models.LoginSession, error)
}

// CarFilter narrows catalog listings.
type CarFilter struct {
	LocationID    int64
	OnlyAvailable bool
}

// CarStore manages the fleet.
type CarStore interface {
	CreateCar(ctx context.Context, car models.Car) (models.Car, error)
	UpdateCar(ctx context.Context, car models.Car) (models.Car, error)
	DeleteCar(ctx context.Context, id int64) error
	FindCarByID(ctx context.Context, id int64) (models.Car, error)
	ListCars(ctx context.Context, filter CarFilter) ([]models.Car, error)
	SetCarStatus(ctx context.Context, id int64, status string) error
	AddCarPhoto(ctx context.Context, photo models.CarPhoto) (models.CarPhoto, error)
	ListCarPhotos(ctx context.Context, carID int64) ([]models.CarPhoto, error)
}

// LocationStore manages branches.
type LocationStore interface {
	CreateLocation(ctx context.Context, loc models.Location) (models.Location, error)
	FindLocationByID(ctx context.Context, id int64) (models.Location, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
}

// PromotionStore manages discount codes.
type PromotionStore interface {
	CreatePromotion(ctx context.Context, promo models.Promotion) (models.Promotion, error)
	UpdatePromotion(ctx context.Context, promo models.Promotion) (models.Promotion, error)
	DeletePromotion(ctx context.Context, id int64) error
	FindPromotionByCode(ctx context.Context, code string) (models.Promotion, error)
	ListActivePromotions(ctx context.Context, now time.Time) ([]models.Promotion, error)
}

// RentalStore manages bookings. BookRental atomically creates the rental and
// flips the car to rented; it returns ErrConflict when the car is not
// available.
type RentalStore interface {
	BookRental(ctx context.Context, rental models.Rental) (models.Rental, error)
	FindRentalByID(ctx context.Context, id int64) (models.Rental, error)
	ListRentalsByUser(ctx context.Context, userID int64) ([]models.Rental, error)
	// CloseRental moves a booked rental to cancelled or returned and frees
	// the car in the same transaction.
	CloseRental(ctx context.Context, id int64, status string) (models.Rental, error)
}

// MaintenanceStore manages service logs.
type MaintenanceStore interface {
	CreateMaintenanceLog(ctx context.Context, log models.MaintenanceLog) (models.MaintenanceLog, error)
	ListMaintenanceByCar(ctx context.Context, carID int64) ([]models.MaintenanceLog, error)
	ResolveMaintenanceLog(ctx context.Context, id int64, resolvedAt time.Time) (models.MaintenanceLog, error)
}

// StatsStore aggregates dashboard counters.
type StatsStore interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}

// Store bundles every persistence concern the handlers need.
type Store interface {
	UserStore
	SessionAuditStore
	CarStore
	LocationStore
	PromotionStore
	RentalStore
	MaintenanceStore
	StatsStore
}
