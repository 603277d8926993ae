package server

import (
	"context"
	"sync"
	"time"

	"github.com/driveline/rental-be/internal/models"
	"github.com/driveline/rental-be/internal/storage"
)

// memStore is an in-memory storage.Store used by the end-to-end tests.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]models.User
	cars       map[int64]models.Car
	locations  map[int64]models.Location
	promotions map[int64]models.Promotion
	rentals    map[int64]models.Rental
	maint      map[int64]models.MaintenanceLog
	photos     []models.CarPhoto
	logins     []models.LoginSession
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int64]models.User),
		cars:       make(map[int64]models.Car),
		locations:  make(map[int64]models.Location),
		promotions: make(map[int64]models.Promotion),
		rentals:    make(map[int64]models.Rental),
		maint:      make(map[int64]models.MaintenanceLog),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (m *memStore) FindUserByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (m *memStore) RecordLogin(_ context.Context, session models.LoginSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.CreatedAt = time.Now()
	m.logins = append(m.logins, session)
	return nil
}

func (m *memStore) ListLoginsByUser(_ context.Context, userID int64, limit int) ([]models.LoginSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LoginSession
	for i := len(m.logins) - 1; i >= 0 && len(out) < limit; i-- {
		if m.logins[i].UserID == userID {
			out = append(out, m.logins[i])
		}
	}
	return out, nil
}

func (m *memStore) CreateCar(_ context.Context, car models.Car) (models.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cars {
		if c.Plate == car.Plate {
			return models.Car{}, storage.ErrAlreadyExists
		}
	}
	car.ID = m.id()
	car.Status = models.CarAvailable
	car.CreatedAt = time.Now()
	m.cars[car.ID] = car
	return car, nil
}

func (m *memStore) UpdateCar(_ context.Context, car models.Car) (models.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cars[car.ID]
	if !ok {
		return models.Car{}, storage.ErrNotFound
	}
	car.Status = existing.Status
	car.CreatedAt = existing.CreatedAt
	m.cars[car.ID] = car
	return car, nil
}

func (m *memStore) DeleteCar(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cars[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.cars, id)
	return nil
}

func (m *memStore) FindCarByID(_ context.Context, id int64) (models.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok {
		return models.Car{}, storage.ErrNotFound
	}
	return car, nil
}

func (m *memStore) ListCars(_ context.Context, filter storage.CarFilter) ([]models.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Car
	for _, car := range m.cars {
		if filter.LocationID != 0 && car.LocationID != filter.LocationID {
			continue
		}
		if filter.OnlyAvailable && car.Status != models.CarAvailable {
			continue
		}
		out = append(out, car)
	}
	return out, nil
}

func (m *memStore) SetCarStatus(_ context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok {
		return storage.ErrNotFound
	}
	car.Status = status
	m.cars[id] = car
	return nil
}

func (m *memStore) AddCarPhoto(_ context.Context, photo models.CarPhoto) (models.CarPhoto, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	photo.ID = m.id()
	photo.CreatedAt = time.Now()
	m.photos = append(m.photos, photo)
	return photo, nil
}

func (m *memStore) ListCarPhotos(_ context.Context, carID int64) ([]models.CarPhoto, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CarPhoto
	for _, p := range m.photos {
		if p.CarID == carID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) CreateLocation(_ context.Context, loc models.Location) (models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc.ID = m.id()
	loc.CreatedAt = time.Now()
	m.locations[loc.ID] = loc
	return loc, nil
}

func (m *memStore) FindLocationByID(_ context.Context, id int64) (models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.locations[id]
	if !ok {
		return models.Location{}, storage.ErrNotFound
	}
	return loc, nil
}

func (m *memStore) ListLocations(_ context.Context) ([]models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Location
	for _, loc := range m.locations {
		out = append(out, loc)
	}
	return out, nil
}

func (m *memStore) CreatePromotion(_ context.Context, promo models.Promotion) (models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.promotions {
		if p.Code == promo.Code {
			return models.Promotion{}, storage.ErrAlreadyExists
		}
	}
	promo.ID = m.id()
	promo.CreatedAt = time.Now()
	m.promotions[promo.ID] = promo
	return promo, nil
}

func (m *memStore) UpdatePromotion(_ context.Context, promo models.Promotion) (models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.promotions[promo.ID]
	if !ok {
		return models.Promotion{}, storage.ErrNotFound
	}
	promo.CreatedAt = existing.CreatedAt
	m.promotions[promo.ID] = promo
	return promo, nil
}

func (m *memStore) DeletePromotion(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promotions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.promotions, id)
	return nil
}

func (m *memStore) FindPromotionByCode(_ context.Context, code string) (models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.promotions {
		if p.Code == code {
			return p, nil
		}
	}
	return models.Promotion{}, storage.ErrNotFound
}

func (m *memStore) ListActivePromotions(_ context.Context, now time.Time) ([]models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Promotion
	for _, p := range m.promotions {
		if p.ActiveAt(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) BookRental(_ context.Context, rental models.Rental) (models.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[rental.CarID]
	if !ok {
		return models.Rental{}, storage.ErrNotFound
	}
	if car.Status != models.CarAvailable {
		return models.Rental{}, storage.ErrConflict
	}
	rental.ID = m.id()
	rental.Status = models.RentalBooked
	rental.CreatedAt = time.Now()
	m.rentals[rental.ID] = rental
	car.Status = models.CarRented
	m.cars[car.ID] = car
	return rental, nil
}

func (m *memStore) FindRentalByID(_ context.Context, id int64) (models.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rental, ok := m.rentals[id]
	if !ok {
		return models.Rental{}, storage.ErrNotFound
	}
	return rental, nil
}

func (m *memStore) ListRentalsByUser(_ context.Context, userID int64) ([]models.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Rental
	for _, rental := range m.rentals {
		if rental.UserID == userID {
			out = append(out, rental)
		}
	}
	return out, nil
}

func (m *memStore) CloseRental(_ context.Context, id int64, status string) (models.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rental, ok := m.rentals[id]
	if !ok {
		return models.Rental{}, storage.ErrNotFound
	}
	if rental.Status != models.RentalBooked {
		return models.Rental{}, storage.ErrConflict
	}
	rental.Status = status
	m.rentals[id] = rental
	if car, ok := m.cars[rental.CarID]; ok {
		car.Status = models.CarAvailable
		m.cars[car.ID] = car
	}
	return rental, nil
}

func (m *memStore) CreateMaintenanceLog(_ context.Context, log models.MaintenanceLog) (models.MaintenanceLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[log.CarID]
	if !ok {
		return models.MaintenanceLog{}, storage.ErrNotFound
	}
	log.ID = m.id()
	log.CreatedAt = time.Now()
	m.maint[log.ID] = log
	car.Status = models.CarMaintenance
	m.cars[car.ID] = car
	return log, nil
}

func (m *memStore) ListMaintenanceByCar(_ context.Context, carID int64) ([]models.MaintenanceLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.MaintenanceLog
	for _, log := range m.maint {
		if log.CarID == carID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (m *memStore) ResolveMaintenanceLog(_ context.Context, id int64, resolvedAt time.Time) (models.MaintenanceLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log, ok := m.maint[id]
	if !ok || log.ResolvedAt != nil {
		return models.MaintenanceLog{}, storage.ErrNotFound
	}
	log.ResolvedAt = &resolvedAt
	m.maint[id] = log
	open := false
	for _, other := range m.maint {
		if other.CarID == log.CarID && other.ResolvedAt == nil {
			open = true
		}
	}
	if !open {
		if car, ok := m.cars[log.CarID]; ok && car.Status == models.CarMaintenance {
			car.Status = models.CarAvailable
			m.cars[car.ID] = car
		}
	}
	return log, nil
}

func (m *memStore) DashboardStats(_ context.Context) (models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats models.DashboardStats
	stats.FleetSize = int64(len(m.cars))
	for _, car := range m.cars {
		if car.Status == models.CarAvailable {
			stats.AvailableCars++
		}
	}
	for _, rental := range m.rentals {
		if rental.Status == models.RentalBooked {
			stats.ActiveRentals++
		}
		if rental.Status != models.RentalCancelled {
			stats.RevenueCentsTotal += rental.PriceCents
		}
	}
	return stats, nil
}
