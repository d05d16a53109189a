package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/carefleet/carefleet-backend/internal/domain"
)

var ErrAmbulanceNotFound = errors.New("ambulance not found")

type AmbulanceRepository interface {
	List() ([]domain.Ambulance, error)
	UpdateLocation(id uint, latitude, longitude float64, recordedAt time.Time) error
}

type GormAmbulanceRepository struct{ db *gorm.DB }

func NewAmbulanceRepository(db *gorm.DB) AmbulanceRepository {
	return &GormAmbulanceRepository{db: db}
}

func (r *GormAmbulanceRepository) List() ([]domain.Ambulance, error) {
	var out []domain.Ambulance
	err := r.db.Order("license_plate").Find(&out).Error
	return out, err
}

func (r *GormAmbulanceRepository) UpdateLocation(id uint, latitude, longitude float64, recordedAt time.Time) error {
	res := r.db.Model(&domain.Ambulance{}).Where("id = ?", id).
		Updates(map[string]any{
			"latitude":             latitude,
			"longitude":            longitude,
			"location_recorded_at": recordedAt,
			"updated_at":           time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAmbulanceNotFound
	}
	return nil
}
