package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/carefleet/carefleet-backend/internal/domain"
	"github.com/carefleet/carefleet-backend/internal/repository"
)

var ErrAmbulanceNotFound = errors.New("ambulance not found")

type LocationUpdate struct {
	Latitude  float64
	Longitude float64
}

type AmbulanceService struct {
	repo repository.AmbulanceRepository
}

func NewAmbulanceService(repo repository.AmbulanceRepository) *AmbulanceService {
	return &AmbulanceService{repo: repo}
}

func (s *AmbulanceService) List() ([]domain.Ambulance, error) {
	return s.repo.List()
}

func (s *AmbulanceService) UpdateLocation(ambulanceID uint, upd LocationUpdate) error {
	if upd.Latitude < -90 || upd.Latitude > 90 {
		return fmt.Errorf("latitude out of range")
	}
	if upd.Longitude < -180 || upd.Longitude > 180 {
		return fmt.Errorf("longitude out of range")
	}
	err := s.repo.UpdateLocation(ambulanceID, upd.Latitude, upd.Longitude, time.Now().UTC())
	if errors.Is(err, repository.ErrAmbulanceNotFound) {
		return ErrAmbulanceNotFound
	}
	return err
}
