package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefleet/carefleet-backend/internal/domain"
	"github.com/carefleet/carefleet-backend/internal/repository"
)

type fakeAmbulanceRepo struct {
	ambulances []domain.Ambulance
	listErr    error

	updatedID  uint
	updatedLat float64
	updatedLon float64
	updateErr  error
}

func (r *fakeAmbulanceRepo) List() ([]domain.Ambulance, error) {
	return r.ambulances, r.listErr
}

func (r *fakeAmbulanceRepo) UpdateLocation(id uint, lat, lon float64, _ time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedID = id
	r.updatedLat = lat
	r.updatedLon = lon
	return nil
}

func TestAmbulanceServiceList(t *testing.T) {
	repo := &fakeAmbulanceRepo{ambulances: []domain.Ambulance{
		{ID: 1, LicensePlate: "CF-1001"},
		{ID: 2, LicensePlate: "CF-1002"},
	}}
	svc := NewAmbulanceService(repo)

	out, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestAmbulanceServiceUpdateLocation(t *testing.T) {
	t.Run("valid coordinates reach the repository", func(t *testing.T) {
		repo := &fakeAmbulanceRepo{}
		svc := NewAmbulanceService(repo)

		err := svc.UpdateLocation(3, LocationUpdate{Latitude: 40.7128, Longitude: -74.0060})
		require.NoError(t, err)
		assert.Equal(t, uint(3), repo.updatedID)
		assert.InDelta(t, 40.7128, repo.updatedLat, 1e-9)
		assert.InDelta(t, -74.0060, repo.updatedLon, 1e-9)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		svc := NewAmbulanceService(&fakeAmbulanceRepo{})
		err := svc.UpdateLocation(1, LocationUpdate{Latitude: 91, Longitude: 0})
		require.Error(t, err)
	})

	t.Run("longitude out of range", func(t *testing.T) {
		svc := NewAmbulanceService(&fakeAmbulanceRepo{})
		err := svc.UpdateLocation(1, LocationUpdate{Latitude: 0, Longitude: -181})
		require.Error(t, err)
	})

	t.Run("unknown ambulance", func(t *testing.T) {
		svc := NewAmbulanceService(&fakeAmbulanceRepo{updateErr: repository.ErrAmbulanceNotFound})
		err := svc.UpdateLocation(99, LocationUpdate{})
		assert.True(t, errors.Is(err, ErrAmbulanceNotFound))
	})
}
