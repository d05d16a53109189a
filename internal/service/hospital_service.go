package service

import (
	"errors"
	"fmt"

	"github.com/carefleet/carefleet-backend/internal/domain"
	"github.com/carefleet/carefleet-backend/internal/repository"
)

type HospitalService struct {
	repo repository.HospitalRepository
}

func NewHospitalService(repo repository.HospitalRepository) *HospitalService {
	return &HospitalService{repo: repo}
}

func (s *HospitalService) Beds(hospitalID string) ([]domain.Bed, error) {
	if hospitalID == "" {
		return nil, fmt.Errorf("hospital id is required")
	}
	return s.repo.BedsByHospital(hospitalID)
}

func (s *HospitalService) Staff(hospitalID string) ([]domain.Staff, error) {
	if hospitalID == "" {
		return nil, fmt.Errorf("hospital id is required")
	}
	return s.repo.StaffByHospital(hospitalID)
}

// AssignmentsFor returns the assignments visible to the caller: hospital
// admins see every assignment, everyone else sees only the assignments of
// their own staff record. A caller without a staff record has none.
func (s *HospitalService) AssignmentsFor(role domain.Role, email string) ([]domain.Assignment, error) {
	if role == domain.RoleHospitalAdmin {
		return s.repo.ListAssignments()
	}
	staff, err := s.repo.StaffByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return []domain.Assignment{}, nil
		}
		return nil, err
	}
	return s.repo.AssignmentsByStaff(staff.ID)
}
