package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/carefleet/carefleet-backend/internal/domain"
)

var ErrStaffNotFound = errors.New("staff not found")

type HospitalRepository interface {
	BedsByHospital(hospitalID string) ([]domain.Bed, error)
	StaffByHospital(hospitalID string) ([]domain.Staff, error)
	StaffByEmail(email string) (*domain.Staff, error)
	ListAssignments() ([]domain.Assignment, error)
	AssignmentsByStaff(staffID uint) ([]domain.Assignment, error)
}

type GormHospitalRepository struct{ db *gorm.DB }

func NewHospitalRepository(db *gorm.DB) HospitalRepository {
	return &GormHospitalRepository{db: db}
}

func (r *GormHospitalRepository) BedsByHospital(hospitalID string) ([]domain.Bed, error) {
	var out []domain.Bed
	err := r.db.Where("hospital_id = ?", hospitalID).Order("bed_number").Find(&out).Error
	return out, err
}

func (r *GormHospitalRepository) StaffByHospital(hospitalID string) ([]domain.Staff, error) {
	var out []domain.Staff
	err := r.db.Where("hospital_id = ?", hospitalID).Order("employee_id").Find(&out).Error
	return out, err
}

func (r *GormHospitalRepository) StaffByEmail(email string) (*domain.Staff, error) {
	var s domain.Staff
	if err := r.db.Where("email = ?", email).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormHospitalRepository) ListAssignments() ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := r.db.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *GormHospitalRepository) AssignmentsByStaff(staffID uint) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := r.db.Where("staff_id = ?", staffID).Order("created_at DESC").Find(&out).Error
	return out, err
}
