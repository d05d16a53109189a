package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carefleet/carefleet-backend/internal/domain"
	"github.com/carefleet/carefleet-backend/internal/security"
)

// Seed loads a development fixture set: one admin user per role group,
// a small ambulance fleet and a ward of beds, staff and assignments.
// Idempotent; existing rows are left untouched.
func Seed(db *gorm.DB, log *slog.Logger) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	if err := seedFleet(db); err != nil {
		return err
	}
	log.Info("seed complete")
	return nil
}

func seedUsers(db *gorm.DB) error {
	type account struct {
		email     string
		firstName string
		lastName  string
		role      domain.Role
	}
	accounts := []account{
		{"admin@carefleet.example", "Ada", "Admin", domain.RoleHospitalAdmin},
		{"driver@carefleet.example", "Dan", "Driver", domain.RoleAmbulanceDriver},
		{"doctor@carefleet.example", "Dina", "Doctor", domain.RoleDoctor},
		{"nurse@carefleet.example", "Nora", "Nurse", domain.RoleNurse},
		{"dispatch@carefleet.example", "Dave", "Dispatcher", domain.RoleDispatcher},
	}

	hash, err := security.HashPassword("changeme-dev-only")
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, a := range accounts {
		user := domain.User{
			Email:         a.email,
			PasswordHash:  hash,
			FirstName:     a.firstName,
			LastName:      a.lastName,
			Role:          a.role,
			HospitalID:    "hospital-central",
			EmailVerified: true,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&user).Error
		if err != nil {
			return fmt.Errorf("seed user %s: %w", a.email, err)
		}
	}
	return nil
}

func seedFleet(db *gorm.DB) error {
	now := time.Now().UTC()

	ambulances := []domain.Ambulance{
		{LicensePlate: "CF-1001", Status: domain.AmbulanceAvailable, Latitude: 40.7128, Longitude: -74.0060, LocationRecordedAt: &now},
		{LicensePlate: "CF-1002", Status: domain.AmbulanceInTransit, Latitude: 40.7306, Longitude: -73.9352, LocationRecordedAt: &now, DestinationHospitalID: "hospital-central", PatientOnBoard: true},
		{LicensePlate: "CF-1003", Status: domain.AmbulanceOffline},
	}
	for i := range ambulances {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "license_plate"}},
			DoNothing: true,
		}).Create(&ambulances[i]).Error
		if err != nil {
			return fmt.Errorf("seed ambulance %s: %w", ambulances[i].LicensePlate, err)
		}
	}

	staff := []domain.Staff{
		{HospitalID: "hospital-central", EmployeeID: "EMP-001", FirstName: "Dina", LastName: "Doctor", Role: domain.RoleDoctor, Department: "Emergency", Shift: "DAY"},
		{HospitalID: "hospital-central", EmployeeID: "EMP-002", FirstName: "Nora", LastName: "Nurse", Role: domain.RoleNurse, Department: "Emergency", Shift: "NIGHT"},
	}
	for i := range staff {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}},
			DoNothing: true,
		}).Create(&staff[i]).Error
		if err != nil {
			return fmt.Errorf("seed staff %s: %w", staff[i].EmployeeID, err)
		}
	}

	var bedCount int64
	if err := db.Model(&domain.Bed{}).Where("hospital_id = ?", "hospital-central").Count(&bedCount).Error; err != nil {
		return fmt.Errorf("count beds: %w", err)
	}
	if bedCount == 0 {
		beds := []domain.Bed{
			{HospitalID: "hospital-central", BedNumber: "A-01", Type: "ICU", Status: domain.BedOccupied, PatientID: "patient-17"},
			{HospitalID: "hospital-central", BedNumber: "A-02", Type: "ICU", Status: domain.BedAvailable},
			{HospitalID: "hospital-central", BedNumber: "B-01", Type: "GENERAL", Status: domain.BedMaintenance},
		}
		if err := db.Create(&beds).Error; err != nil {
			return fmt.Errorf("seed beds: %w", err)
		}
	}

	var assignmentCount int64
	if err := db.Model(&domain.Assignment{}).Count(&assignmentCount).Error; err != nil {
		return fmt.Errorf("count assignments: %w", err)
	}
	if assignmentCount == 0 {
		scheduled := now.Add(2 * time.Hour)
		assignments := []domain.Assignment{
			{StaffID: 1, PatientID: "patient-17", TaskType: "ROUNDS", Description: "Post-op check", Priority: "HIGH", Status: domain.AssignmentPending, ScheduledTime: &scheduled},
			{StaffID: 2, TaskType: "MEDICATION", Description: "Evening medication round", Priority: "MEDIUM", Status: domain.AssignmentInProgress},
		}
		if err := db.Create(&assignments).Error; err != nil {
			return fmt.Errorf("seed assignments: %w", err)
		}
	}

	return nil
}
