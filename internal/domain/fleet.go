package domain

import "time"

type AmbulanceStatus string

const (
	AmbulanceAvailable  AmbulanceStatus = "AVAILABLE"
	AmbulanceInTransit  AmbulanceStatus = "IN_TRANSIT"
	AmbulanceAtHospital AmbulanceStatus = "AT_HOSPITAL"
	AmbulanceOffline    AmbulanceStatus = "OFFLINE"
)

type Ambulance struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	LicensePlate          string          `gorm:"uniqueIndex;size:32;not null" json:"license_plate"`
	DriverID              uint            `gorm:"index" json:"driver_id"`
	Status                AmbulanceStatus `gorm:"size:32;not null;default:AVAILABLE" json:"status"`
	Latitude              float64         `json:"latitude"`
	Longitude             float64         `json:"longitude"`
	LocationRecordedAt    *time.Time      `json:"location_recorded_at,omitempty"`
	DestinationHospitalID string          `gorm:"size:64" json:"destination_hospital_id,omitempty"`
	PatientOnBoard        bool            `gorm:"not null;default:false" json:"patient_on_board"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

type BedStatus string

const (
	BedAvailable   BedStatus = "AVAILABLE"
	BedOccupied    BedStatus = "OCCUPIED"
	BedMaintenance BedStatus = "MAINTENANCE"
)

type Bed struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	HospitalID      string    `gorm:"size:64;not null;index" json:"hospital_id"`
	BedNumber       string    `gorm:"size:16;not null" json:"bed_number"`
	Type            string    `gorm:"size:32;not null" json:"type"`
	Status          BedStatus `gorm:"size:32;not null;default:AVAILABLE" json:"status"`
	PatientID       string    `gorm:"size:64" json:"patient_id,omitempty"`
	AssignedStaffID uint      `json:"assigned_staff_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Staff struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	HospitalID  string    `gorm:"size:64;not null;index" json:"hospital_id"`
	EmployeeID  string    `gorm:"uniqueIndex;size:32;not null" json:"employee_id"`
	FirstName   string    `gorm:"size:255;not null" json:"first_name"`
	LastName    string    `gorm:"size:255;not null" json:"last_name"`
	Role        Role      `gorm:"size:32;not null" json:"role"`
	Department  string    `gorm:"size:64" json:"department"`
	Shift       string    `gorm:"size:32" json:"shift"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	PhoneNumber string    `gorm:"size:32" json:"phone_number,omitempty"`
	Email       string    `gorm:"size:255" json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "PENDING"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
)

type Assignment struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	StaffID       uint             `gorm:"not null;index" json:"staff_id"`
	PatientID     string           `gorm:"size:64" json:"patient_id,omitempty"`
	BedID         uint             `json:"bed_id,omitempty"`
	TaskType      string           `gorm:"size:32;not null" json:"task_type"`
	Description   string           `gorm:"size:1024" json:"description"`
	Priority      string           `gorm:"size:16;not null;default:MEDIUM" json:"priority"`
	Status        AssignmentStatus `gorm:"size:32;not null;default:PENDING" json:"status"`
	ScheduledTime *time.Time       `json:"scheduled_time,omitempty"`
	CompletedTime *time.Time       `json:"completed_time,omitempty"`
	Notes         string           `gorm:"size:1024" json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
