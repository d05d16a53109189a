package domain

import "time"

type Role string

const (
	RoleHospitalAdmin   Role = "HOSPITAL_ADMIN"
	RoleAmbulanceDriver Role = "AMBULANCE_DRIVER"
	RoleDoctor          Role = "DOCTOR"
	RoleNurse           Role = "NURSE"
	RoleDispatcher      Role = "DISPATCHER"
)

func ParseRole(v string) (Role, bool) {
	switch Role(v) {
	case RoleHospitalAdmin, RoleAmbulanceDriver, RoleDoctor, RoleNurse, RoleDispatcher:
		return Role(v), true
	default:
		return "", false
	}
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:1024;not null" json:"-"`
	FirstName    string `gorm:"size:255;not null" json:"first_name"`
	LastName     string `gorm:"size:255;not null" json:"last_name"`
	Role         Role   `gorm:"size:32;not null" json:"role"`
	HospitalID   string `gorm:"size:64;index" json:"hospital_id,omitempty"`

	EmailVerified     bool       `gorm:"not null;default:false" json:"email_verified"`
	VerificationToken *string    `gorm:"uniqueIndex;size:64" json:"-"`
	OTP               *string    `gorm:"size:6" json:"-"`
	OTPExpiry         *time.Time `json:"-"`
	OTPAttempts       int        `gorm:"not null;default:0" json:"-"`
	LastOTPRequest    *time.Time `json:"-"`

	Enabled               bool `gorm:"not null;default:true" json:"-"`
	AccountNonExpired     bool `gorm:"not null;default:true" json:"-"`
	AccountNonLocked      bool `gorm:"not null;default:true" json:"-"`
	CredentialsNonExpired bool `gorm:"not null;default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginEligible reports whether the account may authenticate. An unverified
// email makes the account ineligible regardless of credential correctness.
func (u *User) LoginEligible() bool {
	return u.EmailVerified && u.Enabled && u.AccountNonExpired && u.AccountNonLocked && u.CredentialsNonExpired
}

// UserSummary is the sanitized account view returned by the auth endpoints.
type UserSummary struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Role          Role   `json:"role"`
	HospitalID    string `json:"hospitalId,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		HospitalID:    u.HospitalID,
		EmailVerified: u.EmailVerified,
	}
}
