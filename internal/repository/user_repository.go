package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/carefleet/carefleet-backend/internal/domain"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email is already registered")
)

type UserRepository interface {
	// Create persists a new account. The unique index on email makes the
	// create atomic: of two concurrent registrations with the same email
	// exactly one succeeds, the other observes ErrDuplicateEmail.
	Create(user *domain.User) error
	FindByID(id uint) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindByVerificationToken(token string) (*domain.User, error)
	Update(user *domain.User) error
	// IncrementOTPAttempts bumps the failed-attempt counter as a single
	// relative UPDATE so concurrent verification attempts never lose an
	// increment.
	IncrementOTPAttempts(userID uint) error
	// MarkEmailVerified flips the account to verified and clears the whole
	// OTP challenge in one write.
	MarkEmailVerified(userID uint) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) Create(user *domain.User) error {
	err := r.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	// Exact, case-sensitive match on the stored email.
	var u domain.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByVerificationToken(token string) (*domain.User, error) {
	var u domain.User
	if err := r.db.Where("verification_token = ?", token).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Update(user *domain.User) error { return r.db.Save(user).Error }

func (r *GormUserRepository) IncrementOTPAttempts(userID uint) error {
	res := r.db.Model(&domain.User{}).Where("id = ?", userID).
		Updates(map[string]any{
			"otp_attempts": gorm.Expr("otp_attempts + 1"),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) MarkEmailVerified(userID uint) error {
	res := r.db.Model(&domain.User{}).Where("id = ?", userID).
		Updates(map[string]any{
			"email_verified":     true,
			"verification_token": nil,
			"otp":                nil,
			"otp_expiry":         nil,
			"otp_attempts":       0,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
