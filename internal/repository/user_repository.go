package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/observability"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id uint) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	SetOTP(userID uint, otpHash string, expiresAt time.Time) error
	MarkVerified(userID uint) error
	UpdateAvatar(userID uint, avatarURL string) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// NormalizeEmail applies the storage form of an email address. Emails are
// case-normalized and immutable after creation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *GormUserRepository) Create(user *domain.User) error {
	user.Email = NormalizeEmail(user.Email)
	if user.Avatar == "" {
		user.Avatar = domain.DefaultAvatarURL
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			observability.RecordRepositoryOperation("user", "create", "duplicate")
			return ErrDuplicateEmail
		}
		observability.RecordRepositoryOperation("user", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation("user", "create", "success")
	return nil
}

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation("user", "find_by_id", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation("user", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation("user", "find_by_id", "success")
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation("user", "find_by_email", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation("user", "find_by_email", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation("user", "find_by_email", "success")
	return &user, nil
}

func (r *GormUserRepository) SetOTP(userID uint, otpHash string, expiresAt time.Time) error {
	res := r.db.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
		"otp_hash":       otpHash,
		"otp_expires_at": expiresAt,
	})
	if res.Error != nil {
		observability.RecordRepositoryOperation("user", "set_otp", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation("user", "set_otp", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation("user", "set_otp", "success")
	return nil
}

// MarkVerified flips the verification flag and clears the code and its
// expiry in the same update.
func (r *GormUserRepository) MarkVerified(userID uint) error {
	res := r.db.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
		"is_verified":    true,
		"otp_hash":       "",
		"otp_expires_at": nil,
	})
	if res.Error != nil {
		observability.RecordRepositoryOperation("user", "mark_verified", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation("user", "mark_verified", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation("user", "mark_verified", "success")
	return nil
}

func (r *GormUserRepository) UpdateAvatar(userID uint, avatarURL string) error {
	res := r.db.Model(&domain.User{}).Where("id = ?", userID).Update("avatar", avatarURL)
	if res.Error != nil {
		observability.RecordRepositoryOperation("user", "update_avatar", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation("user", "update_avatar", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation("user", "update_avatar", "success")
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
