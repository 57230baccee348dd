// Package userrepo provides persistence for login accounts. Accounts exist
// to exercise the auth boundary: passwords are stored as bcrypt hashes and
// the role string feeds the HTTP role gates.
package userrepo

import (
	"context"
	"errors"

	"potrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account roles recognized by the HTTP role gates.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// UserDTO represents the database structure for persisting login accounts.
type UserDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(128);not null"`
	Role         string    `gorm:"type:varchar(16);not null"`
}

// TableName specifies the database table name for login accounts.
func (UserDTO) TableName() string {
	return "users"
}

// GormUserRepository implements account lookup and creation using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Add persists a new account.
func (r *GormUserRepository) Add(ctx context.Context, user UserDTO) error {
	return r.db.WithContext(ctx).Create(&user).Error
}

// GetByUsername retrieves an account by its unique username.
func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (UserDTO, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, errs.NewObjectNotFoundError("user", username)
		}
		return UserDTO{}, err
	}
	return dto, nil
}

// Count returns the number of stored accounts.
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserDTO{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
