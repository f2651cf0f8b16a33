package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new account. A second account with the same
// (role, email) returns an apperror conflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	if err := db.gorm.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate(string(user.Role)+" user", "email", user.Email)
		}
		return fmt.Errorf("gormrepo: creating user (role=%s): %w", user.Role, err)
	}
	return nil
}

// GetUserByEmail looks up the account for one role.
// Returns apperror.ErrNotFound if the role has no account with that email.
func (db *DB) GetUserByEmail(ctx context.Context, role model.Role, email string) (*model.User, error) {
	var u model.User
	err := db.gorm.WithContext(ctx).
		Where("role = ? AND email = ?", role, email).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(string(role)+" user", email)
		}
		return nil, fmt.Errorf("gormrepo: getting user %s/%s: %w", role, email, err)
	}
	return &u, nil
}
