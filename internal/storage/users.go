package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NgigiN/lomba17/internal/apperrors"
	"gorm.io/gorm"
)

func (d *Database) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := d.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", email, err)
	}
	return &u, nil
}

func (d *Database) GetUser(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := d.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, loadErr(err, "user", id)
	}
	return &u, nil
}

// UpsertUser creates the user, or replaces name, password and role of the
// user with the same email.
func (d *Database) UpsertUser(ctx context.Context, u *User) error {
	u.Email = strings.ToLower(u.Email)
	err := d.db.WithContext(ctx).
		Where(User{Email: u.Email}).
		Assign(User{Name: u.Name, PasswordHash: u.PasswordHash, Role: u.Role}).
		FirstOrCreate(u).Error
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", u.Email, err)
	}
	return nil
}
