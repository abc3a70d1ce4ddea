package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/expensio/expensio/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// StoreRefreshToken overwrites the active refresh credential unconditionally.
// Used by login and register, where issuing a new session is allowed to kick
// out an older one.
func (r *GormRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).Error
}

// SwapRefreshToken replaces the active refresh credential only if the stored
// value still equals oldToken (compare-and-swap on the row). Returns false
// when the credential was rotated out by a concurrent login or refresh, or
// never belonged to this user.
func (r *GormRepo) SwapRefreshToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) (bool, error) {
	tx := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, oldToken).
		Update("refresh_token", newToken)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ClearRefreshToken revokes whichever account currently holds the given
// credential. A token that matches nothing is not an error, so logout stays
// idempotent.
func (r *GormRepo) ClearRefreshToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("refresh_token = ?", token).
		Update("refresh_token", "").Error
}
