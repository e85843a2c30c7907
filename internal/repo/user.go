package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/apperrors"
	"github.com/Skotchmaster/bookly/internal/models"
)

type UserRepo struct {
	DB *gorm.DB
}

func (r *UserRepo) CreateIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apperrors.ErrUserAlreadyExists
	}
	return nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) ByUID(ctx context.Context, uid uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) MarkVerified(ctx context.Context, email string) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("is_verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, email, role string) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
