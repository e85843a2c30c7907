package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/apperrors"
	"github.com/Skotchmaster/bookly/internal/models"
)

type ReviewRepo struct {
	DB *gorm.DB
}

func (r *ReviewRepo) Create(ctx context.Context, rev *models.Review) error {
	return r.DB.WithContext(ctx).Create(rev).Error
}

func (r *ReviewRepo) ByUID(ctx context.Context, uid uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepo) ByBookUID(ctx context.Context, bookUID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.DB.WithContext(ctx).
		Where("book_uid = ?", bookUID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, uid uuid.UUID) error {
	result := r.DB.WithContext(ctx).Delete(&models.Review{}, "uid = ?", uid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrReviewNotFound
	}
	return nil
}
