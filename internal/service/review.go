package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/apperrors"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
)

type ReviewService struct {
	Reviews *repo.ReviewRepo
	Books   *repo.BookRepo
	Users   *repo.UserRepo
}

type ReviewCreateInput struct {
	Rating     int
	ReviewText string
}

func (s *ReviewService) Create(ctx context.Context, userEmail string, bookUID uuid.UUID, in ReviewCreateInput) (*models.Review, error) {
	book, err := s.Books.ByUID(ctx, bookUID)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.ByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		UserUID:    user.UID,
		BookUID:    book.UID,
		Rating:     in.Rating,
		ReviewText: in.ReviewText,
	}

	if err := s.Reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Get(ctx context.Context, uid uuid.UUID) (*models.Review, error) {
	return s.Reviews.ByUID(ctx, uid)
}

func (s *ReviewService) ListByBook(ctx context.Context, bookUID uuid.UUID) ([]models.Review, error) {
	if _, err := s.Books.ByUID(ctx, bookUID); err != nil {
		return nil, err
	}
	return s.Reviews.ByBookUID(ctx, bookUID)
}

func (s *ReviewService) Delete(ctx context.Context, actor *models.User, uid uuid.UUID) error {
	review, err := s.Reviews.ByUID(ctx, uid)
	if err != nil {
		return err
	}
	if !canMutate(actor, review.UserUID) {
		return apperrors.ErrInsufficientPermissions
	}
	return s.Reviews.Delete(ctx, uid)
}
