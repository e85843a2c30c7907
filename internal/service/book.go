package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/apperrors"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/search"
)

const publishedDateLayout = "2006-01-02"

type BookService struct {
	Books *repo.BookRepo
	Index *search.Index
}

type BookCreateInput struct {
	Title         string
	Author        string
	Publisher     string
	PublishedDate string
	PageCount     int
	Language      string
}

// BookPatch names exactly the mutable fields; nil means "leave as is".
type BookPatch struct {
	Title         *string
	Author        *string
	Publisher     *string
	PublishedDate *string
	PageCount     *int
	Language      *string
}

func (s *BookService) Create(ctx context.Context, owner uuid.UUID, in BookCreateInput) (*models.Book, error) {
	published, err := time.Parse(publishedDateLayout, in.PublishedDate)
	if err != nil {
		return nil, fmt.Errorf("parse published_date: %w", err)
	}

	book := &models.Book{
		Title:         in.Title,
		Author:        in.Author,
		Publisher:     in.Publisher,
		PublishedDate: published,
		PageCount:     in.PageCount,
		Language:      in.Language,
		UserUID:       owner,
	}

	if err := s.Books.Create(ctx, book); err != nil {
		return nil, err
	}

	s.indexBook(ctx, *book)
	return book, nil
}

func (s *BookService) Get(ctx context.Context, uid uuid.UUID) (*models.Book, error) {
	return s.Books.ByUID(ctx, uid)
}

func (s *BookService) List(ctx context.Context, offset, limit int) ([]models.Book, int64, error) {
	return s.Books.List(ctx, offset, limit)
}

func (s *BookService) ListByUser(ctx context.Context, userUID uuid.UUID) ([]models.Book, error) {
	return s.Books.ByUserUID(ctx, userUID)
}

func (s *BookService) Patch(ctx context.Context, actor *models.User, uid uuid.UUID, patch BookPatch) (*models.Book, error) {
	book, err := s.Books.ByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !canMutate(actor, book.UserUID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.Publisher != nil {
		book.Publisher = *patch.Publisher
	}
	if patch.PublishedDate != nil {
		published, err := time.Parse(publishedDateLayout, *patch.PublishedDate)
		if err != nil {
			return nil, fmt.Errorf("parse published_date: %w", err)
		}
		book.PublishedDate = published
	}
	if patch.PageCount != nil {
		book.PageCount = *patch.PageCount
	}
	if patch.Language != nil {
		book.Language = *patch.Language
	}

	if err := s.Books.Save(ctx, book); err != nil {
		return nil, err
	}

	s.indexBook(ctx, *book)
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, actor *models.User, uid uuid.UUID) error {
	book, err := s.Books.ByUID(ctx, uid)
	if err != nil {
		return err
	}
	if !canMutate(actor, book.UserUID) {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.Books.Delete(ctx, uid); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteBook(ctx, uid.String()); err != nil {
			logging.FromContext(ctx).Error("search_delete_error", "error", err, "book_uid", uid)
		}
	}
	return nil
}

func (s *BookService) Search(ctx context.Context, query string, from, size int) (int64, []models.Book, error) {
	if s.Index == nil {
		return 0, nil, errors.New("search is not configured")
	}
	return s.Index.Search(ctx, query, from, size)
}

func (s *BookService) indexBook(ctx context.Context, book models.Book) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexBook(ctx, book); err != nil {
		logging.FromContext(ctx).Error("search_index_error", "error", err, "book_uid", book.UID)
	}
}

func canMutate(actor *models.User, ownerUID uuid.UUID) bool {
	return actor.Role == models.RoleAdmin || actor.UID == ownerUID
}
