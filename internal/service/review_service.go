package service

import (
	"context"
	"fmt"
	"time"

	"bookly/internal/model"
	"bookly/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reviewService implements ReviewService.
type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	logger     zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookRepo repository.BookRepository,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		logger:     logger.With().Str("service", "review").Logger(),
	}
}

// ListByBook retrieves a book's reviews, newest first.
func (s *reviewService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Create adds a review after checking the book exists and the user has not
// already reviewed it.
func (s *reviewService) Create(ctx context.Context, user *model.User, req *model.CreateReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, model.ErrInvalidRating
	}

	book, err := s.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, model.ErrBookNotFound
	}

	existing, err := s.reviewRepo.GetByBookAndUser(ctx, req.BookID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing != nil {
		return nil, model.ErrReviewExists
	}

	review := &model.Review{
		ID:        uuid.New(),
		BookID:    req.BookID,
		UserID:    user.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
		UserName:  user.DisplayName(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("review_id", review.ID.String()).
		Str("book_id", req.BookID.String()).
		Int("rating", req.Rating).
		Msg("review created")

	return review, nil
}

// Delete removes a review. Only the author or an admin may delete.
func (s *reviewService) Delete(ctx context.Context, user *model.User, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return model.ErrReviewNotFound
	}

	if review.UserID != user.ID && !user.IsAdmin() {
		s.logger.Warn().
			Str("review_id", reviewID.String()).
			Str("user_id", user.ID.String()).
			Msg("unauthorised review deletion attempt")
		return model.ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.logger.Info().Str("review_id", reviewID.String()).Msg("review deleted")

	return nil
}
