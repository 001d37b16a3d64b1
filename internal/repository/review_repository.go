package repository

import (
	"context"
	"errors"
	"fmt"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// reviewRepository implements the ReviewRepository interface using PostgreSQL.
type reviewRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "review").Logger(),
	}
}

// ListByBook retrieves a book's reviews newest first, with reviewer display
// names resolved from the users table.
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error) {
	query := `
		SELECT rv.id, rv.book_id, rv.user_id, rv.rating, rv.comment, rv.created_at,
		       COALESCE(NULLIF(u.full_name, ''), u.email)
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.book_id = $1
		ORDER BY rv.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		r.logger.Error().Err(err).Str("book_id", bookID.String()).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var rv model.Review
		err := rows.Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UserName)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review row")
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating review rows")
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// GetByID retrieves a single review.
func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, book_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE id = $1
	`

	var rv model.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to query review")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}

	return &rv, nil
}

// GetByBookAndUser retrieves a user's review of a book, if any.
func (r *reviewRepository) GetByBookAndUser(ctx context.Context, bookID, userID uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, book_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE book_id = $1 AND user_id = $2
	`

	var rv model.Review
	err := r.pool.QueryRow(ctx, query, bookID, userID).Scan(
		&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("book_id", bookID.String()).Msg("failed to query review")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}

	return &rv, nil
}

// Create inserts a new review. The unique (book_id, user_id) constraint
// rejects a second review from the same user.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, book_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID, review.BookID, review.UserID, review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrReviewExists
		}
		r.logger.Error().Err(err).Str("review_id", review.ID.String()).Msg("failed to insert review")
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

// Delete removes a review.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to delete review")
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}
