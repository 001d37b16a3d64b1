package repository

import (
	"context"
	"errors"
	"fmt"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// bookRepository implements the BookRepository interface using PostgreSQL.
type bookRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBookRepository creates a new PostgreSQL-backed book repository.
func NewBookRepository(pool *pgxpool.Pool, logger zerolog.Logger) BookRepository {
	return &bookRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "book").Logger(),
	}
}

// List retrieves the full catalogue.
func (r *bookRepository) List(ctx context.Context) ([]model.Book, error) {
	query := `
		SELECT id, title, description, stock, price, images, created_at
		FROM books
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query books")
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.Stock, &b.Price, &b.Images, &b.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan book row")
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating book rows")
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// GetByID retrieves a single book by its ID.
func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `
		SELECT id, title, description, stock, price, images, created_at
		FROM books
		WHERE id = $1
	`

	var b model.Book
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.Description, &b.Stock, &b.Price, &b.Images, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("book_id", id.String()).Msg("book not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("book_id", id.String()).Msg("failed to query book")
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	return &b, nil
}

// Create inserts a new book.
func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, title, description, stock, price, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID, book.Title, book.Description, book.Stock, book.Price, book.Images, book.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("book_id", book.ID.String()).Msg("failed to insert book")
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

// Update replaces a book's mutable fields.
func (r *bookRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $2, description = $3, stock = $4, price = $5, images = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		book.ID, book.Title, book.Description, book.Stock, book.Price, book.Images,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("book_id", book.ID.String()).Msg("failed to update book")
		return fmt.Errorf("failed to update book: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

// Delete removes a book.
func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("book_id", id.String()).Msg("failed to delete book")
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

// DecrementStock reduces stock by qty within the transaction, floored at zero.
func (r *bookRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) (int, error) {
	query := `
		UPDATE books
		SET stock = GREATEST(stock - $2, 0)
		WHERE id = $1
		RETURNING stock
	`

	var stock int
	err := tx.QueryRow(ctx, query, id, qty).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrBookNotFound
		}
		r.logger.Error().Err(err).Str("book_id", id.String()).Msg("failed to decrement stock")
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return stock, nil
}

// DeleteTx removes a book within the transaction.
func (r *bookRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		r.logger.Error().Err(err).Str("book_id", id.String()).Msg("failed to delete book in transaction")
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}
