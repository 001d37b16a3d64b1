package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const bookListKey = "books:all"

// BookCache is a redis-backed read cache for the catalogue. A nil *BookCache
// is valid and disables caching, so callers never need to branch on whether
// redis is configured.
type BookCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewClient connects to redis and verifies connectivity.
func NewClient(ctx context.Context, addr, password string, logger zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", addr).Msg("redis connection established")
	return rdb, nil
}

// NewBookCache creates a book cache over an established redis client.
func NewBookCache(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *BookCache {
	return &BookCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("component", "book-cache").Logger(),
	}
}

func bookKey(id uuid.UUID) string {
	return fmt.Sprintf("book:%s", id)
}

// GetBook returns the cached book, or nil on miss or cache error.
func (c *BookCache) GetBook(ctx context.Context, id uuid.UUID) *model.Book {
	if c == nil {
		return nil
	}

	data, err := c.rdb.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		return nil
	}

	var book model.Book
	if err := json.Unmarshal(data, &book); err != nil {
		c.logger.Warn().Err(err).Str("book_id", id.String()).Msg("failed to decode cached book")
		return nil
	}

	return &book
}

// SetBook stores a book. Cache errors are logged and swallowed.
func (c *BookCache) SetBook(ctx context.Context, book *model.Book) {
	if c == nil {
		return
	}

	data, err := json.Marshal(book)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, bookKey(book.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("book_id", book.ID.String()).Msg("failed to cache book")
	}
}

// GetList returns the cached catalogue listing, or nil on miss.
func (c *BookCache) GetList(ctx context.Context) []model.Book {
	if c == nil {
		return nil
	}

	data, err := c.rdb.Get(ctx, bookListKey).Bytes()
	if err != nil {
		return nil
	}

	var books []model.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil
	}

	return books
}

// SetList stores the catalogue listing.
func (c *BookCache) SetList(ctx context.Context, books []model.Book) {
	if c == nil {
		return
	}

	data, err := json.Marshal(books)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, bookListKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to cache book list")
	}
}

// Invalidate drops a book and the listing after any catalogue mutation,
// including stock changes made by payment settlement.
func (c *BookCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil {
		return
	}

	if err := c.rdb.Del(ctx, bookKey(id), bookListKey).Err(); err != nil {
		c.logger.Warn().Err(err).Str("book_id", id.String()).Msg("failed to invalidate book cache")
	}
}
