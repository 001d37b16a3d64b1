package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"bookly/internal/cache"
	"bookly/internal/model"
	"bookly/internal/repository"
	"bookly/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// bookService implements BookService.
type bookService struct {
	repo   repository.BookRepository
	store  storage.Store
	cache  *cache.BookCache
	logger zerolog.Logger
}

// NewBookService creates a new book service.
func NewBookService(
	repo repository.BookRepository,
	store storage.Store,
	bookCache *cache.BookCache,
	logger zerolog.Logger,
) BookService {
	return &bookService{
		repo:   repo,
		store:  store,
		cache:  bookCache,
		logger: logger.With().Str("service", "book").Logger(),
	}
}

// List retrieves the full catalogue, served from cache when possible.
func (s *bookService) List(ctx context.Context) ([]model.Book, error) {
	if books := s.cache.GetList(ctx); books != nil {
		return books, nil
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	s.cache.SetList(ctx, books)
	return books, nil
}

// GetByID retrieves a single book.
func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if book := s.cache.GetBook(ctx, id); book != nil {
		return book, nil
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if book == nil {
		return nil, model.ErrBookNotFound
	}

	s.cache.SetBook(ctx, book)
	return book, nil
}

// Create stores the uploaded images and inserts a new book.
func (s *bookService) Create(ctx context.Context, input *model.BookInput, images []ImageUpload) (*model.Book, error) {
	if len(images) < model.MinBookImages || len(images) > model.MaxBookImages {
		return nil, model.ErrInvalidImageCount
	}

	paths, err := s.storeImages(ctx, images)
	if err != nil {
		return nil, err
	}

	book := &model.Book{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Stock:       input.Stock,
		Price:       input.Price,
		Images:      paths,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, book); err != nil {
		// Roll back the stored files so orphans do not accumulate.
		s.deleteImages(ctx, paths)
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.cache.Invalidate(ctx, book.ID)

	s.logger.Info().
		Str("book_id", book.ID.String()).
		Str("title", book.Title).
		Msg("book created")

	return book, nil
}

// Update replaces a book's fields and reconciles its image set.
func (s *bookService) Update(ctx context.Context, id uuid.UUID, input *model.BookInput, keepImages []string, newImages []ImageUpload) (*model.Book, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if existing == nil {
		return nil, model.ErrBookNotFound
	}

	total := len(keepImages) + len(newImages)
	if total < model.MinBookImages || total > model.MaxBookImages {
		return nil, model.ErrInvalidImageCount
	}

	// Images not kept are removed from storage.
	kept := make(map[string]bool, len(keepImages))
	for _, p := range keepImages {
		kept[p] = true
	}
	for _, p := range existing.Images {
		if !kept[p] {
			if err := s.store.Delete(ctx, p); err != nil {
				s.logger.Warn().Err(err).Str("path", p).Msg("failed to delete replaced image")
			}
		}
	}

	paths := append([]string{}, keepImages...)
	if len(newImages) > 0 {
		newPaths, err := s.storeImages(ctx, newImages)
		if err != nil {
			return nil, err
		}
		paths = append(paths, newPaths...)
	}

	book := &model.Book{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Stock:       input.Stock,
		Price:       input.Price,
		Images:      paths,
		CreatedAt:   existing.CreatedAt,
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)

	s.logger.Info().Str("book_id", id.String()).Msg("book updated")

	return book, nil
}

// Delete removes a book and its backing image files.
func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get book: %w", err)
	}
	if existing == nil {
		return model.ErrBookNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.deleteImages(ctx, existing.Images)
	s.cache.Invalidate(ctx, id)

	s.logger.Info().Str("book_id", id.String()).Msg("book deleted")

	return nil
}

// UploadImage stores a single image and returns its public path.
func (s *bookService) UploadImage(ctx context.Context, image ImageUpload) (string, error) {
	path, err := s.store.Save(ctx, filepath.Ext(image.Filename), image.Content)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return path, nil
}

func (s *bookService) storeImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	paths := make([]string, 0, len(images))
	for _, img := range images {
		path, err := s.store.Save(ctx, filepath.Ext(img.Filename), img.Content)
		if err != nil {
			s.deleteImages(ctx, paths)
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *bookService) deleteImages(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.store.Delete(ctx, p); err != nil {
			s.logger.Warn().Err(err).Str("path", p).Msg("failed to delete image")
		}
	}
}
