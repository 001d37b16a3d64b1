package service

import (
	"context"
	"fmt"

	"bookly/internal/model"
	"bookly/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	bookRepo repository.BookRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart fetches the caller's cart, creating it on first access.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, cart)
}

// AddItem adds a book to the cart, merging duplicate lines by quantity.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.CartResponse, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, model.ErrBookNotFound
	}

	if err := s.cartRepo.UpsertItem(ctx, cart.ID, req.BookID, req.Quantity); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Debug().
		Str("cart_id", cart.ID.String()).
		Str("book_id", req.BookID.String()).
		Int("quantity", req.Quantity).
		Msg("cart item added")

	return s.respond(ctx, cart)
}

// UpdateItem sets a line item's quantity; zero or less removes it.
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.CartResponse, error) {
	item, err := s.cartRepo.GetItemForUser(ctx, itemID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item == nil {
		// Foreign items look identical to missing ones.
		return nil, model.ErrCartItemNotFound
	}

	if quantity <= 0 {
		err = s.cartRepo.DeleteItem(ctx, itemID)
	} else {
		err = s.cartRepo.UpdateItemQuantity(ctx, itemID, quantity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return s.respond(ctx, cart)
}

// RemoveItem deletes a line item.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.CartResponse, error) {
	item, err := s.cartRepo.GetItemForUser(ctx, itemID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item == nil {
		return nil, model.ErrCartItemNotFound
	}

	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("failed to delete cart item: %w", err)
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return s.respond(ctx, cart)
}

func (s *cartService) getOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if cart == nil {
		cart, err = s.cartRepo.Create(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
	}

	return cart, nil
}

func (s *cartService) respond(ctx context.Context, cart *model.Cart) (*model.CartResponse, error) {
	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	return &model.CartResponse{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		CreatedAt: cart.CreatedAt,
	}, nil
}
