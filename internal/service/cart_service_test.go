package service

import (
	"context"
	"testing"
	"time"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_GetCart_CreatesOnFirstAccess(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}

	mockCartRepo := new(MockCartRepository)
	mockBookRepo := new(MockBookRepository)

	svc := NewCartService(mockCartRepo, mockBookRepo, logger)

	mockCartRepo.On("GetByUser", ctx, userID).Return(nil, nil)
	mockCartRepo.On("Create", ctx, userID).Return(cart, nil)
	mockCartRepo.On("GetItems", ctx, cart.ID).Return([]model.CartItem{}, nil)

	resp, err := svc.GetCart(ctx, userID)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, cart.ID, resp.ID)
	assert.Empty(t, resp.Items)

	mockCartRepo.AssertExpectations(t)
}

func TestCartService_AddItem_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	bookID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	book := &model.Book{ID: bookID, Title: "The Go Programming Language", Price: 20.00, Stock: 5}

	items := []model.CartItem{
		{ID: uuid.New(), CartID: cart.ID, BookID: bookID, Quantity: 2, Book: book},
	}

	mockCartRepo := new(MockCartRepository)
	mockBookRepo := new(MockBookRepository)

	svc := NewCartService(mockCartRepo, mockBookRepo, logger)

	mockCartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	mockBookRepo.On("GetByID", ctx, bookID).Return(book, nil)
	mockCartRepo.On("UpsertItem", ctx, cart.ID, bookID, 2).Return(nil)
	mockCartRepo.On("GetItems", ctx, cart.ID).Return(items, nil)

	resp, err := svc.AddItem(ctx, userID, &model.AddCartItemRequest{BookID: bookID, Quantity: 2})

	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)

	mockCartRepo.AssertExpectations(t)
	mockBookRepo.AssertExpectations(t)
}

func TestCartService_AddItem_DefaultsQuantityToOne(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	bookID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	book := &model.Book{ID: bookID, Title: "Refactoring", Price: 30.00, Stock: 1}

	mockCartRepo := new(MockCartRepository)
	mockBookRepo := new(MockBookRepository)

	svc := NewCartService(mockCartRepo, mockBookRepo, logger)

	mockCartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	mockBookRepo.On("GetByID", ctx, bookID).Return(book, nil)
	mockCartRepo.On("UpsertItem", ctx, cart.ID, bookID, 1).Return(nil)
	mockCartRepo.On("GetItems", ctx, cart.ID).Return([]model.CartItem{}, nil)

	_, err := svc.AddItem(ctx, userID, &model.AddCartItemRequest{BookID: bookID, Quantity: 0})

	require.NoError(t, err)
	mockCartRepo.AssertExpectations(t)
}

func TestCartService_AddItem_BookNotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	bookID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}

	mockCartRepo := new(MockCartRepository)
	mockBookRepo := new(MockBookRepository)

	svc := NewCartService(mockCartRepo, mockBookRepo, logger)

	mockCartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	mockBookRepo.On("GetByID", ctx, bookID).Return(nil, nil)

	resp, err := svc.AddItem(ctx, userID, &model.AddCartItemRequest{BookID: bookID, Quantity: 1})

	require.Error(t, err)
	assert.Equal(t, model.ErrBookNotFound, err)
	assert.Nil(t, resp)

	mockCartRepo.AssertNotCalled(t, "UpsertItem")
}

func TestCartService_UpdateItem_SetsQuantity(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	itemID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	item := &model.CartItem{ID: itemID, CartID: cart.ID, BookID: uuid.New(), Quantity: 1}

	mockCartRepo := new(MockCartRepository)
	mockBookRepo := new(MockBookRepository)

	svc := NewCartService(mockCartRepo, mockBookRepo, logger)

	mockCartRepo.On("GetItemForUser", ctx, itemID, userID).Return(item, nil)
	mockCartRepo.On("UpdateItemQuantity", ctx, itemID, 4).Return(nil)
	mockCartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	mockCartRepo.On("GetItems", ctx, cart.ID).Return([]model.CartItem{}, nil)

	_, err := svc.UpdateItem(ctx, userID, itemID, 4)

	require.NoError(t, err)
	mockCartRepo.AssertExpectations(t)
	mockCartRepo.AssertNotCalled(t, "DeleteItem")
}

func TestCartService_UpdateItem_ZeroQuantityRemoves(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	itemID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	item := &model.CartItem{ID: itemID, CartID: cart.ID, BookID: uuid.New(), Quantity: 2}

	mockCartRepo := new(MockCartRepository)
	mockBookRepo := new(MockBookRepository)

	svc := NewCartService(mockCartRepo, mockBookRepo, logger)

	mockCartRepo.On("GetItemForUser", ctx, itemID, userID).Return(item, nil)
	mockCartRepo.On("DeleteItem", ctx, itemID).Return(nil)
	mockCartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	mockCartRepo.On("GetItems", ctx, cart.ID).Return([]model.CartItem{}, nil)

	_, err := svc.UpdateItem(ctx, userID, itemID, 0)

	require.NoError(t, err)
	mockCartRepo.AssertExpectations(t)
	mockCartRepo.AssertNotCalled(t, "UpdateItemQuantity")
}

func TestCartService_UpdateItem_ForeignItemNotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	itemID := uuid.New()

	mockCartRepo := new(MockCartRepository)
	mockBookRepo := new(MockBookRepository)

	svc := NewCartService(mockCartRepo, mockBookRepo, logger)

	// Items in other users' carts are indistinguishable from missing ones.
	mockCartRepo.On("GetItemForUser", ctx, itemID, userID).Return(nil, nil)

	resp, err := svc.UpdateItem(ctx, userID, itemID, 3)

	require.Error(t, err)
	assert.Equal(t, model.ErrCartItemNotFound, err)
	assert.Nil(t, resp)

	mockCartRepo.AssertNotCalled(t, "UpdateItemQuantity")
	mockCartRepo.AssertNotCalled(t, "DeleteItem")
}

func TestCartService_RemoveItem(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	itemID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	item := &model.CartItem{ID: itemID, CartID: cart.ID, BookID: uuid.New(), Quantity: 1}

	mockCartRepo := new(MockCartRepository)
	mockBookRepo := new(MockBookRepository)

	svc := NewCartService(mockCartRepo, mockBookRepo, logger)

	mockCartRepo.On("GetItemForUser", ctx, itemID, userID).Return(item, nil)
	mockCartRepo.On("DeleteItem", ctx, itemID).Return(nil)
	mockCartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	mockCartRepo.On("GetItems", ctx, cart.ID).Return([]model.CartItem{}, nil)

	resp, err := svc.RemoveItem(ctx, userID, itemID)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Empty(t, resp.Items)

	mockCartRepo.AssertExpectations(t)
}
