package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func uploads(names ...string) []ImageUpload {
	out := make([]ImageUpload, 0, len(names))
	for _, n := range names {
		out = append(out, ImageUpload{Filename: n, Content: strings.NewReader("image-bytes")})
	}
	return out
}

func TestBookService_List(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	books := []model.Book{
		{ID: uuid.New(), Title: "The Go Programming Language", Price: 20.00, Stock: 5, CreatedAt: time.Now()},
		{ID: uuid.New(), Title: "Refactoring", Price: 30.00, Stock: 2, CreatedAt: time.Now()},
	}

	mockRepo := new(MockBookRepository)
	mockStore := new(MockStore)

	svc := NewBookService(mockRepo, mockStore, nil, logger)

	mockRepo.On("List", ctx).Return(books, nil)

	got, err := svc.List(ctx)

	require.NoError(t, err)
	assert.Len(t, got, 2)

	mockRepo.AssertExpectations(t)
}

func TestBookService_GetByID_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()

	mockRepo := new(MockBookRepository)
	mockStore := new(MockStore)

	svc := NewBookService(mockRepo, mockStore, nil, logger)

	mockRepo.On("GetByID", ctx, id).Return(nil, nil)

	book, err := svc.GetByID(ctx, id)

	require.Error(t, err)
	assert.Equal(t, model.ErrBookNotFound, err)
	assert.Nil(t, book)
}

func TestBookService_Create_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	input := &model.BookInput{Title: "Clean Code", Description: "Essays", Stock: 10, Price: 28.50}

	mockRepo := new(MockBookRepository)
	mockStore := new(MockStore)

	svc := NewBookService(mockRepo, mockStore, nil, logger)

	mockStore.On("Save", ctx, ".jpg", mock.Anything).Return("/uploads/books/a.jpg", nil).Once()
	mockStore.On("Save", ctx, ".png", mock.Anything).Return("/uploads/books/b.png", nil).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(b *model.Book) bool {
		return b.Title == "Clean Code" && len(b.Images) == 2
	})).Return(nil)

	book, err := svc.Create(ctx, input, uploads("cover.jpg", "back.png"))

	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, []string{"/uploads/books/a.jpg", "/uploads/books/b.png"}, book.Images)

	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestBookService_Create_ImageCountBounds(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	input := &model.BookInput{Title: "No Images", Stock: 1, Price: 10.00}

	mockRepo := new(MockBookRepository)
	mockStore := new(MockStore)

	svc := NewBookService(mockRepo, mockStore, nil, logger)

	book, err := svc.Create(ctx, input, nil)
	require.Error(t, err)
	assert.Equal(t, model.ErrInvalidImageCount, err)
	assert.Nil(t, book)

	book, err = svc.Create(ctx, input, uploads("1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"))
	require.Error(t, err)
	assert.Equal(t, model.ErrInvalidImageCount, err)
	assert.Nil(t, book)

	mockStore.AssertNotCalled(t, "Save")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestBookService_Create_CleansUpStoredFilesOnFailure(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	input := &model.BookInput{Title: "Doomed", Stock: 1, Price: 5.00}

	mockRepo := new(MockBookRepository)
	mockStore := new(MockStore)

	svc := NewBookService(mockRepo, mockStore, nil, logger)

	mockStore.On("Save", ctx, ".jpg", mock.Anything).Return("/uploads/books/doomed.jpg", nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Book")).Return(errors.New("database error"))
	mockStore.On("Delete", ctx, "/uploads/books/doomed.jpg").Return(nil)

	book, err := svc.Create(ctx, input, uploads("cover.jpg"))

	require.Error(t, err)
	assert.Nil(t, book)

	mockStore.AssertExpectations(t)
}

func TestBookService_Update_ReconcilesImages(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()
	existing := &model.Book{
		ID:        id,
		Title:     "Old Title",
		Stock:     3,
		Price:     12.00,
		Images:    []string{"/uploads/books/keep.jpg", "/uploads/books/drop.jpg"},
		CreatedAt: time.Now(),
	}

	input := &model.BookInput{Title: "New Title", Description: "Updated", Stock: 4, Price: 14.00}

	mockRepo := new(MockBookRepository)
	mockStore := new(MockStore)

	svc := NewBookService(mockRepo, mockStore, nil, logger)

	mockRepo.On("GetByID", ctx, id).Return(existing, nil)
	mockStore.On("Delete", ctx, "/uploads/books/drop.jpg").Return(nil)
	mockStore.On("Save", ctx, ".png", mock.Anything).Return("/uploads/books/new.png", nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(b *model.Book) bool {
		return b.Title == "New Title" &&
			len(b.Images) == 2 &&
			b.Images[0] == "/uploads/books/keep.jpg" &&
			b.Images[1] == "/uploads/books/new.png"
	})).Return(nil)

	book, err := svc.Update(ctx, id, input, []string{"/uploads/books/keep.jpg"}, uploads("extra.png"))

	require.NoError(t, err)
	require.NotNil(t, book)

	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestBookService_Update_RejectsEmptyImageSet(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()
	existing := &model.Book{ID: id, Title: "Has Images", Images: []string{"/uploads/books/only.jpg"}}

	mockRepo := new(MockBookRepository)
	mockStore := new(MockStore)

	svc := NewBookService(mockRepo, mockStore, nil, logger)

	mockRepo.On("GetByID", ctx, id).Return(existing, nil)

	book, err := svc.Update(ctx, id, &model.BookInput{Title: "Has Images"}, nil, nil)

	require.Error(t, err)
	assert.Equal(t, model.ErrInvalidImageCount, err)
	assert.Nil(t, book)

	mockStore.AssertNotCalled(t, "Delete")
	mockRepo.AssertNotCalled(t, "Update")
}

func TestBookService_Delete_RemovesImages(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()
	existing := &model.Book{
		ID:     id,
		Title:  "Going Away",
		Images: []string{"/uploads/books/x.jpg", "/uploads/books/y.jpg"},
	}

	mockRepo := new(MockBookRepository)
	mockStore := new(MockStore)

	svc := NewBookService(mockRepo, mockStore, nil, logger)

	mockRepo.On("GetByID", ctx, id).Return(existing, nil)
	mockRepo.On("Delete", ctx, id).Return(nil)
	mockStore.On("Delete", ctx, "/uploads/books/x.jpg").Return(nil)
	mockStore.On("Delete", ctx, "/uploads/books/y.jpg").Return(nil)

	err := svc.Delete(ctx, id)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestBookService_Delete_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()

	mockRepo := new(MockBookRepository)
	mockStore := new(MockStore)

	svc := NewBookService(mockRepo, mockStore, nil, logger)

	mockRepo.On("GetByID", ctx, id).Return(nil, nil)

	err := svc.Delete(ctx, id)

	require.Error(t, err)
	assert.Equal(t, model.ErrBookNotFound, err)

	mockRepo.AssertNotCalled(t, "Delete")
}
