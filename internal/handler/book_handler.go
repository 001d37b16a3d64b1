package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookly/internal/model"
	"bookly/internal/service"

	"github.com/rs/zerolog"
)

// maxUploadBytes caps multipart form memory for book image uploads.
const maxUploadBytes = 32 << 20

// BookHandler handles catalogue HTTP requests.
type BookHandler struct {
	service service.BookService
	logger  zerolog.Logger
}

// NewBookHandler creates a new book handler.
func NewBookHandler(service service.BookService, logger zerolog.Logger) *BookHandler {
	return &BookHandler{
		service: service,
		logger:  logger.With().Str("handler", "book").Logger(),
	}
}

// List handles GET /api/books requests.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// GetByID handles GET /api/books/{id} requests.
func (h *BookHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	book, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// Create handles POST /api/books requests. The payload is multipart form
// data: book fields plus between 1 and 4 image files.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, images, _, err := h.parseBookForm(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	book, err := h.service.Create(r.Context(), input, images)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

// Update handles PUT /api/books/{id} requests. Existing images listed in
// the keep_images field survive; new image files are appended.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	input, images, keepImages, err := h.parseBookForm(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	book, err := h.service.Update(r.Context(), id, input, keepImages, images)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/books/{id} requests.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// UploadImage handles POST /api/books/upload-image requests with a single
// image file.
func (h *BookHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid multipart form", h.logger)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "image file is required", h.logger)
		return
	}
	defer file.Close()

	path, err := h.service.UploadImage(r.Context(), service.ImageUpload{
		Filename: header.Filename,
		Content:  file,
	})
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": path})
}

// parseBookForm extracts book fields, uploaded images and the keep_images
// list from a multipart form. Files are read lazily by the service, so the
// request body must stay open until the service call returns.
func (h *BookHandler) parseBookForm(r *http.Request) (*model.BookInput, []service.ImageUpload, []string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid multipart form")
	}

	input := &model.BookInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if input.Title == "" {
		return nil, nil, nil, model.NewDomainError(model.ErrCodeInvalidJSON, "title is required")
	}

	stock, err := strconv.Atoi(r.FormValue("stock"))
	if err != nil || stock < 0 {
		return nil, nil, nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid stock")
	}
	input.Stock = stock

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		return nil, nil, nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid price")
	}
	input.Price = price

	var keepImages []string
	if raw := r.FormValue("keep_images"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &keepImages); err != nil {
			return nil, nil, nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid keep_images")
		}
	}

	var images []service.ImageUpload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				return nil, nil, nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid image file")
			}
			images = append(images, service.ImageUpload{
				Filename: header.Filename,
				Content:  file,
			})
		}
	}

	return input, images, keepImages, nil
}
