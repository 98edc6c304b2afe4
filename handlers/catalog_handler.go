package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/services"
	"go.uber.org/zap"
)

// CatalogManager manages categories and genres
type CatalogManager interface {
	ListCategories(ctx context.Context, params repositories.ListParams) ([]*models.Category, int, error)
	CreateCategory(ctx context.Context, input services.SlugInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, slug string) error
	ListGenres(ctx context.Context, params repositories.ListParams) ([]*models.Genre, int, error)
	CreateGenre(ctx context.Context, input services.SlugInput) (*models.Genre, error)
	DeleteGenre(ctx context.Context, slug string) error
}

// TitleManager manages titles
type TitleManager interface {
	List(ctx context.Context, filter models.TitleFilter, params repositories.ListParams) ([]*models.Title, int, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Title, error)
	Create(ctx context.Context, input services.TitleInput) (*models.Title, error)
	Update(ctx context.Context, id uuid.UUID, input services.TitleUpdateInput) (*models.Title, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogHandler handles categories, genres and titles
type CatalogHandler struct {
	catalog CatalogManager
	titles  TitleManager
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog CatalogManager, titles TitleManager, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, titles: titles, logger: logger}
}

// HandleListCategories handles GET /categories
func (h *CatalogHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	categories, total, err := h.catalog.ListCategories(r.Context(), params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, categories, h.logger)
}

// HandleCreateCategory handles POST /categories
func (h *CatalogHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var input services.SlugInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, category, h.logger)
}

// HandleDeleteCategory handles DELETE /categories/{slug}
func (h *CatalogHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "slug")); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListGenres handles GET /genres
func (h *CatalogHandler) HandleListGenres(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	genres, total, err := h.catalog.ListGenres(r.Context(), params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, genres, h.logger)
}

// HandleCreateGenre handles POST /genres
func (h *CatalogHandler) HandleCreateGenre(w http.ResponseWriter, r *http.Request) {
	var input services.SlugInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	genre, err := h.catalog.CreateGenre(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, genre, h.logger)
}

// HandleDeleteGenre handles DELETE /genres/{slug}
func (h *CatalogHandler) HandleDeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteGenre(r.Context(), chi.URLParam(r, "slug")); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListTitles handles GET /titles?genre=&category=&name=&year=
func (h *CatalogHandler) HandleListTitles(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	filter, err := titleFilter(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	titles, total, err := h.titles.List(r.Context(), filter, params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, titles, h.logger)
}

// HandleCreateTitle handles POST /titles
func (h *CatalogHandler) HandleCreateTitle(w http.ResponseWriter, r *http.Request) {
	var input services.TitleInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	title, err := h.titles.Create(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, title, h.logger)
}

// HandleGetTitle handles GET /titles/{titleID}
func (h *CatalogHandler) HandleGetTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, titleParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	title, err := h.titles.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, title, h.logger)
}

// HandleUpdateTitle handles PATCH /titles/{titleID}
func (h *CatalogHandler) HandleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, titleParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	var input services.TitleUpdateInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	title, err := h.titles.Update(r.Context(), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, title, h.logger)
}

// HandleDeleteTitle handles DELETE /titles/{titleID}
func (h *CatalogHandler) HandleDeleteTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, titleParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if err := h.titles.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func titleFilter(r *http.Request) (models.TitleFilter, error) {
	q := r.URL.Query()
	filter := models.TitleFilter{
		Genre:    strings.TrimSpace(q.Get("genre")),
		Category: strings.TrimSpace(q.Get("category")),
		Name:     strings.TrimSpace(q.Get("name")),
	}
	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, services.NewDomainError(services.ErrorTypeValidation, "year must be an integer", err).
				WithDetail("year", raw)
		}
		filter.Year = year
	}
	return filter, nil
}
