package service

import (
	"context"
	"log"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

type FilmRequest struct {
	Title       string      `json:"title" binding:"required,min=1,max=255"`
	Description string      `json:"description"`
	PosterURL   string      `json:"posterUrl" binding:"required,url"`
	TrailerURL  string      `json:"trailerUrl" binding:"required,url"`
	ReleaseDate string      `json:"releaseDate" binding:"required"`
	ListingType string      `json:"listingType" binding:"omitempty,oneof=NONE TRENDING COMING_SOON"`
	CategoryIDs []uuid.UUID `json:"categoryIds" binding:"required,min=1"`
}

type DtoFilm struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	PosterURL     string        `json:"posterUrl"`
	TrailerURL    string        `json:"trailerUrl"`
	ReleaseDate   string        `json:"releaseDate"`
	ListingType   string        `json:"listingType"`
	AverageRating float64       `json:"averageRating"`
	RatingCount   int64         `json:"ratingCount"`
	Categories    []DtoCategory `json:"categories"`
}

type FilmService interface {
	Create(ctx context.Context, req FilmRequest) (*DtoFilm, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DtoFilm, error)
	List(ctx context.Context, listingType string) ([]DtoFilm, error)
	Search(ctx context.Context, query string) ([]DtoFilm, error)
	Update(ctx context.Context, id uuid.UUID, req FilmRequest) (*DtoFilm, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
}

type filmService struct {
	filmRepo     repository.FilmRepository
	categoryRepo repository.CategoryRepository
	hub          *websocket.Hub
}

// NewFilmService returns a new instance of FilmService
func NewFilmService(
	filmRepo repository.FilmRepository,
	categoryRepo repository.CategoryRepository,
	hub *websocket.Hub,
) FilmService {
	return &filmService{
		filmRepo:     filmRepo,
		categoryRepo: categoryRepo,
		hub:          hub,
	}
}

func ToDtoFilm(f *model.Film) DtoFilm {
	categories := make([]DtoCategory, 0, len(f.Categories))
	for i := range f.Categories {
		categories = append(categories, toDtoCategory(&f.Categories[i]))
	}
	return DtoFilm{
		ID:            f.ID,
		Title:         f.Title,
		Description:   f.Description,
		PosterURL:     f.PosterURL,
		TrailerURL:    f.TrailerURL,
		ReleaseDate:   f.ReleaseDate.Format("2006-01-02"),
		ListingType:   f.ListingType,
		AverageRating: f.AverageRating,
		RatingCount:   f.RatingCount,
		Categories:    categories,
	}
}

func toDtoFilms(films []model.Film) []DtoFilm {
	dtos := make([]DtoFilm, 0, len(films))
	for i := range films {
		dtos = append(dtos, ToDtoFilm(&films[i]))
	}
	return dtos
}

func (s *filmService) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]model.Category, error) {
	categories, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("failed to load categories", err)
	}
	if len(categories) != len(ids) {
		found := make(map[uuid.UUID]bool, len(categories))
		for i := range categories {
			found[categories[i].ID] = true
		}
		missing := make([]string, 0)
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id.String())
			}
		}
		return nil, apperr.NotFound("categories not found: " + strings.Join(missing, ", "))
	}
	return categories, nil
}

func (s *filmService) checkUnique(ctx context.Context, req FilmRequest, excludeID *uuid.UUID) error {
	checks := []struct {
		exists func(context.Context, string, *uuid.UUID) (bool, error)
		value  string
		field  string
	}{
		{s.filmRepo.ExistsByTitle, req.Title, "title"},
		{s.filmRepo.ExistsByPosterURL, req.PosterURL, "poster url"},
		{s.filmRepo.ExistsByTrailerURL, req.TrailerURL, "trailer url"},
	}
	for _, check := range checks {
		exists, err := check.exists(ctx, check.value, excludeID)
		if err != nil {
			return apperr.Internal("failed to check film uniqueness", err)
		}
		if exists {
			return apperr.Duplicate("film " + check.field + " already exists")
		}
	}
	return nil
}

func parseReleaseDate(raw string) (time.Time, error) {
	releaseDate, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperr.BadRequest("releaseDate must be in YYYY-MM-DD format")
	}
	return releaseDate, nil
}

func (s *filmService) Create(ctx context.Context, req FilmRequest) (*DtoFilm, error) {
	if err := s.checkUnique(ctx, req, nil); err != nil {
		return nil, err
	}
	releaseDate, err := parseReleaseDate(req.ReleaseDate)
	if err != nil {
		return nil, err
	}
	categories, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	listingType := req.ListingType
	if listingType == "" {
		listingType = model.ListingNone
	}
	film := &model.Film{
		Title:       req.Title,
		Description: req.Description,
		PosterURL:   req.PosterURL,
		TrailerURL:  req.TrailerURL,
		ReleaseDate: releaseDate,
		ListingType: listingType,
		Categories:  categories,
	}
	if err := s.filmRepo.Create(ctx, film); err != nil {
		return nil, apperr.Wrap(apperr.KindDataIntegrity, "failed to create film", err)
	}
	log.Printf("film created: %s", film.Title)

	dto := ToDtoFilm(film)
	s.hub.Publish(websocket.EventFilmCreated, dto)
	return &dto, nil
}

func (s *filmService) GetByID(ctx context.Context, id uuid.UUID) (*DtoFilm, error) {
	film, err := s.filmRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("film not found")
	}
	dto := ToDtoFilm(film)
	return &dto, nil
}

func (s *filmService) List(ctx context.Context, listingType string) ([]DtoFilm, error) {
	films, err := s.filmRepo.List(ctx, listingType)
	if err != nil {
		return nil, apperr.Internal("failed to list films", err)
	}
	return toDtoFilms(films), nil
}

func (s *filmService) Search(ctx context.Context, query string) ([]DtoFilm, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, apperr.BadRequest("search query must be at least 2 characters")
	}
	films, err := s.filmRepo.SearchByTitle(ctx, query)
	if err != nil {
		return nil, apperr.Internal("failed to search films", err)
	}
	return toDtoFilms(films), nil
}

func (s *filmService) Update(ctx context.Context, id uuid.UUID, req FilmRequest) (*DtoFilm, error) {
	film, err := s.filmRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("film not found")
	}
	if err := s.checkUnique(ctx, req, &id); err != nil {
		return nil, err
	}
	releaseDate, err := parseReleaseDate(req.ReleaseDate)
	if err != nil {
		return nil, err
	}
	categories, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	film.Title = req.Title
	film.Description = req.Description
	film.PosterURL = req.PosterURL
	film.TrailerURL = req.TrailerURL
	film.ReleaseDate = releaseDate
	if req.ListingType != "" {
		film.ListingType = req.ListingType
	}

	if err := s.filmRepo.Update(ctx, film); err != nil {
		return nil, apperr.Wrap(apperr.KindDataIntegrity, "failed to update film", err)
	}
	if err := s.filmRepo.ReplaceCategories(ctx, film, categories); err != nil {
		return nil, apperr.Internal("failed to update film categories", err)
	}
	film.Categories = categories

	dto := ToDtoFilm(film)
	return &dto, nil
}

func (s *filmService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	film, err := s.filmRepo.GetByID(ctx, id)
	if err != nil {
		return "", apperr.NotFound("film not found")
	}
	if err := s.filmRepo.Delete(ctx, id); err != nil {
		return "", apperr.Internal("failed to delete film", err)
	}
	log.Printf("film deleted: %s", film.Title)
	return film.Title, nil
}
