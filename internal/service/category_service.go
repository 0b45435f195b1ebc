package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description"`
}

type DtoCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type CategoryService interface {
	Create(ctx context.Context, req CategoryRequest) (*DtoCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DtoCategory, error)
	List(ctx context.Context) ([]DtoCategory, error)
	Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*DtoCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService returns a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func toDtoCategory(c *model.Category) DtoCategory {
	return DtoCategory{ID: c.ID, Name: c.Name, Description: c.Description}
}

func (s *categoryService) Create(ctx context.Context, req CategoryRequest) (*DtoCategory, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return nil, apperr.Internal("failed to check category name", err)
	}
	if exists {
		return nil, apperr.Duplicate("category name already exists: " + req.Name)
	}

	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, apperr.Wrap(apperr.KindDataIntegrity, "failed to create category", err)
	}
	dto := toDtoCategory(category)
	return &dto, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*DtoCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("category not found")
	}
	dto := toDtoCategory(category)
	return &dto, nil
}

func (s *categoryService) List(ctx context.Context) ([]DtoCategory, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list categories", err)
	}
	dtos := make([]DtoCategory, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, toDtoCategory(&categories[i]))
	}
	return dtos, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*DtoCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("category not found")
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name, &id)
	if err != nil {
		return nil, apperr.Internal("failed to check category name", err)
	}
	if exists {
		return nil, apperr.Duplicate("category name already exists: " + req.Name)
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, apperr.Wrap(apperr.KindDataIntegrity, "failed to update category", err)
	}
	dto := toDtoCategory(category)
	return &dto, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return apperr.NotFound("category not found")
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return apperr.Internal("failed to delete category", err)
	}
	return nil
}
