package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
	"github.com/abdulrehan17773/am-backend/internal/repository"
)

type CategoryService struct {
	categories port.CategoryRepository
}

func NewCategoryService(categories port.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories.ListCategories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Search(ctx context.Context, name string, page domain.Page) ([]domain.Category, int64, error) {
	categories, total, err := s.categories.SearchCategories(ctx, strings.TrimSpace(name), page)
	if err != nil {
		return nil, 0, fmt.Errorf("categories.SearchCategories: %w", err)
	}
	return categories, total, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (domain.Category, error) {
	var c domain.Category

	name = strings.TrimSpace(name)
	if name == "" {
		return c, apperror.Validation("category name is required")
	}

	category, err := s.categories.InsertCategory(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c, apperror.Conflict("category with this name already exists")
		}
		return c, fmt.Errorf("categories.InsertCategory: %w", err)
	}

	return category, nil
}

func (s *CategoryService) Rename(ctx context.Context, categoryID uuid.UUID, name string) (domain.Category, error) {
	var c domain.Category

	name = strings.TrimSpace(name)
	if name == "" {
		return c, apperror.Validation("category name is required")
	}

	category, err := s.categories.RenameCategory(ctx, categoryID, name)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c, apperror.NotFound("category not found")
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return c, apperror.Conflict("category with this name already exists")
		}
		return c, fmt.Errorf("categories.RenameCategory: %w", err)
	}

	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	if err := s.categories.SoftDeleteCategory(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return apperror.NotFound("category not found")
		}
		return fmt.Errorf("categories.SoftDeleteCategory: %w", err)
	}
	return nil
}
