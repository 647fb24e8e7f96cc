package usecase

import (
	"context"
	"fmt"

	"inventory-api/internal/domain/entity"
	domainErrors "inventory-api/internal/domain/errors"
)

type CategoryUsecase interface {
	GetAllCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*entity.Category, error)
}

type categoryUsecase struct {
	categoryRepo CategoryRepository
}

func NewCategoryUsecase(categoryRepo CategoryRepository) CategoryUsecase {
	return &categoryUsecase{
		categoryRepo: categoryRepo,
	}
}

func (u *categoryUsecase) GetAllCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := u.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}

	return categories, nil
}

func (u *categoryUsecase) GetCategoryByID(ctx context.Context, id int64) (*entity.Category, error) {
	if id <= 0 {
		return nil, domainErrors.ErrCategoryNotFound
	}

	category, err := u.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			return nil, domainErrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	return category, nil
}
