package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"inventory-api/internal/domain/entity"
	domainErrors "inventory-api/internal/domain/errors"
)

type ItemUsecase interface {
	GetAllItems(ctx context.Context) ([]*entity.Item, error)
	GetItemByID(ctx context.Context, id int64) (*entity.Item, error)
	AddItem(ctx context.Context, categoryID int64, input ItemInput) (*entity.Item, error)
	GetQuantity(ctx context.Context, id int64) (*entity.QuantityDto, error)
	UpdateItem(ctx context.Context, categoryID, itemID int64, input ItemInput) error
	DeleteItem(ctx context.Context, id int64) error
	GetCategorySummary(ctx context.Context) (*CategorySummary, error)
}

// ItemInput は POST / PUT のリクエストボディ
// nil のフィールドは「送られてこなかった」ことを意味する
// カテゴリーはボディではなくパスから受け取る
type ItemInput struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int64           `json:"quantity"`
}

// Validate returns one message per missing required field.
func (in ItemInput) Validate() []string {
	var errs []string

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, "name is required")
	}
	if in.Price == nil {
		errs = append(errs, "price is required")
	} else if err := entity.ValidatePrice(*in.Price); err != nil {
		errs = append(errs, err.Error())
	}
	if in.Quantity == nil {
		errs = append(errs, "quantity is required")
	}

	return errs
}

type CategorySummary struct {
	Categories map[string]int `json:"categories"`
	Total      int            `json:"total"`
}

type itemUsecase struct {
	itemRepo        ItemRepository
	categoryUsecase CategoryUsecase
}

func NewItemUsecase(itemRepo ItemRepository, categoryUsecase CategoryUsecase) ItemUsecase {
	return &itemUsecase{
		itemRepo:        itemRepo,
		categoryUsecase: categoryUsecase,
	}
}

func (u *itemUsecase) GetAllItems(ctx context.Context) ([]*entity.Item, error) {
	items, err := u.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve items: %w", err)
	}
	if items == nil {
		items = []*entity.Item{}
	}

	return items, nil
}

func (u *itemUsecase) GetItemByID(ctx context.Context, id int64) (*entity.Item, error) {
	if id <= 0 {
		return nil, domainErrors.ErrItemNotFound
	}

	item, err := u.itemRepo.FindByID(ctx, id)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve item: %w", err)
	}

	return item, nil
}

func (u *itemUsecase) AddItem(ctx context.Context, categoryID int64, input ItemInput) (*entity.Item, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, strings.Join(errs, ", "))
	}

	// カテゴリーが存在しない場合は何も保存しない
	category, err := u.categoryUsecase.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	item, err := entity.NewItem(*input.Name, *input.Price, *input.Quantity, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
	}

	createdItem, err := u.itemRepo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return createdItem, nil
}

func (u *itemUsecase) GetQuantity(ctx context.Context, id int64) (*entity.QuantityDto, error) {
	if id <= 0 {
		return nil, domainErrors.ErrItemNotFound
	}

	quantity, err := u.itemRepo.FindQuantityByID(ctx, id)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve quantity: %w", err)
	}

	return &entity.QuantityDto{ItemID: id, Quantity: quantity}, nil
}

// UpdateItem は name, price, quantity, category をまとめて上書きする
// カテゴリーとアイテムの両方が存在しない限り、保存は行わない
func (u *itemUsecase) UpdateItem(ctx context.Context, categoryID, itemID int64, input ItemInput) error {
	if errs := input.Validate(); len(errs) > 0 {
		return fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, strings.Join(errs, ", "))
	}

	category, err := u.categoryUsecase.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}

	item, err := u.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}

	item.Name = *input.Name
	item.Price = *input.Price
	item.Quantity = *input.Quantity
	item.Category = category

	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
	}

	if err := u.itemRepo.Update(ctx, item); err != nil {
		if domainErrors.IsNotFoundError(err) {
			return err
		}
		return fmt.Errorf("failed to update item: %w", err)
	}

	return nil
}

func (u *itemUsecase) DeleteItem(ctx context.Context, id int64) error {
	if _, err := u.GetItemByID(ctx, id); err != nil {
		if domainErrors.IsNotFoundError(err) {
			return err
		}
		return fmt.Errorf("failed to check item existence: %w", err)
	}

	err := u.itemRepo.Delete(ctx, id)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			return domainErrors.ErrItemNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

func (u *itemUsecase) GetCategorySummary(ctx context.Context) (*CategorySummary, error) {
	categoryCounts, err := u.itemRepo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get category summary: %w", err)
	}

	categories, err := u.categoryUsecase.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, count := range categoryCounts {
		total += count
	}

	// アイテムが 0 件のカテゴリーも含める
	summary := make(map[string]int, len(categories))
	for _, category := range categories {
		summary[category.Name] = categoryCounts[category.Name]
	}

	return &CategorySummary{
		Categories: summary,
		Total:      total,
	}, nil
}
