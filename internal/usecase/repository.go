package usecase

import (
	"context"

	"inventory-api/internal/domain/entity"
)

// ItemRepository defines the interface for item data access
type ItemRepository interface {
	// FindAll retrieves all items with their categories
	FindAll(ctx context.Context) ([]*entity.Item, error)

	// FindByID retrieves an item by ID
	FindByID(ctx context.Context, id int64) (*entity.Item, error)

	// FindQuantityByID は quantity カラムだけを読み出す
	FindQuantityByID(ctx context.Context, id int64) (int64, error)

	// Create creates a new item and returns it with the generated ID
	Create(ctx context.Context, item *entity.Item) (*entity.Item, error)

	// Update overwrites name, price, quantity and category of an existing item
	Update(ctx context.Context, item *entity.Item) error

	// Delete deletes an item by ID
	Delete(ctx context.Context, id int64) error

	// CountByCategory returns item counts keyed by category name
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// CategoryRepository defines read access to categories.
// Categories are created and deleted outside of this service.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]*entity.Category, error)
	FindByID(ctx context.Context, id int64) (*entity.Category, error)
}
