package entity

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Category *Category       `json:"category"`
}

// MarshalJSON writes the price as a JSON number ("price":1.10, not "1.10").
func (i Item) MarshalJSON() ([]byte, error) {
	type item Item
	return json.Marshal(struct {
		item
		Price json.Number `json:"price"`
	}{
		item:  item(i),
		Price: json.Number(FormatPrice(i.Price)),
	})
}

// NewItem builds an Item that has not been persisted yet (ID is zero).
func NewItem(name string, price decimal.Decimal, quantity int64, category *Category) (*Item, error) {
	item := &Item{
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Category: category,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the non-null columns of the item table.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("name is required")
	}
	if i.Category == nil {
		return errors.New("category is required")
	}
	return nil
}

// CategoryID returns 0 when the item has no category attached.
func (i *Item) CategoryID() int64 {
	if i.Category == nil {
		return 0
	}
	return i.Category.ID
}

// QuantityView returns the read-only quantity projection of the item.
func (i *Item) QuantityView() *QuantityDto {
	return &QuantityDto{ItemID: i.ID, Quantity: i.Quantity}
}
