package entity

// QuantityDto is a projection of an item; it is never persisted on its own.
type QuantityDto struct {
	ItemID   int64 `json:"itemId"`
	Quantity int64 `json:"quantity"`
}
