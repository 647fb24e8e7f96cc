package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// price 列は DECIMAL(65,30)
const (
	MaxPriceScale         = 30
	MaxPriceIntegerDigits = 35

	// JSON では最低でも小数 2 桁を出す（1.1 ではなく 1.10）
	minPriceScale = 2
)

// FormatPrice renders p without trailing zeros beyond two decimal places.
// Digits the caller sent beyond that are kept.
func FormatPrice(p decimal.Decimal) string {
	s := p.String()
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 >= minPriceScale {
		return s
	}
	return p.StringFixed(minPriceScale)
}

// ValidatePrice rejects prices the price column would round or overflow.
func ValidatePrice(p decimal.Decimal) error {
	s := p.String()
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > MaxPriceScale {
		return fmt.Errorf("price must have at most %d decimal places", MaxPriceScale)
	}
	if len(p.Abs().Truncate(0).String()) > MaxPriceIntegerDigits {
		return fmt.Errorf("price must have at most %d integer digits", MaxPriceIntegerDigits)
	}
	return nil
}
