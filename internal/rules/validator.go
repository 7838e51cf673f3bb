package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by ValidateConfig.
var (
	ErrNoProducts      = errors.New("no products")
	ErrInvalidProduct  = errors.New("invalid product id")
	ErrPercentOffRange = errors.New("percent off out of range")
	ErrInvalidMinQty   = errors.New("invalid min quantity")
)

// ValidateConfig performs strict write-side validation of a DiscountConfig.
// It is a pure function: it never mutates c and has no side effects.
func ValidateConfig(c DiscountConfig) error {
	if len(c.Products) == 0 {
		return fmt.Errorf("%w: at least one product is required", ErrNoProducts)
	}

	for i, p := range c.Products {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: products[%d] must not be empty", ErrInvalidProduct, i)
		}
	}

	if c.PercentOff < MinPercentOff || c.PercentOff > MaxPercentOff {
		return fmt.Errorf("%w: got %d, want %d..%d", ErrPercentOffRange, c.PercentOff, MinPercentOff, MaxPercentOff)
	}

	if c.MinQty != WriteMinQty {
		return fmt.Errorf("%w: got %d, the settings surface always stores %d", ErrInvalidMinQty, c.MinQty, WriteMinQty)
	}

	return nil
}
