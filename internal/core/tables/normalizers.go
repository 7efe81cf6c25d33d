package tables

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// defaultCategory is used when a row carries no category.
const defaultCategory = "Other"

// CollapseSpaces trims a value and folds internal whitespace runs to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// money converts a mapped float to a decimal rounded to cents.
func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// positive rejects amounts that are zero or negative.
func positive(label string, f float64) error {
	if f <= 0 {
		return fmt.Errorf("invalid amount: %s must be greater than zero", label)
	}
	return nil
}

// nonNegative rejects negative quantities.
func nonNegative(label string, f float64) error {
	if f < 0 {
		return fmt.Errorf("invalid %s: must not be negative", label)
	}
	return nil
}
