// Package currency converts monetary amounts between display precision
// and the integer smallest-unit representation used for all storage
// and arithmetic.
//
// This package is the single conversion boundary: no other component
// may turn a display amount into smallest units or back.
package currency

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/finopsia/finopsia/internal/common"
)

// defaultDecimals maps each supported currency code to its number of
// decimal places.
var defaultDecimals = map[string]int32{
	"NGN": 2, // kobo
	"USD": 2, // cents
	"EUR": 2, // cents
	"GBP": 2, // pence
	"KES": 2, // cents
	"JPY": 0, // no minor unit
}

// Converter converts between display-precision and smallest-unit
// amounts using a fixed per-currency decimal table.
type Converter struct {
	decimals map[string]int32
}

// NewConverter creates a converter with the default currency table.
func NewConverter() *Converter {
	return NewConverterWithTable(defaultDecimals)
}

// NewConverterWithTable creates a converter with a custom currency
// table. The table is copied; later mutation of the argument has no
// effect.
func NewConverterWithTable(table map[string]int32) *Converter {
	decimals := make(map[string]int32, len(table))
	for code, places := range table {
		decimals[code] = places
	}
	return &Converter{decimals: decimals}
}

// Decimals returns the number of decimal places for a currency code.
func (c *Converter) Decimals(code string) (int32, error) {
	places, ok := c.decimals[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", common.ErrUnsupportedCurrency, code)
	}
	return places, nil
}

// ToSmallestUnit converts a display-precision amount to its integer
// smallest-unit representation, rounding half away from zero at the
// currency's decimal boundary.
func (c *Converter) ToSmallestUnit(amount decimal.Decimal, code string) (int64, error) {
	places, err := c.Decimals(code)
	if err != nil {
		return 0, err
	}

	// decimal.Round ties away from zero, matching the rounding rule
	// for monetary input.
	smallest := amount.Round(places).Shift(places).IntPart()

	slog.Debug("Converted to smallest unit",
		"amount", amount.String(),
		"currency", code,
		"smallest", smallest)

	return smallest, nil
}

// FromSmallestUnit converts an integer smallest-unit amount back to
// display precision.
func (c *Converter) FromSmallestUnit(amount int64, code string) (decimal.Decimal, error) {
	places, err := c.Decimals(code)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return decimal.New(amount, -places), nil
}
