// Package pricing computes the frozen total of a fuel order from a pump's
// unit prices. Everything here is pure; callers persist the result.
package pricing

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/shopspring/decimal"
)

// FuelType is the kind of fuel a pump sells.
type FuelType string

const (
	Petrol FuelType = "petrol"
	Diesel FuelType = "diesel"
)

// MaxQuantity is the largest single delivery, in liters.
var MaxQuantity = decimal.NewFromInt(100)

// MaxScale is the number of decimal places stored for quantities and unit
// prices.
const MaxScale = 3

// PriceBoard is a pump's current unit price per liter for each fuel type.
type PriceBoard struct {
	Petrol decimal.Decimal `json:"petrol_price"`
	Diesel decimal.Decimal `json:"diesel_price"`
}

// Quote is the outcome of pricing one order request.
type Quote struct {
	FuelType       FuelType        `json:"fuel_type"`
	QuantityLiters decimal.Decimal `json:"quantity_liters"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
}

func ParseFuelType(s string) (FuelType, error) {
	switch ft := FuelType(strings.ToLower(strings.TrimSpace(s))); ft {
	case Petrol, Diesel:
		return ft, nil
	default:
		return "", fmt.Errorf("%w: %q", apperr.ErrInvalidFuelType, s)
	}
}

// UnitPrice returns the board's price for ft.
func (b PriceBoard) UnitPrice(ft FuelType) (decimal.Decimal, error) {
	switch ft {
	case Petrol:
		return b.Petrol, nil
	case Diesel:
		return b.Diesel, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", apperr.ErrInvalidFuelType, ft)
	}
}

// ValidateQuantity accepts 0 < q <= MaxQuantity with at most MaxScale
// decimal places.
func ValidateQuantity(q decimal.Decimal) error {
	if !q.IsPositive() || q.GreaterThan(MaxQuantity) {
		return fmt.Errorf("%w: %s liters is outside (0, %s]", apperr.ErrInvalidQuantity, q, MaxQuantity)
	}
	if !fitsScale(q) {
		return fmt.Errorf("%w: %s liters has more than %d decimal places", apperr.ErrInvalidQuantity, q, MaxScale)
	}
	return nil
}

func fitsScale(d decimal.Decimal) bool { return d.Equal(d.Truncate(MaxScale)) }

// ValidatePrices rejects a board with a non-positive or over-precise price.
func ValidatePrices(b PriceBoard) error {
	if !b.Petrol.IsPositive() {
		return fmt.Errorf("%w: petrol price must be greater than 0", apperr.ErrInvalidPrice)
	}
	if !b.Diesel.IsPositive() {
		return fmt.Errorf("%w: diesel price must be greater than 0", apperr.ErrInvalidPrice)
	}
	if !fitsScale(b.Petrol) || !fitsScale(b.Diesel) {
		return fmt.Errorf("%w: prices have at most %d decimal places", apperr.ErrInvalidPrice, MaxScale)
	}
	return nil
}

// Resolve prices quantity liters of ft at the board's current rate. The
// total is rounded half away from zero to two decimal places.
func Resolve(b PriceBoard, ft FuelType, quantity decimal.Decimal) (Quote, error) {
	unit, err := b.UnitPrice(ft)
	if err != nil {
		return Quote{}, err
	}
	if err := ValidateQuantity(quantity); err != nil {
		return Quote{}, err
	}
	return Quote{
		FuelType:       ft,
		QuantityLiters: quantity,
		UnitPrice:      unit,
		Total:          unit.Mul(quantity).Round(2),
	}, nil
}

// Amount is a money or quantity field as typed by a client. It accepts both
// JSON numbers and strings so that a non-numeric value can be reported as a
// domain error instead of a decoding failure.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	*a = Amount(bytes.Trim(data, `"`))
	return nil
}

// Decimal parses a. Empty or non-numeric input returns ok=false.
func (a Amount) Decimal() (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParsePrice converts a client supplied price, mapping anything that is not a
// positive number to ErrInvalidPrice.
func ParsePrice(field string, a Amount) (decimal.Decimal, error) {
	d, ok := a.Decimal()
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s price %q is not a number", apperr.ErrInvalidPrice, field, string(a))
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s price must be greater than 0", apperr.ErrInvalidPrice, field)
	}
	if !fitsScale(d) {
		return decimal.Zero, fmt.Errorf("%w: %s price has more than %d decimal places", apperr.ErrInvalidPrice, field, MaxScale)
	}
	return d, nil
}

// ParseQuantity converts a client supplied quantity and checks its bounds.
func ParseQuantity(a Amount) (decimal.Decimal, error) {
	d, ok := a.Decimal()
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", apperr.ErrInvalidQuantity, string(a))
	}
	if err := ValidateQuantity(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
