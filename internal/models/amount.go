package models

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits every Amount carries.
const AmountScale = 2

// maxAmount mirrors the NUMERIC(19,2) column the Postgres store uses.
var maxAmount = decimal.New(1, 17)

// Amount is a monetary value held as a fixed-point decimal.
// It always renders with exactly two fractional digits ("1.00", "123.45").
type Amount struct {
	decimal.Decimal
}

// NewAmount parses a decimal string such as "150.00".
func NewAmount(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q is not a decimal", ErrInvalidAmount, value)
	}
	return Amount{Decimal: d}, nil
}

// MustAmount is NewAmount for literals known to be valid.
func MustAmount(value string) Amount {
	a, err := NewAmount(value)
	if err != nil {
		panic(err)
	}
	return a
}

// Validate reports whether a is usable as a card balance.
func (a Amount) Validate() error {
	if a.IsNegative() {
		return ErrNegativeAmount
	}
	if !a.Decimal.Equal(a.Truncate(AmountScale)) {
		return ErrAmountPrecision
	}
	if a.Abs().GreaterThanOrEqual(maxAmount) {
		return ErrAmountOutOfRange
	}
	return nil
}

// Normalize returns a with its scale fixed to two fractional digits.
func (a Amount) Normalize() Amount {
	return Amount{Decimal: a.Round(AmountScale)}
}

// Equal compares two amounts by value, so 1.5 equals 1.50.
func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

func (a Amount) String() string {
	return a.StringFixed(AmountScale)
}

// MarshalJSON writes the amount as a JSON number with two fractional digits.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(AmountScale)), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("%w: malformed string", ErrInvalidAmount)
		}
		raw = unquoted
	}
	parsed, err := NewAmount(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer so the amount is stored as an exact NUMERIC.
func (a Amount) Value() (driver.Value, error) {
	return a.StringFixed(AmountScale), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(value any) error {
	return a.Decimal.Scan(value)
}
