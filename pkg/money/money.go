package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal currency value. All balance math in the platform
// goes through this type; there is no float64 path anywhere between an API
// payload and the ledger columns.
type Amount struct {
	dec decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Amount {
	return Amount{}
}

// FromDecimal wraps an existing decimal value.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{dec: d}
}

// FromString parses a decimal string such as "10.50".
func FromString(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return Amount{dec: d}, nil
}

// MustFromString parses value and panics on failure. Test helper.
func MustFromString(value string) Amount {
	a, err := FromString(value)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{dec: a.dec.Add(b.dec)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{dec: a.dec.Sub(b.dec)}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{dec: a.dec.Neg()}
}

// Cmp compares a and b, returning -1, 0, or 1.
func (a Amount) Cmp(b Amount) int {
	return a.dec.Cmp(b.dec)
}

// Equal reports whether a and b represent the same value.
func (a Amount) Equal(b Amount) bool {
	return a.dec.Equal(b.dec)
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a.dec.IsNegative()
}

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.dec.IsZero()
}

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.dec.LessThan(b.dec)
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.dec
}

// String implements fmt.Stringer.
func (a Amount) String() string {
	return a.dec.String()
}

// Value implements driver.Valuer so Amount persists as numeric.
func (a Amount) Value() (driver.Value, error) {
	return a.dec.Value()
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(value any) error {
	return a.dec.Scan(value)
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return a.dec.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.dec.UnmarshalJSON(data)
}
