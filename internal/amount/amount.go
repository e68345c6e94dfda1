// Package amount implements HushNode's fixed-precision decimal amounts
// (spec §3: "decimal strings with fixed precision (9 fractional digits) to
// avoid floating-point drift").
package amount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision is the fixed number of fractional digits every Amount carries.
const Precision = 9

// Amount wraps a shopspring/decimal value rounded to Precision fractional
// digits. The zero value is zero.
type Amount struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Amount{}

// Parse parses a decimal string (e.g. "10.000000000") into an Amount,
// rounding to Precision digits.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("amount: invalid decimal %q: %w", s, err)
	}
	return Amount{d: d.Round(Precision)}, nil
}

// MustParse is Parse but panics on error; only for known-good literals (tests,
// config defaults).
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromInt builds an Amount representing an integer quantity of whole units.
func FromInt(n int64) Amount {
	return Amount{d: decimal.NewFromInt(n).Round(Precision)}
}

// String renders the canonical fixed-precision decimal string.
func (a Amount) String() string {
	return a.d.StringFixed(Precision)
}

// Add returns a+b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d).Round(Precision)}
}

// Sub returns a-b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d).Round(Precision)}
}

// Cmp compares a to b: -1, 0, or 1.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
