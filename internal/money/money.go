package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a fixed-point monetary value matching a NUMERIC(10,2)
// column. The internal decimal may carry extra precision (e.g. a unit
// price parsed from "10.333"); String renders exactly two digits with
// half-away-from-zero rounding.
type Amount struct {
	d decimal.Decimal
}

// Zero is the "0.00" value, also used as the unset-price sentinel.
var Zero = Amount{}

// Tolerance is the comparison slack for cross-field consistency
// checks (one cent).
var Tolerance = Amount{d: decimal.New(1, -2)}

func FromDecimal(d decimal.Decimal) Amount { return Amount{d: d} }

// Parse reads a decimal string. Negative values are rejected: every
// monetary column in the schema is PositiveOrZero.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("money: parse %q: %w", s, err)
	}
	if d.IsNegative() {
		return Zero, fmt.Errorf("money: negative amount %q", s)
	}
	return Amount{d: d}, nil
}

// MustParse is for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// MulQty multiplies a unit price by an item quantity.
func (a Amount) MulQty(qty int) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(int64(qty)))}
}

// Round2 rounds to two decimal places, half away from zero.
func (a Amount) Round2() Amount { return Amount{d: a.d.Round(2)} }

func (a Amount) Cmp(b Amount) int       { return a.d.Cmp(b.d) }
func (a Amount) Equal(b Amount) bool    { return a.d.Equal(b.d) }
func (a Amount) LessThan(b Amount) bool { return a.d.LessThan(b.d) }
func (a Amount) IsZero() bool           { return a.d.IsZero() }
func (a Amount) IsPositive() bool       { return a.d.IsPositive() }

func (a Amount) Decimal() decimal.Decimal { return a.d }

// String renders the canonical persisted form: two decimal digits.
func (a Amount) String() string { return a.d.StringFixed(2) }

// WithinTolerance reports whether a and b differ by at most tol.
func WithinTolerance(a, b, tol Amount) bool {
	return a.d.Sub(b.d).Abs().LessThanOrEqual(tol.d)
}

// MarshalJSON emits the 2dp string form, matching the wire format of
// the admin API and the NUMERIC columns.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
