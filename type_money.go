package basket

import (
	"encoding/json"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value, used to present amounts.
//
// The simulation runs on float64, Money only carries the amounts shown to the
// user with their currency formatting.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns value in currency.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return Money{value: v, cur: currency}
	case float64:
		return Money{value: decimal.NewFromFloat(v), cur: currency}
	case int:
		return Money{value: decimal.NewFromInt(int64(v)), cur: currency}
	case int64:
		return Money{value: decimal.NewFromInt(v), cur: currency}
	}
	panic("unreachable")
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the amount with its currency symbol, rounded to the currency fraction.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// Scale returns m times f, f is a fraction like a weight.
func (m Money) Scale(f float64) Money {
	return Money{value: m.value.Mul(decimal.NewFromFloat(f)), cur: m.cur}
}

// Add returns the sum of two amounts of the same currency.
func (m Money) Add(n Money) Money {
	if m.cur != n.cur && m.cur != "" && n.cur != "" {
		panic("currency mismatch " + m.cur + "!=" + n.cur)
	}
	cur := m.cur
	if cur == "" {
		cur = n.cur
	}
	return Money{value: m.value.Add(n.value), cur: cur}
}

// Round returns m rounded to its currency fraction.
func (m Money) Round() Money {
	return Money{value: m.value.Round(int32(m.currency().Fraction)), cur: m.cur}
}

// AsFloat returns the amount as a float, for charts.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Currency string          `json:"currency,omitempty"`
		Amount   decimal.Decimal `json:"amount"`
	}{m.cur, m.value.Round(int32(m.currency().Fraction))})
}
