package basket

import "fmt"

// Percent is a basket figure already scaled to percent (annual return,
// volatility, weekly change): 12.5 means 12.5%.
type Percent float64

// Equal compares two figures to a hundredth of a basis point, the figures
// are derived from float computations.
func (p Percent) Equal(q Percent) bool {
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// String formats p with two decimals, as shown in reports.
func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString formats a change with its sign, "-" for a change that rounds to zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
