package basket

// Allocation is the share of one asset in a basket.
type Allocation struct {
	AssetRating
	Weight float64 `json:"weight"`
	Amount Money   `json:"amount"` // invested on the first week
}

// Breakdown lists the allocations of r in selection order.
//
// Amounts are the initial investment split by weight, in currency, rounded
// to the currency fraction. The last asset gets the rounding remainder so that
// the amounts sum to the rounded investment.
func Breakdown(ratings Ratings, r Result, currency string) []Allocation {
	if len(r.Values) == 0 {
		return nil
	}
	invested := M(r.Values[0], currency).Round()
	rest := invested
	allocs := make([]Allocation, 0, len(r.Selected))
	for i, t := range r.Selected {
		row, ok := ratings.Lookup(t)
		if !ok {
			row = AssetRating{Ticker: t}
		}
		w := r.Weights[t]
		amount := invested.Scale(w).Round()
		if i == len(r.Selected)-1 {
			amount = rest
		}
		rest = rest.Add(amount.Scale(-1))
		allocs = append(allocs, Allocation{
			AssetRating: row,
			Weight:      w,
			Amount:      amount,
		})
	}
	return allocs
}

// Final returns the value of the basket on the last week.
func (r Result) Final() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	return r.Values[len(r.Values)-1]
}

// TotalReturn returns the change between the first and last week.
func (r Result) TotalReturn() Percent {
	if len(r.Values) == 0 || r.Values[0] == 0 {
		return 0
	}
	return Percent(100 * (r.Final()/r.Values[0] - 1))
}
