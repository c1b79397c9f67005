package session

import (
	"github.com/ValentinKolb/techlog/lib/record"
	"github.com/shopspring/decimal"
)

// Stats describes the tariffs of a group of records
type Stats struct {
	Count int
	Total decimal.Decimal
	Mean  decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal
}

// newStats computes count, sum, mean (rounded to cents), minimum and maximum
// of the given tariffs
func newStats(values []decimal.Decimal) Stats {
	if len(values) == 0 {
		return Stats{Total: decimal.Zero, Mean: decimal.Zero, Min: decimal.Zero, Max: decimal.Zero}
	}

	// initialize min and max with the first value
	min := values[0]
	max := values[0]

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}

	return Stats{
		Count: len(values),
		Total: sum,
		Mean:  sum.DivRound(decimal.NewFromInt(int64(len(values))), 2),
		Min:   min,
		Max:   max,
	}
}

// Summary is the billing report of a session
type Summary struct {
	Hardware Stats
	Software Stats
	All      Stats
}

// Summary computes the billing report over all records
func (s *Session) Summary() Summary {
	var hw, sw, all []decimal.Decimal
	for _, r := range s.store.ListAll() {
		t := r.Tariff()
		all = append(all, t)
		switch r.Kind() {
		case record.KindHardware:
			hw = append(hw, t)
		case record.KindSoftware:
			sw = append(sw, t)
		}
	}
	return Summary{
		Hardware: newStats(hw),
		Software: newStats(sw),
		All:      newStats(all),
	}
}
