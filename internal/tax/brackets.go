package tax

import "math"

// Regime identifiers
const (
	RegimeNew = "new"
	RegimeOld = "old"
)

// bracket is one slab of a progressive rate table. Base is the cumulative
// tax of all lower slabs, so tax inside a slab is base + (income-lower)*rate.
type bracket struct {
	Upper float64 // Upper bound, inclusive
	Lower float64 // Lower bound of the slab
	Rate  float64 // Marginal rate, e.g. 0.05 for 5%
	Base  float64 // Cumulative tax of all lower slabs
}

// regimeBrackets holds the two statutory slab tables, keyed by regime.
// Fixed policy data: there is no per-year versioning.
var regimeBrackets = map[string][]bracket{
	RegimeNew: {
		{Upper: 300000, Lower: 0, Rate: 0, Base: 0},
		{Upper: 600000, Lower: 300000, Rate: 0.05, Base: 0},
		{Upper: 900000, Lower: 600000, Rate: 0.10, Base: 15000},
		{Upper: 1200000, Lower: 900000, Rate: 0.15, Base: 45000},
		{Upper: 1500000, Lower: 1200000, Rate: 0.20, Base: 90000},
		{Upper: math.Inf(1), Lower: 1500000, Rate: 0.30, Base: 150000},
	},
	RegimeOld: {
		{Upper: 250000, Lower: 0, Rate: 0, Base: 0},
		{Upper: 500000, Lower: 250000, Rate: 0.05, Base: 0},
		{Upper: 1000000, Lower: 500000, Rate: 0.20, Base: 12500},
		{Upper: math.Inf(1), Lower: 1000000, Rate: 0.30, Base: 112500},
	},
}
