// Package tax implements the progressive income-tax calculator for the two
// supported regimes. It is pure: no state, no I/O, deterministic output.
package tax

import (
	"strings"

	"taxease/internal/xerrors"
)

// Result is the breakdown returned by Calculate
type Result struct {
	Income        float64 `json:"income"`        // Gross income as given
	Deductions    float64 `json:"deductions"`    // Deductions as given
	TaxableIncome float64 `json:"taxableIncome"` // Income minus deductions, not clamped
	TaxAmount     float64 `json:"taxAmount"`     // Tax on the taxable income
	NetIncome     float64 `json:"netIncome"`     // Gross income minus tax
	Regime        string  `json:"regime"`        // Regime the slabs were taken from
}

// Calculate computes the tax breakdown for a gross income under the given
// regime after subtracting deductions. Taxable income may go negative; it
// is deliberately not floored because it then lands in the zero-rate slab
// and taxes at 0, which is the observable contract of the calculator.
// The only failure mode is an unknown regime.
func Calculate(grossIncome float64, regime string, deductions float64) (*Result, error) {
	normalized := strings.ToLower(regime)
	brackets, ok := regimeBrackets[normalized]
	if !ok {
		return nil, xerrors.Validation("invalid tax regime: %s", regime)
	}

	taxableIncome := grossIncome - deductions
	taxAmount := slabTax(taxableIncome, brackets)

	return &Result{
		Income:        grossIncome,
		Deductions:    deductions,
		TaxableIncome: taxableIncome,
		TaxAmount:     taxAmount,
		NetIncome:     grossIncome - taxAmount,
		Regime:        normalized,
	}, nil
}

// slabTax walks the slab table and applies the cumulative-base method.
// Slab selection is inclusive at the upper bound.
func slabTax(income float64, brackets []bracket) float64 {
	for _, b := range brackets {
		if income <= b.Upper {
			return b.Base + (income-b.Lower)*b.Rate
		}
	}
	return 0 // unreachable: the last slab is unbounded
}
