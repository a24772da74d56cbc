package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/wealthproj/projection-engine/internal/domain"
)

var (
	decimalZero   = decimal.Zero
	decimalOne    = decimal.NewFromInt(1)
	decimalTwelve = decimal.NewFromInt(12)
)

// FrequencyNormalizer converts cash amounts between payment frequencies
// and the annual/monthly bases the rest of the engine works in.
//
// The calling application historically defaulted an unknown frequency to
// monthly in some screens and annual in others; the normalizer applies
// one canonical default (EngineDefaults.DefaultFrequency, monthly out of
// the box) everywhere.
type FrequencyNormalizer struct {
	Defaults domain.EngineDefaults
}

// NewFrequencyNormalizer creates a normalizer with the given defaults.
func NewFrequencyNormalizer(defaults domain.EngineDefaults) *FrequencyNormalizer {
	return &FrequencyNormalizer{Defaults: defaults}
}

// periodsPerYear resolves a frequency tag, applying the canonical default
// for unknown or absent tags.
func (fn *FrequencyNormalizer) periodsPerYear(f domain.Frequency) decimal.Decimal {
	if n, ok := f.PeriodsPerYear(); ok {
		return decimal.NewFromInt(n)
	}
	if n, ok := fn.Defaults.DefaultFrequency.PeriodsPerYear(); ok {
		return decimal.NewFromInt(n)
	}
	return decimalTwelve
}

// ToAnnual converts an amount at the given frequency to its annual
// equivalent.
func (fn *FrequencyNormalizer) ToAnnual(amount decimal.Decimal, f domain.Frequency) decimal.Decimal {
	return amount.Mul(fn.periodsPerYear(f))
}

// ToMonthly converts an amount at the given frequency to its monthly
// equivalent.
func (fn *FrequencyNormalizer) ToMonthly(amount decimal.Decimal, f domain.Frequency) decimal.Decimal {
	return fn.ToAnnual(amount, f).Div(decimalTwelve)
}

// FromAnnual converts an annual amount back to the given frequency.
func (fn *FrequencyNormalizer) FromAnnual(annual decimal.Decimal, f domain.Frequency) decimal.Decimal {
	return annual.Div(fn.periodsPerYear(f))
}

// AnnualExpenses normalizes an asset's expense items to a single annual
// figure.
func (fn *FrequencyNormalizer) AnnualExpenses(items []domain.ExpenseItem) decimal.Decimal {
	total := decimalZero
	for _, item := range items {
		total = total.Add(fn.ToAnnual(item.Amount, item.Frequency))
	}
	return total
}
