package domain

import (
	"github.com/shopspring/decimal"
)

// ProjectionConfig is the engine's parameter object for one projection
// run. The engine never mutates it.
type ProjectionConfig struct {
	// HorizonYears is the number of projected years beyond period zero.
	HorizonYears int `yaml:"horizonYears" json:"horizonYears"`

	Scenario      GrowthScenario  `yaml:"scenario" json:"scenario"`
	InflationRate decimal.Decimal `yaml:"inflationRate,omitempty" json:"inflationRate,omitempty"`

	IncludeIncome       bool `yaml:"includeIncome" json:"includeIncome"`
	IncludeExpenses     bool `yaml:"includeExpenses" json:"includeExpenses"`
	ReinvestIncome      bool `yaml:"reinvestIncome,omitempty" json:"reinvestIncome,omitempty"`
	IncludeHiddenAssets bool `yaml:"includeHiddenAssets,omitempty" json:"includeHiddenAssets,omitempty"`
	ExcludeLiabilities  bool `yaml:"excludeLiabilities,omitempty" json:"excludeLiabilities,omitempty"`
	CalculateAfterTax   bool `yaml:"calculateAfterTax,omitempty" json:"calculateAfterTax,omitempty"`

	// InflationAdjusted requests real (deflated) output series. Nominal
	// values are still used internally for tax, which applies to nominal
	// income.
	InflationAdjusted bool `yaml:"inflationAdjusted,omitempty" json:"inflationAdjusted,omitempty"`

	// Empty filter sets mean "nothing enabled" and produce a zero
	// projection rather than an error.
	EnabledAssetClasses []AssetClass  `yaml:"enabledAssetClasses" json:"enabledAssetClasses"`
	EnabledHoldingTypes []HoldingType `yaml:"enabledHoldingTypes" json:"enabledHoldingTypes"`

	// Country selects which tax rule sets apply when CalculateAfterTax
	// is set.
	Country string `yaml:"country,omitempty" json:"country,omitempty"`

	// ClassGrowthDefaults supplies per-class growth assumptions for
	// assets without an override.
	ClassGrowthDefaults map[AssetClass]GrowthRates `yaml:"classGrowthDefaults,omitempty" json:"classGrowthDefaults,omitempty"`
}

// ClassEnabled reports whether an asset class passes the filter.
func (pc *ProjectionConfig) ClassEnabled(ac AssetClass) bool {
	for _, c := range pc.EnabledAssetClasses {
		if c == ac {
			return true
		}
	}
	return false
}

// HoldingEnabled reports whether a holding type passes the filter.
func (pc *ProjectionConfig) HoldingEnabled(ht HoldingType) bool {
	for _, h := range pc.EnabledHoldingTypes {
		if h == ht {
			return true
		}
	}
	return false
}

// EngineDefaults names the fallback assumptions that used to live as
// inline magic numbers scattered across the calling application. They are
// deployment configuration, overridable per jurisdiction.
type EngineDefaults struct {
	// DefaultFrequency is the canonical interpretation of a recurring
	// amount whose frequency tag is absent or unrecognized. Monthly is
	// the dominant convention for expense records and is applied
	// uniformly everywhere.
	DefaultFrequency Frequency `yaml:"defaultFrequency" json:"defaultFrequency"`

	// FallbackLoanRate keeps interest-expense reporting populated when a
	// loan record carries no rate.
	FallbackLoanRate decimal.Decimal `yaml:"fallbackLoanRate" json:"fallbackLoanRate"`

	// CashCompoundingPeriods is the intra-year compounding frequency for
	// interest-bearing (cash) assets.
	CashCompoundingPeriods int64 `yaml:"cashCompoundingPeriods" json:"cashCompoundingPeriods"`
}

// NewEngineDefaults returns the stock defaults: monthly frequency, 5%
// fallback loan rate, monthly compounding for cash.
func NewEngineDefaults() EngineDefaults {
	return EngineDefaults{
		DefaultFrequency:       FrequencyMonthly,
		FallbackLoanRate:       decimal.NewFromFloat(0.05),
		CashCompoundingPeriods: 12,
	}
}
