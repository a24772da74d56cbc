package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass categorizes a holding.
type AssetClass string

const (
	AssetClassProperty    AssetClass = "property"
	AssetClassShares      AssetClass = "shares"
	AssetClassCash        AssetClass = "cash"
	AssetClassLoan        AssetClass = "loan"
	AssetClassRetirement  AssetClass = "retirement"
	AssetClassStockOption AssetClass = "stock_option"
	AssetClassEmployment  AssetClass = "employment_income"
)

// IsInterestBearing reports whether balances of this class compound at an
// intra-year frequency rather than annually.
func (ac AssetClass) IsInterestBearing() bool {
	return ac == AssetClassCash
}

// HoldingType is the legal/tax structure an asset is held under. Tax
// treatment dispatches on this tag, never on display-name matching.
type HoldingType string

const (
	HoldingPersonal       HoldingType = "personal"
	HoldingSuperannuation HoldingType = "superannuation"
	HoldingTrust          HoldingType = "trust"
)

// Frequency tags a recurring cash amount.
type Frequency string

const (
	FrequencyWeekly      Frequency = "weekly"
	FrequencyFortnightly Frequency = "fortnightly"
	FrequencyMonthly     Frequency = "monthly"
	FrequencyQuarterly   Frequency = "quarterly"
	FrequencyAnnually    Frequency = "annually"
)

// PeriodsPerYear returns the number of occurrences per year, or false if
// the frequency is unknown. Callers decide the fallback; the engine's
// canonical default lives in EngineDefaults.DefaultFrequency.
func (f Frequency) PeriodsPerYear() (int64, bool) {
	switch f {
	case FrequencyWeekly:
		return 52, true
	case FrequencyFortnightly:
		return 26, true
	case FrequencyMonthly:
		return 12, true
	case FrequencyQuarterly:
		return 4, true
	case FrequencyAnnually:
		return 1, true
	}
	return 0, false
}

// GrowthScenario selects which growth-rate assumption set a projection uses.
type GrowthScenario string

const (
	ScenarioLow    GrowthScenario = "low"
	ScenarioMedium GrowthScenario = "medium"
	ScenarioHigh   GrowthScenario = "high"
	ScenarioCustom GrowthScenario = "custom"
)

// RateType distinguishes fixed from variable loan rates.
type RateType string

const (
	RateFixed    RateType = "fixed"
	RateVariable RateType = "variable"
)

// GrowthRates holds the per-scenario annual growth assumptions for an
// asset, each expressed as a fraction (0.05 = 5%).
type GrowthRates struct {
	Low    decimal.Decimal `yaml:"low" json:"low"`
	Medium decimal.Decimal `yaml:"medium" json:"medium"`
	High   decimal.Decimal `yaml:"high" json:"high"`
	Custom decimal.Decimal `yaml:"custom,omitempty" json:"custom,omitempty"`
}

// ForScenario selects the rate for a scenario.
func (gr GrowthRates) ForScenario(s GrowthScenario) decimal.Decimal {
	switch s {
	case ScenarioLow:
		return gr.Low
	case ScenarioHigh:
		return gr.High
	case ScenarioCustom:
		return gr.Custom
	default:
		return gr.Medium
	}
}

// ExpenseItem is a recurring cost attached to an asset (rates, insurance,
// management fees, loan fees).
type ExpenseItem struct {
	Category  string          `yaml:"category" json:"category"`
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	Frequency Frequency       `yaml:"frequency,omitempty" json:"frequency,omitempty"`
}

// LoanTerms describes an amortizing liability. PaymentAmount, when set,
// overrides the computed amortizing payment (interest-only and ahead-of-
// schedule loans). OffsetAccountID references a cash AssetRecord whose
// balance reduces the interest-bearing principal.
type LoanTerms struct {
	Principal        decimal.Decimal  `yaml:"principal" json:"principal"`
	AnnualRate       *decimal.Decimal `yaml:"annualRate,omitempty" json:"annualRate,omitempty"`
	RateType         RateType         `yaml:"rateType,omitempty" json:"rateType,omitempty"`
	TermMonths       int              `yaml:"termMonths" json:"termMonths"`
	PaymentFrequency Frequency        `yaml:"paymentFrequency,omitempty" json:"paymentFrequency,omitempty"`
	PaymentAmount    *decimal.Decimal `yaml:"paymentAmount,omitempty" json:"paymentAmount,omitempty"`
	OffsetAccountID  string           `yaml:"offsetAccountId,omitempty" json:"offsetAccountId,omitempty"`
}

// AssetRecord is one user-owned holding, a read-only snapshot handed to
// the engine by the storage layer.
type AssetRecord struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	AssetClass  AssetClass  `yaml:"assetClass" json:"assetClass"`
	HoldingType HoldingType `yaml:"holdingType" json:"holdingType"`

	CurrentValue  decimal.Decimal  `yaml:"currentValue" json:"currentValue"`
	IsLiability   bool             `yaml:"isLiability,omitempty" json:"isLiability,omitempty"`
	PurchasePrice *decimal.Decimal `yaml:"purchasePrice,omitempty" json:"purchasePrice,omitempty"`
	PurchaseDate  *time.Time       `yaml:"purchaseDate,omitempty" json:"purchaseDate,omitempty"`

	// Growth overrides the asset-class defaults when set.
	Growth *GrowthRates `yaml:"growth,omitempty" json:"growth,omitempty"`

	// IncomeYield is the annual dividend/rental/interest yield as a
	// fraction of current value. For cash assets this doubles as the
	// deposit interest rate.
	IncomeYield decimal.Decimal `yaml:"incomeYield,omitempty" json:"incomeYield,omitempty"`

	// FrankingPercent is the fraction of dividend income carrying
	// imputation credits (shares only).
	FrankingPercent decimal.Decimal `yaml:"frankingPercent,omitempty" json:"frankingPercent,omitempty"`

	Expenses []ExpenseItem `yaml:"expenses,omitempty" json:"expenses,omitempty"`
	Loan     *LoanTerms    `yaml:"loan,omitempty" json:"loan,omitempty"`

	// Hidden assets (over the subscription's asset limit) contribute to
	// no aggregate unless ProjectionConfig.IncludeHiddenAssets is set.
	Hidden bool `yaml:"hidden,omitempty" json:"hidden,omitempty"`
}

// EffectiveGrowth resolves the asset's growth assumptions, falling back to
// the supplied asset-class defaults.
func (a *AssetRecord) EffectiveGrowth(classDefaults map[AssetClass]GrowthRates) GrowthRates {
	if a.Growth != nil {
		return *a.Growth
	}
	return classDefaults[a.AssetClass]
}

// IsLiabilityRecord reports whether the record represents a liability,
// either via the explicit flag or loan terms with a negative value.
func (a *AssetRecord) IsLiabilityRecord() bool {
	return a.IsLiability || a.AssetClass == AssetClassLoan
}

// HoldsLongerThan reports whether the asset has been held for at least d
// as of asOf. Unknown purchase dates count as not satisfying the period.
func (a *AssetRecord) HoldsLongerThan(d time.Duration, asOf time.Time) bool {
	if a.PurchaseDate == nil {
		return false
	}
	return asOf.Sub(*a.PurchaseDate) >= d
}
