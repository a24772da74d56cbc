package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodCashflow breaks one projected period's cashflow into its parts.
// All amounts are nominal; deflation to real terms happens only on the
// surfaced series.
type PeriodCashflow struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Tax      decimal.Decimal `json:"tax"`
	Net      decimal.Decimal `json:"net"`
}

// LoanDetail reports per-loan amortization facts for the current period
// zero state, including what a linked offset account saves.
type LoanDetail struct {
	AssetID          string          `json:"assetId"`
	PeriodicPayment  decimal.Decimal `json:"periodicPayment"`
	AnnualInterest   decimal.Decimal `json:"annualInterest"`
	OffsetBalance    decimal.Decimal `json:"offsetBalance,omitempty"`
	InterestSaved    decimal.Decimal `json:"interestSaved,omitempty"`
	UsedFallbackRate bool            `json:"usedFallbackRate,omitempty"`
}

// TaxDetail reports one (country, holding type) group's tax computation
// for a period.
type TaxDetail struct {
	HoldingType      HoldingType     `json:"holdingType"`
	AssessableIncome decimal.Decimal `json:"assessableIncome"`
	TaxPayable       decimal.Decimal `json:"taxPayable"`
	EffectiveRate    decimal.Decimal `json:"effectiveRate"`
	MarginalRate     decimal.Decimal `json:"marginalRate"`
}

// ProjectionResult is the engine's output. All series are parallel and
// hold HorizonYears+1 entries; index 0 is the current (period zero)
// state.
type ProjectionResult struct {
	Scenario GrowthScenario `json:"scenario"`

	Dates    []time.Time       `json:"dates"`
	NetWorth []decimal.Decimal `json:"netWorth"`
	Cashflow []PeriodCashflow  `json:"cashflow"`

	// Breakdown series keyed by class/holding type, each the same length
	// as NetWorth.
	ByAssetClass  map[AssetClass][]decimal.Decimal  `json:"byAssetClass"`
	ByHoldingType map[HoldingType][]decimal.Decimal `json:"byHoldingType"`

	Loans []LoanDetail        `json:"loans,omitempty"`
	Taxes map[int][]TaxDetail `json:"taxes,omitempty"` // period index -> per-group detail

	// InflationAdjusted records whether the surfaced series are real
	// (deflated) values.
	InflationAdjusted bool `json:"inflationAdjusted"`
}

// Periods returns the number of entries in each series.
func (pr *ProjectionResult) Periods() int {
	return len(pr.NetWorth)
}

// FinalNetWorth returns the last projected net worth, or zero for an
// empty result.
func (pr *ProjectionResult) FinalNetWorth() decimal.Decimal {
	if len(pr.NetWorth) == 0 {
		return decimal.Zero
	}
	return pr.NetWorth[len(pr.NetWorth)-1]
}

// TotalTax sums tax across all periods.
func (pr *ProjectionResult) TotalTax() decimal.Decimal {
	total := decimal.Zero
	for _, cf := range pr.Cashflow {
		total = total.Add(cf.Tax)
	}
	return total
}

// NewProjectionResult allocates a result with all series sized to
// periods entries.
func NewProjectionResult(scenario GrowthScenario, periods int) *ProjectionResult {
	return &ProjectionResult{
		Scenario:      scenario,
		Dates:         make([]time.Time, periods),
		NetWorth:      make([]decimal.Decimal, periods),
		Cashflow:      make([]PeriodCashflow, periods),
		ByAssetClass:  make(map[AssetClass][]decimal.Decimal),
		ByHoldingType: make(map[HoldingType][]decimal.Decimal),
		Taxes:         make(map[int][]TaxDetail),
	}
}
