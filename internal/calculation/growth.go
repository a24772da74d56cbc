package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthproj/projection-engine/internal/domain"
)

// AssetProjection is one asset's per-period contribution to the overall
// projection. All series hold periods+1 entries; index 0 is the current
// state. Values are nominal and, for liabilities, positive outstanding
// balances.
type AssetProjection struct {
	Asset *domain.AssetRecord

	Values []decimal.Decimal

	// Income and Expenses are the amounts surfaced to the cashflow
	// series each period (zero at period 0). Reinvested income never
	// appears here.
	Income   []decimal.Decimal
	Expenses []decimal.Decimal

	// FrankedIncome is the subset of Income carrying imputation credits.
	FrankedIncome []decimal.Decimal

	// InterestExpense is the loan-interest portion of Expenses, kept
	// separate for reporting.
	InterestExpense []decimal.Decimal

	IsLiability bool
}

// GrowthProjector produces per-asset value series: scenario growth with
// income yield and reinvestment for assets, amortization for
// liabilities, intra-year compounding for interest-bearing balances.
type GrowthProjector struct {
	Normalizer *FrequencyNormalizer
	Amortizer  *AmortizationCalculator
	Defaults   domain.EngineDefaults
}

// NewGrowthProjector creates a projector sharing the engine's
// collaborators.
func NewGrowthProjector(normalizer *FrequencyNormalizer, amortizer *AmortizationCalculator, defaults domain.EngineDefaults) *GrowthProjector {
	return &GrowthProjector{Normalizer: normalizer, Amortizer: amortizer, Defaults: defaults}
}

// newAssetProjection allocates zeroed series for periods+1 entries.
func newAssetProjection(asset *domain.AssetRecord, periods int) *AssetProjection {
	n := periods + 1
	ap := &AssetProjection{
		Asset:           asset,
		Values:          make([]decimal.Decimal, n),
		Income:          make([]decimal.Decimal, n),
		Expenses:        make([]decimal.Decimal, n),
		FrankedIncome:   make([]decimal.Decimal, n),
		InterestExpense: make([]decimal.Decimal, n),
	}
	for i := 0; i < n; i++ {
		ap.Values[i] = decimal.Zero
		ap.Income[i] = decimal.Zero
		ap.Expenses[i] = decimal.Zero
		ap.FrankedIncome[i] = decimal.Zero
		ap.InterestExpense[i] = decimal.Zero
	}
	return ap
}

// Project produces the asset's series over the given number of annual
// periods. offsetBalance is the linked offset account's current balance
// for liability records, zero otherwise.
func (gp *GrowthProjector) Project(asset *domain.AssetRecord, config *domain.ProjectionConfig, periods int, offsetBalance decimal.Decimal) (*AssetProjection, error) {
	if periods <= 0 {
		return nil, inputErrorf("projection periods must be positive, got %d", periods)
	}
	if asset.IsLiabilityRecord() {
		return gp.projectLiability(asset, config, periods, offsetBalance)
	}
	return gp.projectAsset(asset, config, periods)
}

// annualGrowthRate resolves the asset's scenario growth. Cash balances
// grow by their deposit interest rate with intra-year compounding
// instead of the scenario assumption.
func (gp *GrowthProjector) annualGrowthRate(asset *domain.AssetRecord, config *domain.ProjectionConfig) decimal.Decimal {
	if asset.AssetClass.IsInterestBearing() {
		rate := asset.IncomeYield
		periods := gp.Defaults.CashCompoundingPeriods
		if periods <= 1 {
			return rate
		}
		// Effective annual rate (1 + r/m)^m - 1.
		m := decimal.NewFromInt(periods)
		return decimalOne.Add(rate.Div(m)).Pow(m).Sub(decimalOne)
	}
	return asset.EffectiveGrowth(config.ClassGrowthDefaults).ForScenario(config.Scenario)
}

// projectAsset runs the growth recurrence
// value[t+1] = value[t]*(1+g) + reinvestedIncome - reinvestedExpenses.
// When income is not reinvested it is surfaced to cashflow instead of
// compounding, and expenses are met out of pocket (cashflow) rather than
// drawn from the asset.
func (gp *GrowthProjector) projectAsset(asset *domain.AssetRecord, config *domain.ProjectionConfig, periods int) (*AssetProjection, error) {
	ap := newAssetProjection(asset, periods)
	ap.Values[0] = asset.CurrentValue

	growth := gp.annualGrowthRate(asset, config)
	annualExpenses := decimal.Zero
	if config.IncludeExpenses {
		annualExpenses = gp.Normalizer.AnnualExpenses(asset.Expenses)
	}

	// Employment income holds no capital: the record's value is the
	// annual salary, surfaced entirely as income and growing at the
	// scenario rate.
	if asset.AssetClass == domain.AssetClassEmployment {
		salary := asset.CurrentValue
		ap.Values[0] = decimal.Zero
		for t := 1; t <= periods; t++ {
			if config.IncludeIncome {
				ap.Income[t] = salary
			}
			if config.IncludeExpenses {
				ap.Expenses[t] = annualExpenses
			}
			salary = salary.Mul(decimalOne.Add(growth))
		}
		return ap, nil
	}

	for t := 1; t <= periods; t++ {
		value := ap.Values[t-1].Mul(decimalOne.Add(growth))

		income := decimal.Zero
		if !asset.AssetClass.IsInterestBearing() {
			income = ap.Values[t-1].Mul(asset.IncomeYield)
		} else if !config.ReinvestIncome {
			// Non-reinvested cash interest is paid out: surface it and
			// hold the balance flat.
			income = value.Sub(ap.Values[t-1])
			value = ap.Values[t-1]
		}

		if config.ReinvestIncome {
			value = value.Add(income).Sub(annualExpenses)
		} else {
			if config.IncludeIncome {
				ap.Income[t] = income
				if asset.AssetClass == domain.AssetClassShares && asset.FrankingPercent.GreaterThan(decimalZero) {
					ap.FrankedIncome[t] = income.Mul(asset.FrankingPercent)
				}
			}
			ap.Expenses[t] = annualExpenses
		}

		ap.Values[t] = value
	}
	return ap, nil
}

// projectLiability amortizes a loan year by year: the balance falls by
// each year's principal components, payments land in expense cashflow,
// and the interest share is tracked separately. The linked offset
// balance reduces interest throughout.
func (gp *GrowthProjector) projectLiability(asset *domain.AssetRecord, config *domain.ProjectionConfig, periods int, offsetBalance decimal.Decimal) (*AssetProjection, error) {
	ap := newAssetProjection(asset, periods)
	ap.IsLiability = true

	loan := asset.Loan
	if loan == nil {
		// A liability without terms carries a static balance.
		balance := asset.CurrentValue.Abs()
		for t := 0; t <= periods; t++ {
			ap.Values[t] = balance
		}
		return ap, nil
	}

	schedule, err := gp.Amortizer.Schedule(loan, offsetBalance)
	if err != nil {
		return nil, err
	}

	perYear := int(gp.Normalizer.ToAnnual(decimalOne, loan.PaymentFrequency).IntPart())
	if perYear <= 0 {
		perYear = 12
	}

	balance := loan.Principal
	if !asset.CurrentValue.IsZero() {
		balance = asset.CurrentValue.Abs()
	}
	ap.Values[0] = balance

	idx := 0
	// The schedule starts from the nominal principal; skip entries until
	// the remaining balance matches the snapshot's current balance.
	for idx < len(schedule) && schedule[idx].RemainingBalance.GreaterThan(balance) {
		idx++
	}

	for t := 1; t <= periods; t++ {
		payments := decimal.Zero
		interest := decimal.Zero
		for p := 0; p < perYear && idx < len(schedule); p++ {
			entry := schedule[idx]
			payments = payments.Add(entry.Payment)
			interest = interest.Add(entry.Interest)
			balance = entry.RemainingBalance
			idx++
		}
		ap.Values[t] = balance
		if config.IncludeExpenses {
			ap.Expenses[t] = payments
			ap.InterestExpense[t] = interest
		}
	}
	return ap, nil
}

// DeflateSeries converts a nominal series to real terms, dividing period
// t by (1+inflation)^t.
func DeflateSeries(series []decimal.Decimal, inflation decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(series))
	deflator := decimalOne
	factor := decimalOne.Add(inflation)
	for t, v := range series {
		if t > 0 {
			deflator = deflator.Mul(factor)
		}
		out[t] = v.Div(deflator)
	}
	return out
}

// yearStart returns the first day of the year offset years after base.
func yearStart(base time.Time, offset int) time.Time {
	return time.Date(base.Year()+offset, base.Month(), base.Day(), 0, 0, 0, 0, time.UTC)
}
