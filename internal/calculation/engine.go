package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthproj/projection-engine/internal/domain"
)

// ProjectionEngine composes the frequency normalizer, amortization
// calculator, tax engine, and growth projector into the full multi-year
// projection. It is a pure function of its inputs: no state survives a
// Generate call and inputs are never mutated, so one engine can serve
// concurrent callers.
type ProjectionEngine struct {
	Normalizer *FrequencyNormalizer
	Amortizer  *AmortizationCalculator
	Projector  *GrowthProjector
	Defaults   domain.EngineDefaults
	Logger     Logger

	// Now supplies the projection's period-zero date. Overridable for
	// deterministic tests.
	Now func() time.Time
}

// NewProjectionEngine creates an engine with stock defaults.
func NewProjectionEngine() *ProjectionEngine {
	return NewProjectionEngineWithDefaults(domain.NewEngineDefaults())
}

// NewProjectionEngineWithDefaults creates an engine with
// deployment-specific defaults.
func NewProjectionEngineWithDefaults(defaults domain.EngineDefaults) *ProjectionEngine {
	normalizer := NewFrequencyNormalizer(defaults)
	amortizer := NewAmortizationCalculator(normalizer, defaults)
	return &ProjectionEngine{
		Normalizer: normalizer,
		Amortizer:  amortizer,
		Projector:  NewGrowthProjector(normalizer, amortizer, defaults),
		Defaults:   defaults,
		Logger:     NopLogger{},
		Now:        time.Now,
	}
}

// SetLogger installs a logger; nil restores the no-op logger.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// validateConfig rejects bad numeric input before any computation so no
// NaN/Infinity-equivalent propagates through the series.
func (pe *ProjectionEngine) validateConfig(config *domain.ProjectionConfig) error {
	if config == nil {
		return inputErrorf("projection config is required")
	}
	if config.HorizonYears <= 0 {
		return inputErrorf("horizon must be positive, got %d years", config.HorizonYears)
	}
	if config.InflationRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return inputErrorf("inflation rate must be above -100%%, got %s", config.InflationRate)
	}
	return nil
}

// validateAssets rejects malformed asset records eagerly.
func (pe *ProjectionEngine) validateAssets(assets []domain.AssetRecord) error {
	for i := range assets {
		a := &assets[i]
		if a.Loan != nil && a.Loan.TermMonths <= 0 {
			return inputErrorf("asset %s: loan term must be positive, got %d months", a.ID, a.Loan.TermMonths)
		}
		if g := a.Growth; g != nil {
			for _, rate := range []decimal.Decimal{g.Low, g.Medium, g.High, g.Custom} {
				if rate.LessThanOrEqual(decimal.NewFromInt(-1)) {
					return inputErrorf("asset %s: growth rate must be above -100%%, got %s", a.ID, rate)
				}
			}
		}
	}
	return nil
}

// filterAssets applies the enabled-set and visibility filters. An empty
// enabled set legitimately selects nothing.
func (pe *ProjectionEngine) filterAssets(assets []domain.AssetRecord, config *domain.ProjectionConfig) []*domain.AssetRecord {
	selected := make([]*domain.AssetRecord, 0, len(assets))
	for i := range assets {
		a := &assets[i]
		if a.Hidden && !config.IncludeHiddenAssets {
			continue
		}
		if a.IsLiabilityRecord() && config.ExcludeLiabilities {
			continue
		}
		if !config.ClassEnabled(a.AssetClass) || !config.HoldingEnabled(a.HoldingType) {
			continue
		}
		selected = append(selected, a)
	}
	return selected
}

// offsetBalances maps loan asset IDs to their linked offset account's
// current balance. Hidden or missing offset accounts contribute nothing.
func (pe *ProjectionEngine) offsetBalances(assets []domain.AssetRecord, selected []*domain.AssetRecord, config *domain.ProjectionConfig) map[string]decimal.Decimal {
	byID := make(map[string]*domain.AssetRecord, len(assets))
	for i := range assets {
		a := &assets[i]
		if a.Hidden && !config.IncludeHiddenAssets {
			continue
		}
		byID[a.ID] = a
	}
	out := make(map[string]decimal.Decimal)
	for _, a := range selected {
		if a.Loan == nil || a.Loan.OffsetAccountID == "" {
			continue
		}
		offset, ok := byID[a.Loan.OffsetAccountID]
		if !ok {
			pe.Logger.Warnf("loan %s references unknown offset account %s", a.ID, a.Loan.OffsetAccountID)
			continue
		}
		out[a.ID] = offset.CurrentValue
	}
	return out
}

// Generate produces the full projection: filter, per-asset projection,
// aggregation, tax, breakdowns. Idempotent and side-effect free.
func (pe *ProjectionEngine) Generate(assets []domain.AssetRecord, config *domain.ProjectionConfig, ruleSets domain.TaxRuleSets) (*domain.ProjectionResult, error) {
	if err := pe.validateConfig(config); err != nil {
		return nil, err
	}
	if err := pe.validateAssets(assets); err != nil {
		return nil, err
	}

	periods := config.HorizonYears
	result := domain.NewProjectionResult(config.Scenario, periods+1)
	base := pe.Now().UTC()
	for t := 0; t <= periods; t++ {
		result.Dates[t] = yearStart(base, t)
	}

	selected := pe.filterAssets(assets, config)
	if len(selected) == 0 {
		if len(assets) > 0 {
			pe.Logger.Warnf("enabled-set filter selected none of %d assets; returning zero projection", len(assets))
		}
		return result, nil
	}

	offsets := pe.offsetBalances(assets, selected, config)

	projections := make([]*AssetProjection, 0, len(selected))
	for _, a := range selected {
		ap, err := pe.Projector.Project(a, config, periods, offsets[a.ID])
		if err != nil {
			return nil, err
		}
		projections = append(projections, ap)
	}

	pe.aggregate(result, projections, periods)
	pe.loanDetails(result, selected, offsets)

	if config.CalculateAfterTax {
		if err := pe.applyTax(result, projections, config, ruleSets, periods); err != nil {
			return nil, err
		}
	}

	for t := 0; t <= periods; t++ {
		cf := &result.Cashflow[t]
		cf.Net = cf.Income.Sub(cf.Expenses).Sub(cf.Tax)
	}

	if config.InflationAdjusted {
		pe.deflate(result, config.InflationRate)
		result.InflationAdjusted = true
	}

	pe.Logger.Debugf("projected %d assets over %d years (scenario %s)", len(selected), periods, config.Scenario)
	return result, nil
}

// aggregate folds per-asset series into totals and breakdowns. Net worth
// at each period is asset values minus liability balances.
func (pe *ProjectionEngine) aggregate(result *domain.ProjectionResult, projections []*AssetProjection, periods int) {
	for _, ap := range projections {
		class := ap.Asset.AssetClass
		holding := ap.Asset.HoldingType
		if _, ok := result.ByAssetClass[class]; !ok {
			result.ByAssetClass[class] = zeroSeries(periods + 1)
		}
		if _, ok := result.ByHoldingType[holding]; !ok {
			result.ByHoldingType[holding] = zeroSeries(periods + 1)
		}
		for t := 0; t <= periods; t++ {
			contribution := ap.Values[t]
			if ap.IsLiability {
				contribution = contribution.Neg()
			}
			result.NetWorth[t] = result.NetWorth[t].Add(contribution)
			result.ByAssetClass[class][t] = result.ByAssetClass[class][t].Add(contribution)
			result.ByHoldingType[holding][t] = result.ByHoldingType[holding][t].Add(contribution)

			cf := &result.Cashflow[t]
			cf.Income = cf.Income.Add(ap.Income[t])
			cf.Expenses = cf.Expenses.Add(ap.Expenses[t])
		}
	}
}

// loanDetails reports period-zero amortization facts per liability,
// including what the linked offset saves.
func (pe *ProjectionEngine) loanDetails(result *domain.ProjectionResult, selected []*domain.AssetRecord, offsets map[string]decimal.Decimal) {
	for _, a := range selected {
		if a.Loan == nil {
			continue
		}
		rate, usedFallback := pe.Amortizer.ResolveRate(a.Loan)
		payment, err := pe.Amortizer.PeriodicPayment(a.Loan.Principal, rate, a.Loan.TermMonths, a.Loan.PaymentFrequency)
		if err != nil {
			pe.Logger.Warnf("loan %s: %v", a.ID, err)
			continue
		}
		balance := a.Loan.Principal
		if !a.CurrentValue.IsZero() {
			balance = a.CurrentValue.Abs()
		}
		offset := offsets[a.ID]
		result.Loans = append(result.Loans, domain.LoanDetail{
			AssetID:          a.ID,
			PeriodicPayment:  payment,
			AnnualInterest:   pe.Amortizer.AnnualInterest(balance, offset, rate),
			OffsetBalance:    offset,
			InterestSaved:    pe.Amortizer.InterestSaved(balance, offset, rate),
			UsedFallbackRate: usedFallback,
		})
	}
}

// applyTax groups each period's assessable income by holding type, runs
// the tax engine per (country, holding type) group, and charges the
// result against that period's cashflow. Tax always applies to nominal
// income.
func (pe *ProjectionEngine) applyTax(result *domain.ProjectionResult, projections []*AssetProjection, config *domain.ProjectionConfig, ruleSets domain.TaxRuleSets, periods int) error {
	taxEngine := NewTaxEngine(ruleSets)

	for t := 1; t <= periods; t++ {
		groups := make(map[domain.HoldingType]*TaxAssessment)
		for _, ap := range projections {
			income := ap.Income[t]
			franked := ap.FrankedIncome[t]
			if income.IsZero() && franked.IsZero() {
				continue
			}
			assessment, ok := groups[ap.Asset.HoldingType]
			if !ok {
				assessment = &TaxAssessment{}
				groups[ap.Asset.HoldingType] = assessment
			}
			assessment.OrdinaryIncome = assessment.OrdinaryIncome.Add(income.Sub(franked))
			assessment.FrankedDividends = assessment.FrankedDividends.Add(franked)
		}

		for holding, assessment := range groups {
			comp, err := taxEngine.Assess(*assessment, config.Country, holding)
			if err != nil {
				return err
			}
			result.Cashflow[t].Tax = result.Cashflow[t].Tax.Add(comp.TaxPayable)
			result.Taxes[t] = append(result.Taxes[t], domain.TaxDetail{
				HoldingType:      holding,
				AssessableIncome: comp.AssessableIncome,
				TaxPayable:       comp.TaxPayable,
				EffectiveRate:    comp.EffectiveRate,
				MarginalRate:     comp.MarginalRate,
			})
		}
	}
	return nil
}

// deflate converts all surfaced series to real terms.
func (pe *ProjectionEngine) deflate(result *domain.ProjectionResult, inflation decimal.Decimal) {
	result.NetWorth = DeflateSeries(result.NetWorth, inflation)
	for class, series := range result.ByAssetClass {
		result.ByAssetClass[class] = DeflateSeries(series, inflation)
	}
	for holding, series := range result.ByHoldingType {
		result.ByHoldingType[holding] = DeflateSeries(series, inflation)
	}
	deflator := decimalOne
	factor := decimalOne.Add(inflation)
	for t := range result.Cashflow {
		if t > 0 {
			deflator = deflator.Mul(factor)
		}
		cf := &result.Cashflow[t]
		cf.Income = cf.Income.Div(deflator)
		cf.Expenses = cf.Expenses.Div(deflator)
		cf.Tax = cf.Tax.Div(deflator)
		cf.Net = cf.Net.Div(deflator)
	}
}

func zeroSeries(n int) []decimal.Decimal {
	s := make([]decimal.Decimal, n)
	for i := range s {
		s[i] = decimal.Zero
	}
	return s
}
