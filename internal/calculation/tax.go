package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/wealthproj/projection-engine/internal/domain"
)

// BracketContribution is one bracket's share of a tax computation.
type BracketContribution struct {
	Lower        decimal.Decimal  `json:"lower"`
	Upper        *decimal.Decimal `json:"upper,omitempty"`
	MarginalRate decimal.Decimal  `json:"marginalRate"`
	TaxedAmount  decimal.Decimal  `json:"taxedAmount"`
	Tax          decimal.Decimal  `json:"tax"`
}

// TaxComputation is the engine's answer for one assessment.
type TaxComputation struct {
	AssessableIncome decimal.Decimal       `json:"assessableIncome"`
	BaseTax          decimal.Decimal       `json:"baseTax"`
	Levies           decimal.Decimal       `json:"levies"`
	Offsets          decimal.Decimal       `json:"offsets"`
	ImputationCredit decimal.Decimal       `json:"imputationCredit"`
	TaxPayable       decimal.Decimal       `json:"taxPayable"`
	EffectiveRate    decimal.Decimal       `json:"effectiveRate"`
	MarginalRate     decimal.Decimal       `json:"marginalRate"`
	Brackets         []BracketContribution `json:"brackets,omitempty"`
}

// CapitalGainEvent is one realized disposal in the assessment year.
type CapitalGainEvent struct {
	Proceeds  decimal.Decimal
	CostBasis decimal.Decimal

	// DiscountEligible is set when the asset was held beyond the rule
	// set's minimum holding period.
	DiscountEligible bool
}

// TaxAssessment gathers a holding-type group's taxable events for one
// period.
type TaxAssessment struct {
	OrdinaryIncome decimal.Decimal

	// FrankedDividends is the cash amount of dividends carrying
	// imputation credits, not yet grossed up. Unfranked dividends belong
	// in OrdinaryIncome.
	FrankedDividends decimal.Decimal

	CapitalGains  []CapitalGainEvent
	CarriedLosses decimal.Decimal
}

// TaxEngine computes tax payable under administrator-configured rule
// sets, dispatching on holding type between bracketed and flat-rate
// treatment.
type TaxEngine struct {
	RuleSets domain.TaxRuleSets
}

// NewTaxEngine creates a tax engine over the given rule sets.
func NewTaxEngine(ruleSets domain.TaxRuleSets) *TaxEngine {
	return &TaxEngine{RuleSets: ruleSets}
}

// ComputeTax computes tax payable on assessable income under one rule
// set: bracket (or flat-rate) tax, plus levies, minus phased offsets,
// floored at zero.
func (te *TaxEngine) ComputeTax(assessable decimal.Decimal, rs *domain.TaxRuleSet) (TaxComputation, error) {
	if rs == nil {
		return TaxComputation{}, &MissingRuleSetError{}
	}
	if assessable.IsNegative() {
		assessable = decimal.Zero
	}

	comp := TaxComputation{AssessableIncome: assessable}

	if rs.UsesFlatRate() {
		comp.BaseTax = assessable.Mul(*rs.FlatRate)
		comp.MarginalRate = *rs.FlatRate
	} else {
		comp.BaseTax, comp.MarginalRate, comp.Brackets = te.bracketTax(assessable, rs.Brackets)
	}

	comp.Levies = te.computeLevies(assessable, rs.Levies)
	comp.Offsets = te.computeOffsets(assessable, rs.Offsets)

	payable := comp.BaseTax.Add(comp.Levies).Sub(comp.Offsets)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	comp.TaxPayable = payable

	if assessable.GreaterThan(decimalZero) {
		comp.EffectiveRate = payable.Div(assessable)
	}
	return comp, nil
}

// bracketTax walks the bracket schedule: locate the containing bracket
// and charge its base tax plus the marginal rate over the lower bound.
// The per-bracket breakdown reconstructs how that total accumulates.
func (te *TaxEngine) bracketTax(income decimal.Decimal, brackets []domain.TaxBracket) (decimal.Decimal, decimal.Decimal, []BracketContribution) {
	tax := decimal.Zero
	marginal := decimal.Zero
	var breakdown []BracketContribution

	for _, b := range brackets {
		if income.LessThan(b.Lower) {
			break
		}
		var taxed decimal.Decimal
		if b.Upper != nil && income.GreaterThanOrEqual(*b.Upper) {
			taxed = b.Upper.Sub(b.Lower)
		} else {
			taxed = income.Sub(b.Lower)
			marginal = b.MarginalRate
			tax = b.BaseTax.Add(taxed.Mul(b.MarginalRate))
		}
		breakdown = append(breakdown, BracketContribution{
			Lower:        b.Lower,
			Upper:        b.Upper,
			MarginalRate: b.MarginalRate,
			TaxedAmount:  taxed,
			Tax:          taxed.Mul(b.MarginalRate),
		})
	}
	return tax, marginal, breakdown
}

// computeLevies sums each levy independently against its own threshold.
// A positive phase-in rate tapers the levy just above the threshold
// instead of charging the full rate on the first dollar over.
func (te *TaxEngine) computeLevies(income decimal.Decimal, levies []domain.LevyRule) decimal.Decimal {
	total := decimal.Zero
	for _, levy := range levies {
		if income.LessThanOrEqual(levy.Threshold) {
			continue
		}
		full := income.Mul(levy.Rate)
		if levy.PhaseInRate.GreaterThan(decimalZero) {
			phased := income.Sub(levy.Threshold).Mul(levy.PhaseInRate)
			if phased.LessThan(full) {
				full = phased
			}
		}
		total = total.Add(full)
	}
	return total
}

// computeOffsets sums tax credits after phase-out: full amount up to the
// phase-out start, then reduced per dollar of income until exhausted.
func (te *TaxEngine) computeOffsets(income decimal.Decimal, offsets []domain.OffsetRule) decimal.Decimal {
	total := decimal.Zero
	for _, offset := range offsets {
		amount := offset.MaxAmount
		if income.GreaterThan(offset.PhaseOutStart) {
			reduction := income.Sub(offset.PhaseOutStart).Mul(offset.PhaseOutRate)
			amount = amount.Sub(reduction)
		}
		if amount.GreaterThan(decimalZero) {
			total = total.Add(amount)
		}
	}
	return total
}

// NetCapitalGain nets the period's disposals against carried-forward
// losses and applies the holding-period discount to eligible gains. The
// result is the amount added to assessable income; a net loss returns
// zero (losses carry forward outside the engine).
func (te *TaxEngine) NetCapitalGain(events []CapitalGainEvent, carriedLosses decimal.Decimal, rs *domain.TaxRuleSet) decimal.Decimal {
	grossEligible := decimal.Zero
	grossOther := decimal.Zero
	losses := carriedLosses
	for _, ev := range events {
		gain := ev.Proceeds.Sub(ev.CostBasis)
		if gain.IsNegative() {
			losses = losses.Add(gain.Neg())
			continue
		}
		if ev.DiscountEligible {
			grossEligible = grossEligible.Add(gain)
		} else {
			grossOther = grossOther.Add(gain)
		}
	}

	// Losses are applied before the discount, against non-discountable
	// gains first to preserve the discount benefit.
	if losses.GreaterThan(decimalZero) {
		applied := decimal.Min(losses, grossOther)
		grossOther = grossOther.Sub(applied)
		losses = losses.Sub(applied)
	}
	if losses.GreaterThan(decimalZero) {
		applied := decimal.Min(losses, grossEligible)
		grossEligible = grossEligible.Sub(applied)
	}

	discounted := grossEligible.Mul(decimalOne.Sub(rs.CapitalGains.DiscountRate))
	return discounted.Add(grossOther)
}

// GrossUpFrankedDividends converts a cash franked dividend into its
// grossed-up assessable amount and the attached imputation credit:
// grossUp = cash / (1 - companyRate), credit = grossUp - cash.
func (te *TaxEngine) GrossUpFrankedDividends(cash decimal.Decimal, rs *domain.TaxRuleSet) (grossedUp, credit decimal.Decimal) {
	if cash.LessThanOrEqual(decimalZero) || rs.Imputation.CompanyTaxRate.LessThanOrEqual(decimalZero) {
		return cash, decimal.Zero
	}
	grossedUp = cash.Div(decimalOne.Sub(rs.Imputation.CompanyTaxRate))
	credit = grossedUp.Sub(cash)
	return grossedUp, credit
}

// Assess runs the full pipeline for one (country, holding type) group:
// capital-gains netting and discount, dividend gross-up, bracket or
// flat-rate tax, levies, offsets, imputation credits. A missing rule set
// is a configuration error, never zero tax.
func (te *TaxEngine) Assess(assessment TaxAssessment, country string, holdingType domain.HoldingType) (TaxComputation, error) {
	rs, ok := te.RuleSets.Lookup(country, holdingType)
	if !ok {
		return TaxComputation{}, &MissingRuleSetError{Country: country, HoldingType: holdingType}
	}

	assessable := assessment.OrdinaryIncome
	if assessable.IsNegative() {
		assessable = decimal.Zero
	}

	assessable = assessable.Add(te.NetCapitalGain(assessment.CapitalGains, assessment.CarriedLosses, rs))

	grossedUp, credit := te.GrossUpFrankedDividends(assessment.FrankedDividends, rs)
	assessable = assessable.Add(grossedUp)

	comp, err := te.ComputeTax(assessable, rs)
	if err != nil {
		return TaxComputation{}, err
	}

	if credit.GreaterThan(decimalZero) {
		comp.ImputationCredit = credit
		payable := comp.TaxPayable.Sub(credit)
		if payable.IsNegative() && !rs.Imputation.CreditsRefundable {
			payable = decimal.Zero
		}
		comp.TaxPayable = payable
		if comp.AssessableIncome.GreaterThan(decimalZero) {
			comp.EffectiveRate = comp.TaxPayable.Div(comp.AssessableIncome)
		}
	}
	return comp, nil
}
