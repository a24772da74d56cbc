package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is one step of a progressive income tax schedule. Lower is
// inclusive, Upper exclusive; a nil Upper marks the open-ended top
// bracket. BaseTax is the cumulative tax owed at Lower.
type TaxBracket struct {
	Lower        decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper        *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	BaseTax      decimal.Decimal  `yaml:"baseTax" json:"baseTax"`
	MarginalRate decimal.Decimal  `yaml:"marginalRate" json:"marginalRate"`
}

// Contains reports whether income falls in [Lower, Upper).
func (b TaxBracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.Lower) {
		return false
	}
	if b.Upper == nil {
		return true
	}
	return income.LessThan(*b.Upper)
}

// LevyRule is a flat-rate levy applied independently of the bracket
// schedule (e.g. a healthcare levy above a low-income threshold).
type LevyRule struct {
	Name      string          `yaml:"name" json:"name"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
	Threshold decimal.Decimal `yaml:"threshold,omitempty" json:"threshold,omitempty"`

	// PhaseInRate, when positive, tapers the levy in between Threshold
	// and the point where the full rate applies, so a dollar of income
	// over the threshold does not trigger the full levy at once.
	PhaseInRate decimal.Decimal `yaml:"phaseInRate,omitempty" json:"phaseInRate,omitempty"`
}

// OffsetRule is a tax credit phased against income (e.g. a low-income
// offset). MaxAmount applies up to PhaseOutStart, then reduces by
// PhaseOutRate per dollar until exhausted.
type OffsetRule struct {
	Name          string          `yaml:"name" json:"name"`
	MaxAmount     decimal.Decimal `yaml:"maxAmount" json:"maxAmount"`
	PhaseOutStart decimal.Decimal `yaml:"phaseOutStart" json:"phaseOutStart"`
	PhaseOutRate  decimal.Decimal `yaml:"phaseOutRate" json:"phaseOutRate"`
}

// CapitalGainsRules controls discount treatment of realized gains.
type CapitalGainsRules struct {
	// DiscountRate is the fraction of the gain excluded when the holding
	// period threshold is met (0.5 = 50% discount).
	DiscountRate decimal.Decimal `yaml:"discountRate" json:"discountRate"`

	// MinHoldingMonths is the holding period required for the discount.
	MinHoldingMonths int `yaml:"minHoldingMonths" json:"minHoldingMonths"`
}

// ImputationRules controls dividend imputation: franked dividends are
// grossed up by the company tax already paid and the same amount is
// credited against tax payable.
type ImputationRules struct {
	CompanyTaxRate    decimal.Decimal `yaml:"companyTaxRate" json:"companyTaxRate"`
	CreditsRefundable bool            `yaml:"creditsRefundable" json:"creditsRefundable"`
}

// TaxRuleSet is the administrator-configured tax treatment for one
// (country, holding type) pair. Either Brackets or FlatRate drives income
// tax, selected by holding-type dispatch in the tax engine.
type TaxRuleSet struct {
	Country     string      `yaml:"country" json:"country"`
	HoldingType HoldingType `yaml:"holdingType" json:"holdingType"`

	Brackets []TaxBracket `yaml:"brackets,omitempty" json:"brackets,omitempty"`

	// FlatRate replaces the bracket schedule for flat-taxed holding
	// types (superannuation earnings tax).
	FlatRate *decimal.Decimal `yaml:"flatRate,omitempty" json:"flatRate,omitempty"`

	Levies  []LevyRule   `yaml:"levies,omitempty" json:"levies,omitempty"`
	Offsets []OffsetRule `yaml:"offsets,omitempty" json:"offsets,omitempty"`

	CapitalGains CapitalGainsRules `yaml:"capitalGains" json:"capitalGains"`
	Imputation   ImputationRules   `yaml:"imputation" json:"imputation"`
}

// UsesFlatRate reports whether this rule set taxes income at a flat rate
// instead of walking brackets.
func (rs *TaxRuleSet) UsesFlatRate() bool {
	return rs.FlatRate != nil
}

// Validate checks bracket contiguity and coverage: brackets must be
// sorted ascending, start at zero, leave no gaps, and end open-ended.
func (rs *TaxRuleSet) Validate() error {
	if rs.UsesFlatRate() {
		if rs.FlatRate.IsNegative() {
			return fmt.Errorf("flat rate must be non-negative, got %s", rs.FlatRate)
		}
		return nil
	}
	if len(rs.Brackets) == 0 {
		return fmt.Errorf("rule set %s/%s has no brackets and no flat rate", rs.Country, rs.HoldingType)
	}
	if !rs.Brackets[0].Lower.IsZero() {
		return fmt.Errorf("first bracket must start at 0, got %s", rs.Brackets[0].Lower)
	}
	for i, b := range rs.Brackets {
		if b.MarginalRate.IsNegative() {
			return fmt.Errorf("bracket %d has negative marginal rate %s", i, b.MarginalRate)
		}
		last := i == len(rs.Brackets)-1
		if last {
			if b.Upper != nil {
				return fmt.Errorf("final bracket must be open-ended")
			}
			continue
		}
		if b.Upper == nil {
			return fmt.Errorf("bracket %d is open-ended but not last", i)
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return fmt.Errorf("bracket %d upper %s not above lower %s", i, b.Upper, b.Lower)
		}
		next := rs.Brackets[i+1]
		if !next.Lower.Equal(*b.Upper) {
			return fmt.Errorf("gap between bracket %d upper %s and bracket %d lower %s", i, b.Upper, i+1, next.Lower)
		}
	}
	return nil
}

// RuleSetKey identifies a rule set lookup.
type RuleSetKey struct {
	Country     string
	HoldingType HoldingType
}

// TaxRuleSets indexes rule sets for the tax engine.
type TaxRuleSets map[RuleSetKey]*TaxRuleSet

// NewTaxRuleSets builds the index from a flat list, validating each rule
// set and rejecting duplicates.
func NewTaxRuleSets(list []TaxRuleSet) (TaxRuleSets, error) {
	out := make(TaxRuleSets, len(list))
	for i := range list {
		rs := &list[i]
		if err := rs.Validate(); err != nil {
			return nil, fmt.Errorf("rule set %s/%s: %w", rs.Country, rs.HoldingType, err)
		}
		key := RuleSetKey{Country: rs.Country, HoldingType: rs.HoldingType}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate rule set for %s/%s", rs.Country, rs.HoldingType)
		}
		out[key] = rs
	}
	return out, nil
}

// Lookup returns the rule set for a (country, holding type) pair.
func (ts TaxRuleSets) Lookup(country string, ht HoldingType) (*TaxRuleSet, bool) {
	rs, ok := ts[RuleSetKey{Country: country, HoldingType: ht}]
	return rs, ok
}
