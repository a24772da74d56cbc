package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/wealthproj/projection-engine/internal/domain"
)

// InputParser handles parsing of plan files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse parses and validates plan YAML.
func (ip *InputParser) Parse(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ValidatePlan validates the loaded plan eagerly so the engine never
// sees malformed numeric input.
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validateProjection(&plan.Projection); err != nil {
		return fmt.Errorf("projection validation failed: %w", err)
	}
	for i := range plan.Assets {
		if err := ip.validateAsset(&plan.Assets[i]); err != nil {
			return fmt.Errorf("asset %d (%s) validation failed: %w", i, plan.Assets[i].ID, err)
		}
	}
	seen := make(map[string]bool, len(plan.Assets))
	for i := range plan.Assets {
		if plan.Assets[i].ID == "" {
			return fmt.Errorf("asset %d has no id", i)
		}
		if seen[plan.Assets[i].ID] {
			return fmt.Errorf("duplicate asset id %s", plan.Assets[i].ID)
		}
		seen[plan.Assets[i].ID] = true
	}
	for i := range plan.Assets {
		loan := plan.Assets[i].Loan
		if loan == nil || loan.OffsetAccountID == "" {
			continue
		}
		if !seen[loan.OffsetAccountID] {
			return fmt.Errorf("asset %s links offset account %s which does not exist", plan.Assets[i].ID, loan.OffsetAccountID)
		}
	}
	if _, err := domain.NewTaxRuleSets(plan.TaxRuleSets); err != nil {
		return fmt.Errorf("tax rule set validation failed: %w", err)
	}
	if plan.Defaults != nil {
		if plan.Defaults.FallbackLoanRate.IsNegative() {
			return fmt.Errorf("fallback loan rate must be non-negative")
		}
		if plan.Defaults.CashCompoundingPeriods < 0 {
			return fmt.Errorf("cash compounding periods must be non-negative")
		}
	}
	return nil
}

// validateProjection checks the projection parameters.
func (ip *InputParser) validateProjection(config *domain.ProjectionConfig) error {
	if config.HorizonYears <= 0 {
		return fmt.Errorf("horizon must be positive, got %d years", config.HorizonYears)
	}
	switch config.Scenario {
	case domain.ScenarioLow, domain.ScenarioMedium, domain.ScenarioHigh, domain.ScenarioCustom:
	case "":
		return fmt.Errorf("growth scenario is required")
	default:
		return fmt.Errorf("unknown growth scenario %q", config.Scenario)
	}
	if config.InflationRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("inflation rate must be above -100%%")
	}
	if config.CalculateAfterTax && config.Country == "" {
		return fmt.Errorf("country is required when calculating after-tax")
	}
	return nil
}

// validateAsset checks a single asset record.
func (ip *InputParser) validateAsset(asset *domain.AssetRecord) error {
	switch asset.AssetClass {
	case domain.AssetClassProperty, domain.AssetClassShares, domain.AssetClassCash,
		domain.AssetClassLoan, domain.AssetClassRetirement, domain.AssetClassStockOption,
		domain.AssetClassEmployment:
	case "":
		return fmt.Errorf("asset class is required")
	default:
		return fmt.Errorf("unknown asset class %q", asset.AssetClass)
	}

	switch asset.HoldingType {
	case domain.HoldingPersonal, domain.HoldingSuperannuation, domain.HoldingTrust:
	case "":
		return fmt.Errorf("holding type is required")
	default:
		return fmt.Errorf("unknown holding type %q", asset.HoldingType)
	}

	if asset.FrankingPercent.IsNegative() || asset.FrankingPercent.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("franking percent must be within [0, 1], got %s", asset.FrankingPercent)
	}

	if loan := asset.Loan; loan != nil {
		if loan.TermMonths <= 0 {
			return fmt.Errorf("loan term must be positive, got %d months", loan.TermMonths)
		}
		if loan.Principal.IsNegative() {
			return fmt.Errorf("loan principal must be non-negative, got %s", loan.Principal)
		}
		if loan.AnnualRate != nil && loan.AnnualRate.IsNegative() {
			return fmt.Errorf("loan rate must be non-negative, got %s", loan.AnnualRate)
		}
	}

	for i, item := range asset.Expenses {
		if item.Amount.IsNegative() {
			return fmt.Errorf("expense %d (%s) must be non-negative, got %s", i, item.Category, item.Amount)
		}
	}
	return nil
}
