package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthproj/projection-engine/internal/domain"
)

const validPlanYAML = `
metadata:
  name: sample household
  currency: AUD
defaults:
  defaultFrequency: monthly
  fallbackLoanRate: 0.05
  cashCompoundingPeriods: 12
assets:
  - id: home
    name: Family home
    assetClass: property
    holdingType: personal
    currentValue: 800000
    growth:
      low: 0.02
      medium: 0.05
      high: 0.08
    expenses:
      - category: rates
        amount: 600
        frequency: quarterly
  - id: savings
    name: Savings
    assetClass: cash
    holdingType: personal
    currentValue: 50000
    incomeYield: 0.03
  - id: mortgage
    name: Home loan
    assetClass: loan
    holdingType: personal
    isLiability: true
    loan:
      principal: 300000
      annualRate: 0.06
      termMonths: 360
      paymentFrequency: monthly
      offsetAccountId: savings
projection:
  horizonYears: 10
  scenario: medium
  inflationRate: 0.025
  includeIncome: true
  includeExpenses: true
  calculateAfterTax: true
  country: AU
  enabledAssetClasses: [property, cash, loan]
  enabledHoldingTypes: [personal]
taxRuleSets:
  - country: AU
    holdingType: personal
    brackets:
      - lower: 0
        upper: 18200
        baseTax: 0
        marginalRate: 0
      - lower: 18200
        upper: 45000
        baseTax: 0
        marginalRate: 0.16
      - lower: 45000
        baseTax: 4288
        marginalRate: 0.30
    capitalGains:
      discountRate: 0.5
      minHoldingMonths: 12
    imputation:
      companyTaxRate: 0.30
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_ValidPlan(t *testing.T) {
	parser := NewInputParser()

	plan, err := parser.LoadFromFile(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	assert.Equal(t, "sample household", plan.Metadata.Name)
	assert.Len(t, plan.Assets, 3)
	assert.Equal(t, domain.AssetClassProperty, plan.Assets[0].AssetClass)
	assert.Equal(t, 10, plan.Projection.HorizonYears)
	assert.Len(t, plan.TaxRuleSets, 1)

	require.NotNil(t, plan.Assets[2].Loan)
	assert.Equal(t, "savings", plan.Assets[2].Loan.OffsetAccountID)
	assert.Equal(t, 360, plan.Assets[2].Loan.TermMonths)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadFromFile("does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParse_MalformedYAML(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.Parse([]byte("assets: [not: closed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidatePlan_ZeroHorizon(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.LoadFromFile(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	plan.Projection.HorizonYears = 0
	err = parser.ValidatePlan(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "horizon must be positive")
}

func TestValidatePlan_UnknownScenario(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.LoadFromFile(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	plan.Projection.Scenario = "optimistic"
	err = parser.ValidatePlan(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown growth scenario")
}

func TestValidatePlan_UnknownAssetClass(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.LoadFromFile(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	plan.Assets[0].AssetClass = "crypto"
	err = parser.ValidatePlan(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown asset class")
}

func TestValidatePlan_NegativeLoanTerm(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.LoadFromFile(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	plan.Assets[2].Loan.TermMonths = -12
	err = parser.ValidatePlan(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loan term must be positive")
}

func TestValidatePlan_DanglingOffsetReference(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.LoadFromFile(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	plan.Assets[2].Loan.OffsetAccountID = "nope"
	err = parser.ValidatePlan(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidatePlan_DuplicateAssetIDs(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.LoadFromFile(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	plan.Assets[1].ID = "home"
	// Re-point the offset link so only the duplicate id fails.
	plan.Assets[2].Loan.OffsetAccountID = "home"
	err = parser.ValidatePlan(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate asset id")
}

func TestValidatePlan_CountryRequiredForAfterTax(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.LoadFromFile(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	plan.Projection.Country = ""
	err = parser.ValidatePlan(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "country is required")
}

func TestValidatePlan_BadBrackets(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.LoadFromFile(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	plan.TaxRuleSets[0].Brackets = plan.TaxRuleSets[0].Brackets[1:] // no longer starts at zero
	err = parser.ValidatePlan(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tax rule set validation failed")
}
