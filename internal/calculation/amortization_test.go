package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthproj/projection-engine/internal/domain"
)

func newAmortizer() *AmortizationCalculator {
	defaults := domain.NewEngineDefaults()
	return NewAmortizationCalculator(NewFrequencyNormalizer(defaults), defaults)
}

func TestPeriodicPayment_StandardMortgage(t *testing.T) {
	ac := newAmortizer()

	// 300,000 at 6% over 360 monthly payments.
	payment, err := ac.PeriodicPayment(decimal.NewFromInt(300000), decimal.NewFromFloat(0.06), 360, domain.FrequencyMonthly)
	require.NoError(t, err)

	expected := decimal.NewFromFloat(1798.65)
	diff := payment.Sub(expected).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)), "expected payment ~%s, got %s", expected, payment.StringFixed(2))
}

func TestPeriodicPayment_ZeroRate(t *testing.T) {
	ac := newAmortizer()

	payment, err := ac.PeriodicPayment(decimal.NewFromInt(12000), decimal.Zero, 12, domain.FrequencyMonthly)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(payment), "zero-rate loan should split evenly, got %s", payment)
}

func TestPeriodicPayment_InvalidTerm(t *testing.T) {
	ac := newAmortizer()

	_, err := ac.PeriodicPayment(decimal.NewFromInt(1000), decimal.NewFromFloat(0.05), 0, domain.FrequencyMonthly)
	assert.ErrorIs(t, err, ErrInvalidInput, "zero term should be rejected")

	_, err = ac.PeriodicPayment(decimal.NewFromInt(1000), decimal.NewFromFloat(0.05), -12, domain.FrequencyMonthly)
	assert.ErrorIs(t, err, ErrInvalidInput, "negative term should be rejected")
}

func TestInterestForPeriod(t *testing.T) {
	ac := newAmortizer()

	interest := ac.InterestForPeriod(decimal.NewFromInt(100000), decimal.NewFromFloat(0.06), 12)
	assert.True(t, decimal.NewFromInt(500).Equal(interest), "100k at 6%% monthly should accrue 500, got %s", interest)

	assert.True(t, ac.InterestForPeriod(decimal.NewFromInt(-50), decimal.NewFromFloat(0.06), 12).IsZero(), "negative balance accrues nothing")
	assert.True(t, ac.InterestForPeriod(decimal.NewFromInt(1000), decimal.NewFromFloat(0.06), 0).IsZero(), "zero periods per year accrues nothing")
}

func TestPrincipalForPeriod(t *testing.T) {
	ac := newAmortizer()

	principal := ac.PrincipalForPeriod(decimal.NewFromFloat(1798.65), decimal.NewFromInt(1500))
	assert.True(t, decimal.NewFromFloat(298.65).Equal(principal))
}

func TestEffectiveBalance_Offset(t *testing.T) {
	ac := newAmortizer()

	eff := ac.EffectiveBalance(decimal.NewFromInt(400000), decimal.NewFromInt(50000))
	assert.True(t, decimal.NewFromInt(350000).Equal(eff))

	// Offset larger than the loan floors at zero, never negative.
	eff = ac.EffectiveBalance(decimal.NewFromInt(30000), decimal.NewFromInt(50000))
	assert.True(t, eff.IsZero(), "offset above balance should floor at zero, got %s", eff)
}

func TestSchedule_FullyAmortizes(t *testing.T) {
	ac := newAmortizer()

	rate := decimal.NewFromFloat(0.06)
	loan := &domain.LoanTerms{
		Principal:        decimal.NewFromInt(300000),
		AnnualRate:       &rate,
		TermMonths:       360,
		PaymentFrequency: domain.FrequencyMonthly,
	}

	schedule, err := ac.Schedule(loan, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, schedule, 360, "30-year monthly loan should have 360 entries")

	totalPrincipal := decimal.Zero
	for _, entry := range schedule {
		totalPrincipal = totalPrincipal.Add(entry.Principal)
	}

	diff := totalPrincipal.Sub(loan.Principal).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)), "principal components should sum to the original principal, off by %s", diff)
	assert.True(t, schedule[359].RemainingBalance.IsZero(), "final balance should be exactly zero, got %s", schedule[359].RemainingBalance)
}

func TestSchedule_BalanceMonotonicallyDecreases(t *testing.T) {
	ac := newAmortizer()

	rate := decimal.NewFromFloat(0.045)
	loan := &domain.LoanTerms{
		Principal:        decimal.NewFromInt(500000),
		AnnualRate:       &rate,
		TermMonths:       300,
		PaymentFrequency: domain.FrequencyMonthly,
	}

	schedule, err := ac.Schedule(loan, decimal.Zero)
	require.NoError(t, err)

	prev := loan.Principal
	for _, entry := range schedule {
		assert.True(t, entry.RemainingBalance.LessThan(prev), "balance should strictly decrease at period %d", entry.Period)
		prev = entry.RemainingBalance
	}
}

func TestSchedule_OffsetShortensLoan(t *testing.T) {
	ac := newAmortizer()

	rate := decimal.NewFromFloat(0.06)
	loan := &domain.LoanTerms{
		Principal:        decimal.NewFromInt(300000),
		AnnualRate:       &rate,
		TermMonths:       360,
		PaymentFrequency: domain.FrequencyMonthly,
	}

	plain, err := ac.Schedule(loan, decimal.Zero)
	require.NoError(t, err)
	offset, err := ac.Schedule(loan, decimal.NewFromInt(60000))
	require.NoError(t, err)

	assert.Less(t, len(offset), len(plain), "an offset balance should pay the loan off early")
	assert.True(t, offset[0].Interest.LessThan(plain[0].Interest), "offset should reduce first-period interest")
}

func TestSchedule_QuarterlyFrequency(t *testing.T) {
	ac := newAmortizer()

	rate := decimal.NewFromFloat(0.08)
	loan := &domain.LoanTerms{
		Principal:        decimal.NewFromInt(100000),
		AnnualRate:       &rate,
		TermMonths:       120,
		PaymentFrequency: domain.FrequencyQuarterly,
	}

	schedule, err := ac.Schedule(loan, decimal.Zero)
	require.NoError(t, err)
	assert.Len(t, schedule, 40, "10-year quarterly loan should have 40 periods")
	assert.True(t, schedule[len(schedule)-1].RemainingBalance.IsZero())
}

func TestResolveRate_Fallback(t *testing.T) {
	ac := newAmortizer()

	rate, usedFallback := ac.ResolveRate(&domain.LoanTerms{Principal: decimal.NewFromInt(1000)})
	assert.True(t, usedFallback, "missing rate should use the fallback")
	assert.True(t, ac.Defaults.FallbackLoanRate.Equal(rate))

	explicit := decimal.NewFromFloat(0.039)
	rate, usedFallback = ac.ResolveRate(&domain.LoanTerms{Principal: decimal.NewFromInt(1000), AnnualRate: &explicit})
	assert.False(t, usedFallback)
	assert.True(t, explicit.Equal(rate))
}

func TestResolveRate_ConfigurableFallback(t *testing.T) {
	defaults := domain.NewEngineDefaults()
	defaults.FallbackLoanRate = decimal.NewFromFloat(0.07)
	ac := NewAmortizationCalculator(NewFrequencyNormalizer(defaults), defaults)

	rate, usedFallback := ac.ResolveRate(&domain.LoanTerms{Principal: decimal.NewFromInt(1000)})
	assert.True(t, usedFallback)
	assert.True(t, decimal.NewFromFloat(0.07).Equal(rate), "fallback rate should be configurable, got %s", rate)
}

func TestInterestSaved(t *testing.T) {
	ac := newAmortizer()

	saved := ac.InterestSaved(decimal.NewFromInt(400000), decimal.NewFromInt(50000), decimal.NewFromFloat(0.06))
	assert.True(t, decimal.NewFromInt(3000).Equal(saved), "50k offset at 6%% should save 3000/yr, got %s", saved)

	saved = ac.InterestSaved(decimal.NewFromInt(400000), decimal.Zero, decimal.NewFromFloat(0.06))
	assert.True(t, saved.IsZero(), "no offset saves nothing")
}
