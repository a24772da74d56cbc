package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/wealthproj/projection-engine/internal/domain"
)

// AmortizationEntry is one period of an amortization schedule.
type AmortizationEntry struct {
	Period           int
	Payment          decimal.Decimal
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	RemainingBalance decimal.Decimal
}

// AmortizationCalculator computes amortizing-loan payments and schedules.
// A linked offset account reduces the interest-bearing balance without
// reducing the loan's nominal principal.
type AmortizationCalculator struct {
	Normalizer *FrequencyNormalizer
	Defaults   domain.EngineDefaults
}

// NewAmortizationCalculator creates a calculator sharing the engine's
// normalizer and defaults.
func NewAmortizationCalculator(normalizer *FrequencyNormalizer, defaults domain.EngineDefaults) *AmortizationCalculator {
	return &AmortizationCalculator{Normalizer: normalizer, Defaults: defaults}
}

// paymentsPerYear resolves a loan's payment frequency via the canonical
// default.
func (ac *AmortizationCalculator) paymentsPerYear(f domain.Frequency) decimal.Decimal {
	return ac.Normalizer.ToAnnual(decimalOne, f)
}

// ResolveRate returns a loan's annual rate, substituting the configured
// fallback when the record carries none so interest-expense reporting
// stays populated. The second return reports whether the fallback was
// used.
func (ac *AmortizationCalculator) ResolveRate(loan *domain.LoanTerms) (decimal.Decimal, bool) {
	if loan.AnnualRate != nil {
		return *loan.AnnualRate, false
	}
	return ac.Defaults.FallbackLoanRate, true
}

// PeriodicPayment computes the standard amortizing payment
// P*r/(1-(1+r)^-n) for the loan's payment frequency. A zero rate
// degenerates to principal/n.
func (ac *AmortizationCalculator) PeriodicPayment(principal, annualRate decimal.Decimal, termMonths int, paymentFreq domain.Frequency) (decimal.Decimal, error) {
	if termMonths <= 0 {
		return decimal.Zero, inputErrorf("loan term must be positive, got %d months", termMonths)
	}
	if principal.IsNegative() {
		return decimal.Zero, inputErrorf("loan principal must be non-negative, got %s", principal)
	}

	perYear := ac.paymentsPerYear(paymentFreq)
	totalPeriods := perYear.Mul(decimal.NewFromInt(int64(termMonths))).Div(decimalTwelve).Round(0)
	if totalPeriods.LessThanOrEqual(decimalZero) {
		totalPeriods = decimalOne
	}
	n := totalPeriods.IntPart()

	if annualRate.IsZero() {
		return principal.Div(totalPeriods), nil
	}

	r := annualRate.Div(perYear)
	// factor = (1+r)^n
	factor := decimalOne.Add(r).Pow(decimal.NewFromInt(n))
	payment := principal.Mul(r).Mul(factor).Div(factor.Sub(decimalOne))
	return payment, nil
}

// InterestForPeriod returns one period's interest on a balance:
// balance * annualRate / periodsPerYear. Non-positive balances accrue
// nothing.
func (ac *AmortizationCalculator) InterestForPeriod(balance, annualRate decimal.Decimal, periodsPerYear int64) decimal.Decimal {
	if balance.LessThanOrEqual(decimalZero) || periodsPerYear <= 0 {
		return decimal.Zero
	}
	return balance.Mul(annualRate).Div(decimal.NewFromInt(periodsPerYear))
}

// PrincipalForPeriod splits a payment into its principal component.
func (ac *AmortizationCalculator) PrincipalForPeriod(payment, interest decimal.Decimal) decimal.Decimal {
	return payment.Sub(interest)
}

// EffectiveBalance applies an offset account: interest accrues only on
// max(0, loanBalance - offsetBalance).
func (ac *AmortizationCalculator) EffectiveBalance(loanBalance, offsetBalance decimal.Decimal) decimal.Decimal {
	eff := loanBalance.Sub(offsetBalance)
	if eff.IsNegative() {
		return decimal.Zero
	}
	return eff
}

// Schedule generates the full amortization schedule for a loan. The
// offset balance, when non-zero, reduces interest each period; the
// surplus payment pays the loan down faster, so the schedule may finish
// before the nominal term.
func (ac *AmortizationCalculator) Schedule(loan *domain.LoanTerms, offsetBalance decimal.Decimal) ([]AmortizationEntry, error) {
	rate, _ := ac.ResolveRate(loan)
	payment, err := ac.PeriodicPayment(loan.Principal, rate, loan.TermMonths, loan.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	if loan.PaymentAmount != nil && loan.PaymentAmount.GreaterThan(decimalZero) {
		payment = *loan.PaymentAmount
	}

	perYear := ac.paymentsPerYear(loan.PaymentFrequency).IntPart()
	totalPeriods := int(ac.paymentsPerYear(loan.PaymentFrequency).Mul(decimal.NewFromInt(int64(loan.TermMonths))).Div(decimalTwelve).Round(0).IntPart())

	entries := make([]AmortizationEntry, 0, totalPeriods)
	balance := loan.Principal
	for period := 1; period <= totalPeriods && balance.GreaterThan(decimalZero); period++ {
		interest := ac.InterestForPeriod(ac.EffectiveBalance(balance, offsetBalance), rate, perYear)
		due := payment
		principalPart := ac.PrincipalForPeriod(due, interest)
		if principalPart.GreaterThan(balance) {
			// Final payment: settle the remaining balance exactly.
			principalPart = balance
			due = principalPart.Add(interest)
		}
		balance = balance.Sub(principalPart)
		entries = append(entries, AmortizationEntry{
			Period:           period,
			Payment:          due,
			Interest:         interest,
			Principal:        principalPart,
			RemainingBalance: balance,
		})
	}
	// Rounding can leave a residual below one cent on the final entry;
	// fold it into the last principal payment.
	if len(entries) == totalPeriods && balance.GreaterThan(decimalZero) {
		last := &entries[len(entries)-1]
		last.Principal = last.Principal.Add(balance)
		last.Payment = last.Payment.Add(balance)
		last.RemainingBalance = decimal.Zero
	}
	return entries, nil
}

// AnnualInterest estimates a year's interest expense on the current
// balance, after any offset reduction. Used for cashflow reporting.
func (ac *AmortizationCalculator) AnnualInterest(balance, offsetBalance, annualRate decimal.Decimal) decimal.Decimal {
	return ac.EffectiveBalance(balance, offsetBalance).Mul(annualRate)
}

// InterestSaved reports the annual interest a linked offset account
// avoids.
func (ac *AmortizationCalculator) InterestSaved(balance, offsetBalance, annualRate decimal.Decimal) decimal.Decimal {
	raw := balance.Mul(annualRate)
	if balance.LessThanOrEqual(decimalZero) {
		return decimal.Zero
	}
	return raw.Sub(ac.AnnualInterest(balance, offsetBalance, annualRate))
}
