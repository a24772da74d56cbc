package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/wealthproj/projection-engine/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// ReportGenerator renders projection results in console, JSON, and CSV
// formats.
type ReportGenerator struct {
	// Currency is the ISO code used for console money rendering.
	Currency string
}

// NewReportGenerator creates a generator rendering the given currency
// (AUD when blank).
func NewReportGenerator(currency string) *ReportGenerator {
	if currency == "" {
		currency = money.AUD
	}
	return &ReportGenerator{Currency: currency}
}

// GenerateReport writes the result in the requested format.
func (rg *ReportGenerator) GenerateReport(w io.Writer, result *domain.ProjectionResult, format string) error {
	switch format {
	case "console":
		return rg.GenerateConsoleReport(w, result)
	case "json":
		return rg.GenerateJSONReport(w, result)
	case "csv":
		return rg.GenerateCSVReport(w, result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatCurrency renders a decimal amount as whole currency units.
func (rg *ReportGenerator) FormatCurrency(d decimal.Decimal) string {
	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, rg.Currency).Display()
}

func (rg *ReportGenerator) amountStyle(d decimal.Decimal) lipgloss.Style {
	if d.IsNegative() {
		return negativeStyle
	}
	return positiveStyle
}

// GenerateConsoleReport writes a styled summary: headline figures,
// year-by-year table, breakdowns, loans, and tax detail.
func (rg *ReportGenerator) GenerateConsoleReport(w io.Writer, result *domain.ProjectionResult) error {
	basis := "nominal"
	if result.InflationAdjusted {
		basis = "inflation-adjusted"
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("WEALTH PROJECTION: %s scenario (%s)", result.Scenario, basis)))

	periods := result.Periods()
	if periods == 0 {
		fmt.Fprintln(w, labelStyle.Render("empty projection"))
		return nil
	}

	fmt.Fprintln(w, sectionStyle.Render("Summary"))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Current net worth:"), rg.amountStyle(result.NetWorth[0]).Render(rg.FormatCurrency(result.NetWorth[0])))
	final := result.FinalNetWorth()
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("Net worth in %d years:", periods-1)), rg.amountStyle(final).Render(rg.FormatCurrency(final)))
	if tax := result.TotalTax(); !tax.IsZero() {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Total tax over horizon:"), rg.FormatCurrency(tax))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionStyle.Render("Year by year"))
	fmt.Fprintf(w, "  %-6s %16s %14s %14s %12s %14s\n", "Year", "Net worth", "Income", "Expenses", "Tax", "Net cashflow")
	for t := 0; t < periods; t++ {
		cf := result.Cashflow[t]
		fmt.Fprintf(w, "  %-6d %16s %14s %14s %12s %14s\n",
			result.Dates[t].Year(),
			result.NetWorth[t].StringFixed(0),
			cf.Income.StringFixed(0),
			cf.Expenses.StringFixed(0),
			cf.Tax.StringFixed(0),
			cf.Net.StringFixed(0),
		)
	}
	fmt.Fprintln(w)

	if len(result.ByAssetClass) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("By asset class (current / final)"))
		for class, series := range result.ByAssetClass {
			fmt.Fprintf(w, "  %-20s %16s %16s\n", class, series[0].StringFixed(0), series[len(series)-1].StringFixed(0))
		}
		fmt.Fprintln(w)
	}

	if len(result.ByHoldingType) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("By holding type (current / final)"))
		for holding, series := range result.ByHoldingType {
			fmt.Fprintf(w, "  %-20s %16s %16s\n", holding, series[0].StringFixed(0), series[len(series)-1].StringFixed(0))
		}
		fmt.Fprintln(w)
	}

	if len(result.Loans) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Loans"))
		for _, loan := range result.Loans {
			var notes []string
			if !loan.OffsetBalance.IsZero() {
				notes = append(notes, fmt.Sprintf("offset %s saves %s/yr", rg.FormatCurrency(loan.OffsetBalance), rg.FormatCurrency(loan.InterestSaved)))
			}
			if loan.UsedFallbackRate {
				notes = append(notes, "rate assumed (fallback)")
			}
			suffix := ""
			if len(notes) > 0 {
				suffix = "  " + labelStyle.Render(strings.Join(notes, ", "))
			}
			fmt.Fprintf(w, "  %-20s payment %s, interest %s/yr%s\n",
				loan.AssetID, rg.FormatCurrency(loan.PeriodicPayment), rg.FormatCurrency(loan.AnnualInterest), suffix)
		}
		fmt.Fprintln(w)
	}

	if detail, ok := result.Taxes[1]; ok && len(detail) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Tax (first projected year)"))
		for _, d := range detail {
			fmt.Fprintf(w, "  %-20s assessable %s, payable %s (effective %s%%, marginal %s%%)\n",
				d.HoldingType,
				rg.FormatCurrency(d.AssessableIncome),
				rg.FormatCurrency(d.TaxPayable),
				d.EffectiveRate.Mul(decimal.NewFromInt(100)).StringFixed(1),
				d.MarginalRate.Mul(decimal.NewFromInt(100)).StringFixed(1),
			)
		}
		fmt.Fprintln(w)
	}

	return nil
}
