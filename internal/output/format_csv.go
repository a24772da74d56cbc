package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/wealthproj/projection-engine/internal/domain"
)

// GenerateCSVReport writes the period series as CSV: one row per
// projected period with totals and per-class breakdown columns.
func (rg *ReportGenerator) GenerateCSVReport(w io.Writer, result *domain.ProjectionResult) error {
	writer := csv.NewWriter(w)

	classes := make([]domain.AssetClass, 0, len(result.ByAssetClass))
	for class := range result.ByAssetClass {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	header := []string{"Year", "Net Worth", "Income", "Expenses", "Tax", "Net Cashflow"}
	for _, class := range classes {
		header = append(header, string(class))
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for t := 0; t < result.Periods(); t++ {
		cf := result.Cashflow[t]
		row := []string{
			fmt.Sprintf("%d", result.Dates[t].Year()),
			result.NetWorth[t].StringFixed(2),
			cf.Income.StringFixed(2),
			cf.Expenses.StringFixed(2),
			cf.Tax.StringFixed(2),
			cf.Net.StringFixed(2),
		}
		for _, class := range classes {
			row = append(row, result.ByAssetClass[class][t].StringFixed(2))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
