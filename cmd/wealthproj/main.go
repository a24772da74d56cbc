package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/wealthproj/projection-engine/internal/calculation"
	"github.com/wealthproj/projection-engine/internal/config"
	"github.com/wealthproj/projection-engine/internal/domain"
	"github.com/wealthproj/projection-engine/internal/output"
)

// cliLogger implements calculation.Logger using the standard log package
type cliLogger struct{ verbose bool }

func (l cliLogger) Debugf(format string, args ...any) {
	if l.verbose {
		log.Printf("DEBUG: "+format, args...)
	}
}
func (l cliLogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (l cliLogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (l cliLogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "wealthproj",
	Short: "Wealth projection calculator",
	Long:  "Multi-year net worth, cashflow, and tax projections over an asset snapshot",
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "wealthproj %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [plan-file]",
		Short: "Run a projection from a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			scenario, _ := cmd.Flags().GetString("scenario")
			horizon, _ := cmd.Flags().GetInt("horizon")
			verbose, _ := cmd.Flags().GetBool("verbose")

			parser := config.NewInputParser()
			plan, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			if scenario != "" {
				plan.Projection.Scenario = domain.GrowthScenario(scenario)
			}
			if horizon > 0 {
				plan.Projection.HorizonYears = horizon
			}
			if err := parser.ValidatePlan(plan); err != nil {
				return err
			}

			ruleSets, err := domain.NewTaxRuleSets(plan.TaxRuleSets)
			if err != nil {
				return err
			}

			engine := calculation.NewProjectionEngineWithDefaults(plan.EngineDefaultsOrStock())
			engine.SetLogger(cliLogger{verbose: verbose})

			result, err := engine.Generate(plan.Assets, &plan.Projection, ruleSets)
			if err != nil {
				return err
			}

			generator := output.NewReportGenerator(plan.Metadata.Currency)
			return generator.GenerateReport(os.Stdout, result, format)
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format: console, json, csv")
	cmd.Flags().StringP("scenario", "s", "", "Override growth scenario: low, medium, high, custom")
	cmd.Flags().Int("horizon", 0, "Override projection horizon in years")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	return cmd
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [plan-file]",
		Short: "Run low, medium, and high scenarios side by side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			plan, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			ruleSets, err := domain.NewTaxRuleSets(plan.TaxRuleSets)
			if err != nil {
				return err
			}

			engine := calculation.NewProjectionEngineWithDefaults(plan.EngineDefaultsOrStock())
			generator := output.NewReportGenerator(plan.Metadata.Currency)

			fmt.Fprintf(os.Stdout, "%-10s %18s %18s %14s\n", "Scenario", "Current", "Final", "Total tax")
			for _, scenario := range []domain.GrowthScenario{domain.ScenarioLow, domain.ScenarioMedium, domain.ScenarioHigh} {
				cfg := plan.Projection
				cfg.Scenario = scenario
				result, err := engine.Generate(plan.Assets, &cfg, ruleSets)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%-10s %18s %18s %14s\n",
					scenario,
					generator.FormatCurrency(result.NetWorth[0]),
					generator.FormatCurrency(result.FinalNetWorth()),
					generator.FormatCurrency(result.TotalTax()),
				)
			}
			return nil
		},
	}
	return cmd
}

func main() {
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
