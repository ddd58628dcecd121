package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"investcharts/internal/scenario"
)

var (
	scenarioInvestment float64
	scenarioSavings    float64
	scenarioJSON       bool
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Split monthly savings into the four projection scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := scenario.Calculate(scenarioInvestment, scenarioSavings)
		return printScenario(cmd.OutOrStdout(), a, scenarioJSON)
	},
}

func init() {
	scenarioCmd.Flags().Float64Var(&scenarioInvestment, "investment", 0, "average monthly investment")
	scenarioCmd.Flags().Float64Var(&scenarioSavings, "savings", 0, "total monthly savings")
	scenarioCmd.Flags().BoolVar(&scenarioJSON, "json", false, "print amounts as JSON")
}

func printScenario(w io.Writer, a scenario.Amounts, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	l := a.Labels()
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n", l.Current, l.Plus20, l.Minus20, l.DepositsOnly)
	return err
}
