package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/takeoff-cli/internal/rates"
)

var ratesCurrency string

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Inspect the embedded rate database",
}

var ratesLookupCmd = &cobra.Command{
	Use:   "lookup <category> <subtype>",
	Short: "Look up one unit rate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, ok := rates.LookupRate(ratesCurrency, args[0], args[1])
		if !ok {
			return eris.Errorf("no %s rate for %s/%s", ratesCurrency, args[0], args[1])
		}
		fmt.Printf("%s\n%.2f per %s (plausible range %.2f-%.2f)\n", rec.Description, rec.Rate, rec.Unit, rec.Range[0], rec.Range[1])
		return nil
	},
}

var ratesCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List rate categories for a currency",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cats := rates.Categories(ratesCurrency)
		if len(cats) == 0 {
			return eris.Errorf("no rate table for currency %q", ratesCurrency)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Println(c)
		}
		return nil
	},
}

var ratesBenchmarkCmd = &cobra.Command{
	Use:   "benchmark <project-type>",
	Short: "Show the cost-per-area benchmark for a project type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, ok := rates.LookupBenchmark(ratesCurrency, args[0])
		if !ok {
			return eris.Errorf("no %s benchmark for project type %q", ratesCurrency, args[0])
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "%s\tlow %.0f\tmid %.0f\thigh %.0f\tper %s\n", b.Label, b.Low, b.Mid, b.High, b.Unit)
		return w.Flush()
	},
}

var ratesLocationCmd = &cobra.Command{
	Use:   "location <location>",
	Short: "Resolve a location to its cost factor and currency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lf := rates.LookupLocationFactor(args[0])
		fmt.Printf("factor %.2f, currency %s", lf.Factor, lf.Currency)
		if lf.Country != "" {
			fmt.Printf(", country %s", lf.Country)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	ratesCmd.PersistentFlags().StringVar(&ratesCurrency, "currency", "usd", "rate table currency")
	ratesCmd.AddCommand(ratesLookupCmd, ratesCategoriesCmd, ratesBenchmarkCmd, ratesLocationCmd)
	rootCmd.AddCommand(ratesCmd)
}
