package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/pipeline"
	anthropicpkg "github.com/sells-group/takeoff-cli/pkg/anthropic"
)

var (
	estimateName     string
	estimateType     string
	estimateLocation string
	estimateCurrency string
	estimateArea     float64
	estimateFloors   int
	estimateJSON     bool
	estimateNoSave   bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <drawings...>",
	Short: "Estimate construction cost from a drawing set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		files, err := loadSourceFiles(args)
		if err != nil {
			return err
		}

		info := model.ProjectInfo{
			Name:     estimateName,
			Location: estimateLocation,
			Currency: estimateCurrency,
			AreaSqft: estimateArea,
			Floors:   estimateFloors,
		}
		if estimateType != "" {
			info.Type = model.NormalizeProjectType(estimateType)
		}

		p := pipeline.New(cfg, anthropicpkg.NewClient(cfg.Anthropic.Key))
		p.OnProgress(func(stage, detail string) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", stage, detail)
		})

		est, err := p.Run(ctx, files, info)
		if err != nil {
			return eris.Wrap(err, "estimate run")
		}

		if !estimateNoSave {
			st, err := initStore()
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.SaveRun(ctx, est); err != nil {
				return err
			}
			zap.L().Info("run saved", zap.String("id", est.ID))
		}

		if estimateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(est)
		}
		printEstimate(est)
		return nil
	},
}

// loadSourceFiles reads the drawing files and tags their media types.
func loadSourceFiles(paths []string) ([]model.SourceFile, error) {
	files := make([]model.SourceFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "read drawing %s", path)
		}
		files = append(files, model.SourceFile{
			Name:      filepath.Base(path),
			MediaType: mediaTypeFor(path),
			Data:      data,
		})
	}
	return files, nil
}

func mediaTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/pdf"
	}
}

// printEstimate renders the human-readable report.
func printEstimate(est *model.Estimate) {
	p := message.NewPrinter(language.English)
	cur := strings.ToUpper(est.Summary.Currency)

	fmt.Println()
	if est.Summary.ProjectName != "" {
		fmt.Printf("Project:    %s\n", est.Summary.ProjectName)
	}
	fmt.Printf("Type:       %s\n", est.Summary.ProjectType)
	if est.Summary.Location != "" {
		fmt.Printf("Location:   %s\n", est.Summary.Location)
	}
	if est.Summary.AreaSqft > 0 {
		p.Printf("Area:       %.0f sqft\n", est.Summary.AreaSqft)
	}
	fmt.Printf("Provenance: %s", est.Summary.Provenance)
	if est.Summary.FallbackReason != "" {
		fmt.Printf(" (%s)", est.Summary.FallbackReason)
	}
	fmt.Println()
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRADE\tSUBTOTAL")
	for _, t := range est.Trades {
		fmt.Fprintf(w, "%s\t%s\n", t.TradeName, p.Sprintf("%s %.2f", cur, t.Subtotal))
	}
	fmt.Fprintln(w, "\t")
	cb := est.CostBreakdown
	fmt.Fprintf(w, "Direct costs\t%s\n", p.Sprintf("%s %.2f", cur, cb.DirectCosts))
	fmt.Fprintf(w, "General conditions (%.1f%%)\t%s\n", cb.GeneralConditions.Percent, p.Sprintf("%s %.2f", cur, cb.GeneralConditions.Amount))
	fmt.Fprintf(w, "Overhead (%.1f%%)\t%s\n", cb.Overhead.Percent, p.Sprintf("%s %.2f", cur, cb.Overhead.Amount))
	fmt.Fprintf(w, "Profit (%.1f%%)\t%s\n", cb.Profit.Percent, p.Sprintf("%s %.2f", cur, cb.Profit.Amount))
	fmt.Fprintf(w, "Contingency (%.1f%%)\t%s\n", cb.Contingency.Percent, p.Sprintf("%s %.2f", cur, cb.Contingency.Amount))
	fmt.Fprintf(w, "Escalation (%.1f%%)\t%s\n", cb.Escalation.Percent, p.Sprintf("%s %.2f", cur, cb.Escalation.Amount))
	fmt.Fprintf(w, "TOTAL\t%s\n", p.Sprintf("%s %.2f", cur, cb.TotalWithMarkups))
	w.Flush()

	if est.Summary.AreaSqft > 0 {
		p.Printf("\nCost per sqft: %s %.2f\n", cur, est.CostPerArea())
	}

	if vr := est.ValidationReport; vr != nil {
		p.Printf("\nConfidence: %s (%.0f/100), %d checks, %d issues, %d auto-fixed\n",
			vr.Confidence.Level, vr.Confidence.Score, vr.ChecksRun, len(vr.Issues), vr.AutoFixes)
		for _, is := range vr.Issues {
			marker := " "
			if is.AutoFixed {
				marker = "*"
			}
			fmt.Printf("  [%s]%s %s\n", is.Severity, marker, is.Message)
		}
	}
}

func init() {
	estimateCmd.Flags().StringVar(&estimateName, "name", "", "project name")
	estimateCmd.Flags().StringVar(&estimateType, "type", "", "project type (warehouse, industrial, commercial, residential, mixed use)")
	estimateCmd.Flags().StringVar(&estimateLocation, "location", "", "project location, e.g. \"Dallas, TX\"")
	estimateCmd.Flags().StringVar(&estimateCurrency, "currency", "", "pricing currency (usd, inr); derived from location when empty")
	estimateCmd.Flags().Float64Var(&estimateArea, "area", 0, "floor area in sqft, used when the drawings do not state it")
	estimateCmd.Flags().IntVar(&estimateFloors, "floors", 0, "number of floors")
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false, "print the full estimate as JSON")
	estimateCmd.Flags().BoolVar(&estimateNoSave, "no-save", false, "do not record the run in the local store")
	rootCmd.AddCommand(estimateCmd)
}
