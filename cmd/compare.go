package main

import (
	"context"
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

	"github.com/claimsight/compare-cli/internal/dataset"
	"github.com/claimsight/compare-cli/internal/engine"
	"github.com/claimsight/compare-cli/internal/model"
	"github.com/claimsight/compare-cli/internal/report"
)

var (
	compareTest      string
	compareGold      string
	compareOutput    string
	compareFormat    string
	compareFields    []string
	compareThreshold float64
	compareNoLower   bool
	compareNoStore   bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a TEST dataset against a GOLD dataset",
	Long: `Runs one field-level comparison and writes a report.

Examples:
  # Excel report (default), all fields
  compare-cli compare --test output.csv --gold gold.csv

  # Restrict to two fields, CSV output
  compare-cli compare --test output.csv --gold gold.csv \
    --fields status,insured_details.insured_address \
    --format csv --output report.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rep, err := runComparison(compareTest, compareGold)
		if err != nil && !eris.Is(err, engine.ErrNoAlignedRows) {
			return err
		}
		if eris.Is(err, engine.ErrNoAlignedRows) {
			zap.L().Warn("no rows aligned between datasets; report contains anomalies only")
		}

		printSummary(rep)

		if err := writeReport(rep, compareOutput, compareFormat); err != nil {
			return err
		}

		if !compareNoStore && !cfg.Store.Disable {
			if err := persistRun(ctx, rep); err != nil {
				// History is best-effort; the report already exists.
				zap.L().Warn("persist run failed", zap.Error(err))
			}
		}

		return nil
	},
}

// runComparison loads both datasets and invokes the engine with flag
// overrides applied on top of the configuration.
func runComparison(testPath, goldPath string) (*model.Report, error) {
	lowercase := cfg.Compare.Lowercase && !compareNoLower

	test, err := dataset.Load(testPath, dataset.Options{Name: "test", Lowercase: lowercase})
	if err != nil {
		return nil, eris.Wrap(err, "compare: load test dataset")
	}
	gold, err := dataset.Load(goldPath, dataset.Options{Name: "gold", Lowercase: lowercase})
	if err != nil {
		return nil, eris.Wrap(err, "compare: load gold dataset")
	}

	zap.L().Info("datasets loaded",
		zap.Int("test_rows", len(test.Rows)),
		zap.Int("gold_rows", len(gold.Rows)),
	)

	threshold := cfg.Compare.Threshold
	if compareThreshold > 0 {
		threshold = compareThreshold
	}
	selected := cfg.Compare.SelectedFields
	if len(compareFields) > 0 {
		selected = compareFields
	}

	return engine.Run(test, gold, engine.Params{
		IDColumn:          cfg.Compare.IDColumn,
		DescriptiveColumn: cfg.Compare.DescriptiveColumn,
		Threshold:         threshold,
		SimilarityFields:  cfg.Compare.SimilarityFields,
		SelectedFields:    selected,
	})
}

// printSummary writes the accuracy table and overall figures to stdout.
func printSummary(rep *model.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tVALID\tTOTAL\tACCURACY")
	for _, row := range report.AccuracyRows(rep) {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", row.Field, row.Valid, row.Total, row.Accuracy)
	}
	w.Flush()

	p := message.NewPrinter(language.English)
	p.Printf("\nRow pairs: %d\n", rep.RowPairs)
	p.Printf("Total valid: %d\n", rep.Overall.Valid)
	p.Printf("Total comparisons: %d\n", rep.Overall.Total)
	if rep.Overall.Defined {
		p.Printf("Overall accuracy: %.2f%%\n", rep.Overall.Percent)
	} else {
		fmt.Println("Overall accuracy: n/a")
	}

	for _, d := range rep.Duplicates {
		zap.L().Warn("duplicate identifier excluded",
			zap.String("identifier", d.Identifier),
			zap.String("side", string(d.Side)),
			zap.Int("count", d.Count),
		)
	}
	for _, c := range rep.ClassificationWarnings {
		zap.L().Warn("classification anomaly", zap.String("field", c.Field), zap.String("detail", c.Detail))
	}
	if len(rep.DescriptiveGaps) > 0 {
		zap.L().Warn("descriptive values in GOLD but not TEST",
			zap.Strings("values", rep.DescriptiveGaps),
		)
	}
	if len(rep.Anomalies) > 0 {
		zap.L().Warn("unaligned identifiers", zap.Int("count", len(rep.Anomalies)))
	}
}

// writeReport renders the report in the requested format. CSV produces a
// detail file plus a sibling "<name>_accuracy.csv".
func writeReport(rep *model.Report, output, format string) error {
	if output == "" {
		switch format {
		case "csv":
			output = "report.csv"
		case "json":
			output = "report.json"
		default:
			output = "report.xlsx"
		}
	}

	switch format {
	case "xlsx":
		if err := report.WriteXLSX(rep, output); err != nil {
			return err
		}
	case "json":
		f, err := os.Create(output)
		if err != nil {
			return eris.Wrap(err, "compare: create json output")
		}
		defer f.Close()
		if err := report.WriteJSON(rep, f); err != nil {
			return err
		}
	case "csv":
		f, err := os.Create(output)
		if err != nil {
			return eris.Wrap(err, "compare: create csv output")
		}
		defer f.Close()
		if err := report.WriteDetailCSV(rep, f); err != nil {
			return err
		}

		accPath := accuracyCSVPath(output)
		af, err := os.Create(accPath)
		if err != nil {
			return eris.Wrap(err, "compare: create accuracy csv")
		}
		defer af.Close()
		if err := report.WriteAccuracyCSV(rep, af); err != nil {
			return err
		}
	default:
		return eris.Errorf("compare: unknown format %q", format)
	}

	zap.L().Info("report written", zap.String("path", output), zap.String("format", format))
	return nil
}

func accuracyCSVPath(detailPath string) string {
	ext := filepath.Ext(detailPath)
	return strings.TrimSuffix(detailPath, ext) + "_accuracy" + ext
}

// persistRun records the run summary in the history store.
func persistRun(ctx context.Context, rep *model.Report) error {
	st, err := initStore()
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	threshold := cfg.Compare.Threshold
	if compareThreshold > 0 {
		threshold = compareThreshold
	}

	run := &model.RunSummary{
		TestPath:  compareTest,
		GoldPath:  compareGold,
		Threshold: threshold,
		RowPairs:  rep.RowPairs,
		Anomalies: len(rep.Anomalies),
		Overall:   rep.Overall,
		Accuracy:  rep.Accuracy,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return err
	}
	zap.L().Info("run recorded", zap.String("run_id", run.ID))
	return nil
}

func init() {
	compareCmd.Flags().StringVar(&compareTest, "test", "", "TEST dataset path (csv or xlsx)")
	compareCmd.Flags().StringVar(&compareGold, "gold", "", "GOLD dataset path (csv or xlsx)")
	compareCmd.Flags().StringVar(&compareOutput, "output", "", "report output path")
	compareCmd.Flags().StringVar(&compareFormat, "format", "xlsx", "report format: xlsx, csv, or json")
	compareCmd.Flags().StringSliceVar(&compareFields, "fields", nil, "base fields to compare (default: all)")
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 0, "similarity threshold override (0 < t <= 1)")
	compareCmd.Flags().BoolVar(&compareNoLower, "no-lowercase", false, "skip lowercasing values at ingest")
	compareCmd.Flags().BoolVar(&compareNoStore, "no-store", false, "skip recording the run in history")
	_ = compareCmd.MarkFlagRequired("test")
	_ = compareCmd.MarkFlagRequired("gold")

	rootCmd.AddCommand(compareCmd)
}
