package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/claimsight/compare-cli/internal/dataset"
	"github.com/claimsight/compare-cli/internal/engine"
	"github.com/claimsight/compare-cli/internal/model"
	"github.com/claimsight/compare-cli/internal/report"
)

var (
	batchManifest    string
	batchOutDir      string
	batchConcurrency int
)

// batchPair is one TEST/GOLD pair from the manifest.
type batchPair struct {
	Name string `yaml:"name"`
	Test string `yaml:"test"`
	Gold string `yaml:"gold"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compare several TEST/GOLD pairs from a manifest",
	Long: `Reads a YAML manifest of dataset pairs and compares them concurrently.
Each pair produces one Excel report named after the pair.

Manifest format:
  pairs:
    - name: january
      test: out/january.csv
      gold: gold/january.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(batchManifest)
		if err != nil {
			return eris.Wrap(err, "batch: read manifest")
		}
		var manifest struct {
			Pairs []batchPair `yaml:"pairs"`
		}
		if err := yaml.Unmarshal(raw, &manifest); err != nil {
			return eris.Wrap(err, "batch: parse manifest")
		}
		if len(manifest.Pairs) == 0 {
			return eris.New("batch: manifest has no pairs")
		}

		if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
			return eris.Wrap(err, "batch: create output dir")
		}

		// Each engine invocation owns its own data, so pairs can run
		// concurrently even though a single run is synchronous.
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)

		var mu sync.Mutex
		var failed []string

		for _, pair := range manifest.Pairs {
			pair := pair
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return eris.Wrap(err, "batch: cancelled")
				}

				rep, err := runBatchPair(pair)
				if err != nil {
					zap.L().Error("batch: pair failed",
						zap.String("pair", pair.Name),
						zap.Error(err),
					)
					mu.Lock()
					failed = append(failed, pair.Name)
					mu.Unlock()
					return nil // keep going; report failures at the end
				}

				out := filepath.Join(batchOutDir, pair.Name+".xlsx")
				if err := report.WriteXLSX(rep, out); err != nil {
					return err
				}

				zap.L().Info("batch: pair complete",
					zap.String("pair", pair.Name),
					zap.Int("row_pairs", rep.RowPairs),
					zap.Float64("overall_percent", rep.Overall.Percent),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		if len(failed) > 0 {
			return eris.Errorf("batch: %d of %d pairs failed: %v",
				len(failed), len(manifest.Pairs), failed)
		}
		fmt.Printf("Compared %d pairs, reports in %s\n", len(manifest.Pairs), batchOutDir)
		return nil
	},
}

func runBatchPair(pair batchPair) (*model.Report, error) {
	test, err := dataset.Load(pair.Test, dataset.Options{Name: "test", Lowercase: cfg.Compare.Lowercase})
	if err != nil {
		return nil, eris.Wrapf(err, "load test %s", pair.Test)
	}
	gold, err := dataset.Load(pair.Gold, dataset.Options{Name: "gold", Lowercase: cfg.Compare.Lowercase})
	if err != nil {
		return nil, eris.Wrapf(err, "load gold %s", pair.Gold)
	}

	rep, err := engine.Run(test, gold, engine.Params{
		IDColumn:          cfg.Compare.IDColumn,
		DescriptiveColumn: cfg.Compare.DescriptiveColumn,
		Threshold:         cfg.Compare.Threshold,
		SimilarityFields:  cfg.Compare.SimilarityFields,
		SelectedFields:    cfg.Compare.SelectedFields,
	})
	if err != nil && !eris.Is(err, engine.ErrNoAlignedRows) {
		return nil, err
	}
	return rep, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchManifest, "manifest", "", "YAML manifest of dataset pairs")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "reports", "directory for pair reports")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "pairs compared in parallel")
	_ = batchCmd.MarkFlagRequired("manifest")

	rootCmd.AddCommand(batchCmd)
}
