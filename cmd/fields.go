package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/claimsight/compare-cli/internal/classify"
	"github.com/claimsight/compare-cli/internal/dataset"
)

var (
	fieldsTest   string
	fieldsGold   string
	fieldsFormat string
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Classify dataset schemas without comparing",
	Long:  "Lists the base fields derived from the TEST and GOLD schemas, their kind (scalar/array), match mode, and array indices.",
	RunE: func(_ *cobra.Command, _ []string) error {
		test, err := dataset.Load(fieldsTest, dataset.Options{Name: "test"})
		if err != nil {
			return eris.Wrap(err, "fields: load test dataset")
		}
		gold, err := dataset.Load(fieldsGold, dataset.Options{Name: "gold"})
		if err != nil {
			return eris.Wrap(err, "fields: load gold dataset")
		}

		res, err := classify.Classify(test, gold, classify.Params{
			IDColumn:          cfg.Compare.IDColumn,
			DescriptiveColumn: cfg.Compare.DescriptiveColumn,
			SimilarityFields:  cfg.Compare.SimilarityFields,
		})
		if err != nil {
			return err
		}

		switch fieldsFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(res), "fields: encode json")
		case "yaml":
			return eris.Wrap(yaml.NewEncoder(os.Stdout).Encode(res), "fields: encode yaml")
		default:
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tKIND\tMODE\tINDICES")
			for _, f := range res.Fields {
				indices := "-"
				if len(f.Indices) > 0 {
					parts := make([]string, len(f.Indices))
					for i, idx := range f.Indices {
						parts[i] = strconv.Itoa(idx)
					}
					indices = strings.Join(parts, ",")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.Kind, f.Mode, indices)
			}
			w.Flush()

			for _, a := range res.Anomalies {
				fmt.Fprintf(os.Stderr, "warning: %s\n", a.Detail)
			}
			return nil
		}
	},
}

func init() {
	fieldsCmd.Flags().StringVar(&fieldsTest, "test", "", "TEST dataset path")
	fieldsCmd.Flags().StringVar(&fieldsGold, "gold", "", "GOLD dataset path")
	fieldsCmd.Flags().StringVar(&fieldsFormat, "format", "table", "output format: table, json, or yaml")
	_ = fieldsCmd.MarkFlagRequired("test")
	_ = fieldsCmd.MarkFlagRequired("gold")

	rootCmd.AddCommand(fieldsCmd)
}
