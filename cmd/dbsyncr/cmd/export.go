package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/export"
	"github.com/dbsyncr/dbsyncr/pkg/loader"
)

var (
	exportFlagInput  string
	exportFlagOutput string
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert a single dataset between CSV and XLSX",
	Long: `Export loads one dataset and writes it back out in the format implied by
the output filename. Empty cells stay empty and column types are inferred,
so a numeric CSV column becomes a numeric spreadsheet column.`,
	Example: `  dbsyncr export --in warehouse.xlsx --out warehouse.csv
  dbsyncr export --in combined.csv --out combined.xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFlagInput, "in", "i", "", "Input file (CSV or XLSX)")
	exportCmd.Flags().StringVarP(&exportFlagOutput, "out", "o", "", "Output file (CSV or XLSX)")

	_ = exportCmd.MarkFlagRequired("in")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(_ *cobra.Command, _ []string) error {
	inFormat, ok := loader.DetectFormat(exportFlagInput)
	if !ok {
		return errors.NewMalformedInputError(exportFlagInput, "unsupported file format", nil)
	}
	outFormat, ok := loader.DetectFormat(exportFlagOutput)
	if !ok {
		return errors.NewMalformedInputError(exportFlagOutput, "unsupported output format", nil)
	}

	in, err := os.Open(exportFlagInput)
	if err != nil {
		return err
	}
	defer in.Close()

	ds, err := loader.Load(in, inFormat)
	if err != nil {
		return err
	}

	out, err := os.Create(exportFlagOutput)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := export.Export(out, ds, outFormat); err != nil {
		return err
	}
	return out.Close()
}
