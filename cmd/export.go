package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peakstay/parity-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full analysis table as CSV or XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		req, err := parseRequest(cmd)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")
		if format == "xlsx" && outPath == "" {
			return eris.New("--output is required for xlsx export")
		}

		analysis, err := initEngine().Run(ctx, req)
		if err != nil {
			return err
		}
		printWarnings(analysis.Warnings)

		w, closeOut, err := openOutput(outPath)
		if err != nil {
			return err
		}
		defer closeOut() //nolint:errcheck

		switch format {
		case "csv":
			err = export.WriteCSV(w, analysis.Records)
		case "xlsx":
			err = export.WriteXLSX(w, analysis.Records)
		default:
			return eris.Errorf("unknown format %q (want csv or xlsx)", format)
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("format", format),
			zap.String("output", outPath),
			zap.Int("records", len(analysis.Records)),
		)
		return nil
	},
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "csv", "export format: csv or xlsx")
	exportCmd.Flags().String("output", "", "output file (stdout for csv when omitted)")
	rootCmd.AddCommand(exportCmd)
}
