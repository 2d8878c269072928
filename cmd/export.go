package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"chitsmart/config"
	"chitsmart/internal/export"

	"github.com/spf13/cobra"
)

var (
	outFile      string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export customers to CSV or Excel",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xlsx", "output format: csv or xlsx")
	exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "xlsx" {
		return fmt.Errorf("unsupported format %q", exportFormat)
	}

	ctx := context.Background()
	if err := config.ConnectStore(ctx, config.App); err != nil {
		return err
	}
	defer config.Store.Close()

	customers, err := config.Store.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list customers: %w", err)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if exportFormat == "csv" {
		err = export.EncodeCustomersCSV(f, customers)
	} else {
		err = export.CustomersXLSX(f, customers)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}
	slog.Info("Exported customers", "file", outFile, "rows", len(customers))
	return nil
}
