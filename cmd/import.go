package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"chitsmart/config"
	"chitsmart/internal/export"
	"chitsmart/internal/phone"

	"github.com/spf13/cobra"
)

var csvFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import customers from a CSV file",
	Long: `Import customers from a CSV file with the columns name, number, scheme,
liftStatus and disbursedDate. Rows are matched to existing customers by phone
number in either stored form and merged, otherwise inserted.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&csvFile, "csv", "c", "", "CSV file to import (required)")
	importCmd.MarkFlagRequired("csv")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(csvFile)
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	customers, rowErrs, err := export.DecodeCustomersCSV(f)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	for _, rerr := range rowErrs {
		slog.Warn("Skipping row", "error", rerr)
	}
	slog.Info("Parsed customers", "file", csvFile, "rows", len(customers), "skipped", len(rowErrs))

	ctx := context.Background()
	if err := config.ConnectStore(ctx, config.App); err != nil {
		return err
	}
	defer config.Store.Close()

	imported := 0
	for _, cu := range customers {
		variants := phone.Variants(cu.Number, config.App.CountryCode)
		if len(variants) == 0 {
			slog.Warn("Skipping customer with unusable number", "name", cu.Name, "number", cu.Number)
			continue
		}
		if err := config.Store.UpsertCustomer(ctx, cu, variants); err != nil {
			slog.Error("Failed to import customer", "name", cu.Name, "number", cu.Number, "error", err)
			continue
		}
		imported++
	}
	slog.Info("Import finished", "imported", imported, "total", len(customers))
	return nil
}
