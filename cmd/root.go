package cmd

import (
	"log/slog"
	"os"

	"chitsmart/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chitsmart",
	Short: "ChitSmart chit fund portal",
	Long: `ChitSmart serves the public scheme catalogue, the customer portal and
the admin portal, and ships tools to import and export customer records.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}
	s := config.Load()
	config.SetupLogger(s.LogLevel, s.LogFormat)
}
