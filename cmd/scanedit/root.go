package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/scanedit/internal/output"
	"github.com/jackzampolin/scanedit/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "scanedit",
	Short: "Edit the text regions recognised on a scanned page",
	Long: `Scanedit runs Tesseract OCR on a scanned image or PDF page and lets you
edit the recognised text regions.

Regions can be selected, moved, grouped, deleted, copied, re-ordered and
highlighted. Every edit can be undone and redone, and extraction runs in
the background while the document stays responsive.`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.scanedit/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "scanedit home directory (default: ~/.scanedit)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or text",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (default from config)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		output.SetFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
