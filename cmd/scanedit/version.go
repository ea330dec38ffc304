package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scanedit/internal/extract/tesseract"
	"github.com/jackzampolin/scanedit/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scanedit %s\n", version.GitRelease)
		fmt.Printf("  Go:        %s\n", version.GoInfo)
		fmt.Printf("  Commit:    %s\n", version.GitCommit)
		fmt.Printf("  Date:      %s\n", version.GitCommitDate)
		if v, ok := tesseract.Available(); ok {
			fmt.Printf("  Tesseract: %s\n", v)
		} else {
			fmt.Printf("  Tesseract: unavailable (build with -tags ocr)\n")
		}
	},
}
