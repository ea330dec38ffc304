package main

import (
	"context"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/scanedit/internal/output"
	"github.com/jackzampolin/scanedit/internal/viewport"
)

var (
	extractSave   bool
	extractRender string
)

var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Recognise the text regions of an image and print them",
	Long: `Load an image (PNG, JPEG, GIF, TIFF, BMP, WebP or a scanned PDF page),
run OCR on it and print the resulting document.

Examples:
  scanedit extract page.png
  scanedit extract scan.pdf -o json
  scanedit extract page.png --save             # also write ~/.scanedit/exports/page.yaml
  scanedit extract page.png --render boxes.png # draw the regions onto the image`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, _, h, err := openSession()
		if err != nil {
			return err
		}
		go s.pool.Start(ctx)

		if err := s.extractOnce(ctx, args[0]); err != nil {
			return err
		}

		view := s.view()
		if extractSave {
			path := h.ExportPath(args[0], string(exportFormat()))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create export: %w", err)
			}
			defer f.Close()
			if err := output.To(f, exportFormat(), view); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			s.logger.Info("saved document", "path", path)
		}
		if extractRender != "" {
			if err := imaging.Save(viewport.Render(s.ctrl.Snapshot(), s.zoom), extractRender); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		}
		return output.Output(view)
	},
}

// exportFormat is the structured format saved exports use.
func exportFormat() output.Format {
	if output.GetFormat() == output.FormatJSON {
		return output.FormatJSON
	}
	return output.FormatYAML
}

func init() {
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "also save the document to the exports directory")
	extractCmd.Flags().StringVar(&extractRender, "render", "", "write an image with the regions drawn on it")

	rootCmd.AddCommand(extractCmd)
}
