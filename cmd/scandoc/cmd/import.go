package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/scandoc/internal/rasterize"
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import a PDF or page images as a new document",
	Long: `Import creates a new document from a PDF file or from one or more page
images. A PDF is rasterized into per-page images and its byte-identical
original is kept for later export. Image files become pages in argument
order.

Examples:
  scandoc import scan.pdf --title "Invoice March"
  scandoc import page1.jpg page2.jpg page3.jpg`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		isPDF := strings.EqualFold(filepath.Ext(args[0]), ".pdf")
		if isPDF && len(args) > 1 {
			return errors.New("a PDF import takes exactly one file")
		}

		ctx := cmd.Context()
		if isPDF {
			doc, err := rasterize.ImportPDF(ctx, st, rasterize.PDFCPU{}, title, args[0], cfg.PagesDir())
			if err != nil {
				return fmt.Errorf("import PDF: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s (%d pages)\n", title, doc.ID, len(doc.Pages))
			return nil
		}

		doc, err := rasterize.ImportImages(ctx, st, title, args)
		if err != nil {
			return fmt.Errorf("import images: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s (%d pages)\n", title, doc.ID, len(doc.Pages))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("title", "", "document title (default is the first file's base name)")
}
