package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/scandoc/internal/assemble"
	"github.com/MeKo-Tech/scandoc/internal/document"
	"github.com/MeKo-Tech/scandoc/internal/filter"
	"github.com/MeKo-Tech/scandoc/internal/store"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export <document-id>",
	Short: "Export a document as a searchable PDF",
	Long: `Export assembles the document into a PDF. Pages that carry word boxes
from OCR get an invisible text layer, so the PDF is searchable while looking
identical to the page images.

Examples:
  scandoc export 4f2c1a...
  scandoc export 4f2c1a... --output invoice.pdf --profile grayscale`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		doc, err := store.Get(cmd.Context(), st, args[0])
		if err != nil {
			return err
		}

		if profile, _ := cmd.Flags().GetString("profile"); profile != "" {
			if document.ProfileByName(profile).Name != profile {
				return fmt.Errorf("unknown quality profile %q", profile)
			}
			doc.QualityProfile = profile
		} else if doc.QualityProfile == "" {
			doc.QualityProfile = cfg.Export.QualityProfile
		}

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			outPath = doc.ID + ".pdf"
		}
		if !filepath.IsAbs(outPath) && filepath.Dir(outPath) == "." {
			outPath = filepath.Join(cfg.Export.OutputDir, outPath)
		}

		a := assemble.New(&filter.ImagingProcessor{OutDir: cfg.PagesDir()})
		path, err := a.Export(cmd.Context(), doc, outPath)
		if err != nil {
			return fmt.Errorf("export PDF: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "output PDF path (default <document-id>.pdf in the export directory)")
	exportCmd.Flags().String("profile", "", "quality profile (color-high, color-medium, grayscale)")
}
