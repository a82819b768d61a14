package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/scandoc/internal/document"
	"github.com/MeKo-Tech/scandoc/internal/queue"
	"github.com/MeKo-Tech/scandoc/internal/store"
)

// ocrCmd represents the ocr command.
var ocrCmd = &cobra.Command{
	Use:   "ocr <document-id>",
	Short: "Run OCR over a document's pages",
	Long: `Run recognition for every page of the document and store the result.
The command waits for the run to finish, printing progress per page.

Examples:
  scandoc ocr 4f2c1a...
  scandoc ocr 4f2c1a... --languages de,en`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if langs, _ := cmd.Flags().GetStringSlice("languages"); len(langs) > 0 {
			cfg.OCR.Languages = langs
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		rec, err := newRecognizer(cfg)
		if err != nil {
			return err
		}

		docID := args[0]
		doc, err := store.Get(cmd.Context(), st, docID)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if doc.OCRStatus == document.OCRDone {
			if !force {
				fmt.Fprintln(cmd.OutOrStdout(), "OCR already complete (use --force to run again)")
				return nil
			}
			if _, err := store.Update(cmd.Context(), st, docID, func(d *document.Document) error {
				d.OCRStatus = document.OCRIdle
				return nil
			}); err != nil {
				return fmt.Errorf("reset document: %w", err)
			}
		}

		q := queue.New(st, rec)
		defer q.Close()

		events, unsubscribe := q.Subscribe()
		defer unsubscribe()
		if err := q.Enqueue(cmd.Context(), docID); err != nil {
			return fmt.Errorf("enqueue document: %w", err)
		}

		for ev := range events {
			if ev.DocumentID != docID {
				continue
			}
			switch ev.Type {
			case queue.EventProgress:
				fmt.Fprintf(cmd.OutOrStdout(), "Processed page %d/%d\n", ev.Processed, ev.Total)
			case queue.EventCompletion:
				if !ev.Success {
					return fmt.Errorf("OCR run failed: %s", ev.Error)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "OCR complete")
				return nil
			}
		}
		return errors.New("OCR run did not complete")
	},
}

func init() {
	rootCmd.AddCommand(ocrCmd)
	ocrCmd.Flags().StringSlice("languages", nil, "override recognition languages (BCP 47 tags)")
	ocrCmd.Flags().Bool("force", false, "run OCR again even when the document is already done")
}
