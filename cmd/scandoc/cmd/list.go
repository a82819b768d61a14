package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:          "list",
	Short:        "List documents in the store",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		docs, err := st.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load documents: %w", err)
		}
		if len(docs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No documents.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPAGES\tOCR\tUPDATED")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				d.ID, d.Title, len(d.Pages), d.OCRStatus, d.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
