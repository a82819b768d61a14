package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/scandoc/internal/config"
)

// configCmd represents the config command group.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize configuration",
}

var configInitCmd = &cobra.Command{
	Use:          "init [path]",
	Short:        "Write a config file with the default settings",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigFileName + ".yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the effective configuration",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if used := configLoader.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", used)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(cmd.OutOrStdout(), "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(cmd.OutOrStdout(), "ocr.service_url: %s\n", cfg.OCR.ServiceURL)
		fmt.Fprintf(cmd.OutOrStdout(), "ocr.languages: %v\n", cfg.OCR.Languages)
		fmt.Fprintf(cmd.OutOrStdout(), "ocr.page_timeout: %s\n", cfg.OCR.PageTimeout)
		fmt.Fprintf(cmd.OutOrStdout(), "ocr.enable_fallback: %t\n", cfg.OCR.EnableFallback)
		fmt.Fprintf(cmd.OutOrStdout(), "export.quality_profile: %s\n", cfg.Export.QualityProfile)
		fmt.Fprintf(cmd.OutOrStdout(), "export.output_dir: %s\n", cfg.Export.OutputDir)
		fmt.Fprintf(cmd.OutOrStdout(), "server: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
