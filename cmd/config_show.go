package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"erpimport/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Secrets
are masked.`,
	Example: `
  # Show active configuration
  erpimport config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		fmt.Printf("erpnext.url: %s\n", cfg.ERPNext.URL)
		fmt.Printf("erpnext.api_key: %s\n", maskSecret(cfg.ERPNext.APIKey))
		fmt.Printf("erpnext.api_secret: %s\n", maskSecret(cfg.ERPNext.APISecret))
		fmt.Printf("erpnext.price_list: %s\n", cfg.ERPNext.PriceList)
		fmt.Printf("erpnext.default_item_group: %s\n", cfg.ERPNext.DefaultItemGroup)
		fmt.Printf("erpnext.request_timeout_seconds: %d\n", cfg.ERPNext.RequestTimeoutSeconds)
		fmt.Printf("import.tax_rate: %g\n", cfg.Import.TaxRate)
		fmt.Printf("import.delimiter: %q\n", cfg.Import.Delimiter)
		fmt.Printf("import.encoding: %s\n", cfg.Import.Encoding)
		fmt.Printf("import.barcode_denylist: %d entries\n", len(cfg.Import.BarcodeDenylist))
		fmt.Printf("gemini.api_key: %s\n", maskSecret(cfg.Gemini.APIKey))
		fmt.Printf("gemini.model: %s\n", cfg.Gemini.Model)
	},
}

func maskSecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
