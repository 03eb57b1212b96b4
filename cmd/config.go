package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage erpimport configuration file values.",
	Long: `Create and display the erpimport configuration file.

The configuration stores the connection and import defaults:
- erpnext.url / api_key / api_secret / price_list / default_item_group
- import.tax_rate / delimiter / encoding / barcode_denylist
- gemini.api_key / model`,
	Example: `
  # Create default config in $HOME/.erpimport.yaml
  erpimport config create

  # Show active config and source file
  erpimport config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
