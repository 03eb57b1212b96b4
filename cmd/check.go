package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"erpimport/config"
	"erpimport/erpnext"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the ERPNext connection and credentials",
	Long: `Resolve the authenticated API user and list the custom item fields the
site defines. A successful check means URL, API key and secret are usable
for imports.`,
	Example: `
  erpimport check
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		client, err := newERPNextClient(cfg)
		if err != nil {
			return err
		}

		user, err := client.TestConnection(cmd.Context())
		if err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		fmt.Printf("Connected to %s as %s\n", cfg.ERPNext.URL, user)

		fields, err := client.CustomFields(cmd.Context(), "Item")
		if err != nil {
			return fmt.Errorf("custom field discovery failed: %w", err)
		}
		specs := erpnext.FieldSpecs(fields)
		fmt.Printf("Custom item fields: %d\n", len(specs))
		for _, spec := range specs {
			fmt.Printf("  %s (%s, %s)\n", spec.Key, spec.Label, spec.Kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
