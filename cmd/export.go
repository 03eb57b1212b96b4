package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"erpimport/config"
	"erpimport/output"
)

var (
	exportOutput string
	exportFormat string
	exportFields []string
	exportGroup  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export items from ERPNext to CSV or Excel",
	Long: `Fetch items from the remote system and write them to a local file. The
output format is inferred from the file extension unless --format is set.`,
	Example: `
  # Export all items to Excel
  erpimport export --output ./items.xlsx

  # Export one item group with selected fields
  erpimport export --output ./regale.csv --group Regale --fields item_code,item_name,standard_rate
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		format := exportFormat
		if format == "" {
			switch strings.ToLower(filepath.Ext(exportOutput)) {
			case ".xlsx", ".xlsm", ".xls":
				format = "excel"
			default:
				format = "csv"
			}
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}

		client, err := newERPNextClient(cfg)
		if err != nil {
			return err
		}

		fields := exportFields
		if len(fields) == 0 {
			fields = []string{"item_code", "item_name", "item_group", "stock_uom", "standard_rate", "disabled"}
		}
		filters := map[string]any{}
		if exportGroup != "" {
			filters["item_group"] = exportGroup
		}

		rows, err := client.ListItems(cmd.Context(), fields, filters)
		if err != nil {
			return err
		}

		if err := writer.Write(exportOutput, output.NewExport(fields, rows)); err != nil {
			return err
		}
		fmt.Printf("Exported %d items to %s\n", len(rows), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (inferred from extension when omitted)")
	exportCmd.Flags().StringSliceVar(&exportFields, "fields", nil, "Item fields to export (comma separated)")
	exportCmd.Flags().StringVar(&exportGroup, "group", "", "Only export items of this item group")

	_ = exportCmd.MarkFlagRequired("output")
}
