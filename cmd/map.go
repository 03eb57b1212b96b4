package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"erpimport/catalog"
	"erpimport/config"
	"erpimport/importer"
	"erpimport/mapping"
)

var (
	mapInput        string
	mapKind         string
	mapFormat       string
	mapDelim        string
	mapEncoding     string
	mapAIMap        bool
	mapSaveTemplate string
	mapTemplateName string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Preview the column mapping for a source file",
	Long: `Read the file header, resolve the automatic column mapping and print the
result without importing anything. Unmapped columns and missing required
fields are listed so the mapping can be completed before a real run.

With --save-template the resolved mapping is written to a JSON file for
reuse via "import --template".`,
	Example: `
  # Preview mapping for an item CSV
  erpimport map -i artikel.csv --kind items

  # Let Gemini propose mappings for unknown columns
  erpimport map -i artikel.csv --ai-map

  # Save the mapping as a reusable template
  erpimport map -i artikel.csv --save-template ./mappings/jtl-items.json
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		offline := err != nil
		if offline {
			// Mapping preview works offline; fall back to defaults.
			cfg = &config.Config{}
		}
		kind, err := catalog.ParseImportKind(mapKind)
		if err != nil {
			return err
		}

		table, format, err := readSourceTable(cfg, mapInput, mapFormat, mapDelim, mapEncoding)
		if err != nil {
			return err
		}

		var source customFieldSource
		if !offline {
			if client, err := newERPNextClient(cfg); err == nil {
				source = client
			}
		}
		targets := mergedTargetFields(cmd.Context(), source, kind)

		set, err := resolveMappingSet(cmd.Context(), cfg, table, targets, "", mapAIMap)
		if err != nil {
			return err
		}

		fmt.Print(renderMappingPreview(table, set, targets))

		if mapSaveTemplate != "" {
			name := mapTemplateName
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(mapInput), filepath.Ext(mapInput))
			}
			template := mapping.NewTemplate(name, string(kind), format, set, mapDelim, mapEncoding)
			if err := mapping.SaveTemplate(mapSaveTemplate, template); err != nil {
				return err
			}
			fmt.Printf("Template saved to: %s\n", mapSaveTemplate)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().StringVarP(&mapInput, "input", "i", "", "Input file path")
	mapCmd.Flags().StringVarP(&mapKind, "kind", "k", "items", "Import kind: items|prices|categories|attributes|variants")
	mapCmd.Flags().StringVarP(&mapFormat, "format", "f", "", "Input format: csv|excel|bmecat (inferred from extension when omitted)")
	mapCmd.Flags().StringVar(&mapDelim, "delimiter", "", "CSV delimiter (overrides configuration)")
	mapCmd.Flags().StringVar(&mapEncoding, "encoding", "", "CSV encoding (overrides configuration)")
	mapCmd.Flags().BoolVar(&mapAIMap, "ai-map", false, "Ask Gemini to map columns the rules leave open")
	mapCmd.Flags().StringVar(&mapSaveTemplate, "save-template", "", "Write the resolved mapping to this JSON file")
	mapCmd.Flags().StringVar(&mapTemplateName, "name", "", "Template name (defaults to the input file name)")

	_ = mapCmd.MarkFlagRequired("input")
}

// renderMappingPreview formats the mapping table plus unmapped columns and
// missing required fields.
func renderMappingPreview(table *importer.Table, set *mapping.Set, targets *catalog.FieldSet) string {
	var b strings.Builder

	width := 0
	for _, column := range table.Columns {
		if len(column) > width {
			width = len(column)
		}
	}

	b.WriteString("Column mapping:\n")
	unmapped := make([]string, 0)
	for _, column := range table.Columns {
		target := set.Target(column)
		if target == "" {
			unmapped = append(unmapped, column)
			continue
		}
		label := target
		if spec, ok := targets.Get(target); ok {
			label = fmt.Sprintf("%s (%s)", spec.Key, spec.Label)
		}
		fmt.Fprintf(&b, "  %-*s -> %s\n", width, column, label)
	}

	if len(unmapped) > 0 {
		b.WriteString("Unmapped columns:\n")
		for _, column := range unmapped {
			fmt.Fprintf(&b, "  %s\n", column)
		}
	}
	if missing := set.MissingRequired(targets.RequiredKeys()); len(missing) > 0 {
		fmt.Fprintf(&b, "Missing required fields: %s\n", strings.Join(missing, ", "))
	}
	for _, notice := range set.Notices() {
		fmt.Fprintf(&b, "Notice: %s\n", notice)
	}
	return b.String()
}
