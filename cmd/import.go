package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"erpimport/catalog"
	"erpimport/config"
	"erpimport/erpnext"
	"erpimport/gemini"
	"erpimport/importer"
	"erpimport/internal/logging"
	"erpimport/mapping"
	"erpimport/storage"
)

var (
	importInput    string
	importKind     string
	importMode     string
	importDryRun   bool
	importTemplate string
	importAIMap    bool
	importFormat   string
	importDelim    string
	importEncoding string
	importDBPath   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a product file into ERPNext",
	Long: `Read one source file, map its columns onto ERPNext item fields, normalize
values (German decimal notation, gross prices, barcodes, category paths)
and reconcile each row against the remote system.

Column mapping is resolved automatically from known German and English
header names. Use a saved mapping template for files the rules do not
cover, or --ai-map to let Gemini propose a mapping for unknown columns.

With --dry-run every row is transformed and logged but nothing is written
to the server.`,
	Example: `
  # Upsert items from a semicolon CSV
  erpimport import -i artikel.csv --kind items

  # Only create items that do not exist yet
  erpimport import -i artikel.csv --kind items --mode create

  # Latin-1 encoded export with comma delimiter
  erpimport import -i export.csv --delimiter "," --encoding latin-1

  # BMECat supplier catalog
  erpimport import -i katalog.xml --kind items

  # Use a saved mapping template
  erpimport import -i artikel.csv --template ./mappings/jtl-items.json

  # Variants against their template items
  erpimport import -i varianten.csv --kind variants

  # Keep a run history
  erpimport import -i artikel.csv --db ./erpimport.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		kind, err := catalog.ParseImportKind(importKind)
		if err != nil {
			return err
		}
		mode, err := importer.ParseMode(importMode)
		if err != nil {
			return err
		}

		logger, err := logging.New(verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		table, format, err := readSourceTable(cfg, importInput, importFormat, importDelim, importEncoding)
		if err != nil {
			return err
		}
		logger.Infof("read %d rows (%d columns) from %s [%s]", len(table.Rows), len(table.Columns), importInput, format)

		client, err := newERPNextClient(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		targets := mergedTargetFields(ctx, client, kind)
		set, err := resolveMappingSet(ctx, cfg, table, targets, importTemplate, importAIMap)
		if err != nil {
			return err
		}
		for _, notice := range set.Notices() {
			logger.Warn(notice)
		}
		if missing := set.MissingRequired(targets.RequiredKeys()); len(missing) > 0 {
			return fmt.Errorf("required fields not mapped: %v (inspect with: erpimport map -i %s --kind %s)",
				missing, importInput, kind)
		}

		engine := &importer.Engine{
			Pipeline: importer.NewPipeline(cfg.Import.TaxRate, cfg.Import.BarcodeDenylist...),
			Remote:   erpnext.NewSession(ctx, client),
			Log: func(message string, isError bool) {
				if isError {
					logger.Error(message)
					return
				}
				logger.Info(message)
			},
			Progress: func(index, total int) {
				logger.Debugf("row %d/%d", index, total)
			},
		}

		started := time.Now()
		outcome, err := engine.Run(table, set, importer.RunOptions{
			Kind:             kind,
			Mode:             mode,
			DryRun:           importDryRun,
			DefaultItemGroup: cfg.ERPNext.DefaultItemGroup,
		})
		if err != nil {
			return err
		}

		dbPath := importDBPath
		if dbPath == "" {
			dbPath = cfg.Import.HistoryDB
		}
		if dbPath != "" {
			if err := persistRunHistory(dbPath, started, kind, mode, outcome); err != nil {
				logger.Warnf("run history not saved: %v", err)
			}
		}

		fmt.Printf("Import completed. Rows: %d, Imported: %d, Skipped: %d, Errors: %d\n",
			outcome.Total, outcome.Success, outcome.Skipped, outcome.Errors)
		if outcome.Errors > 0 {
			return fmt.Errorf("%d of %d rows failed", outcome.Errors, outcome.Total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "Input file path")
	importCmd.Flags().StringVarP(&importKind, "kind", "k", "items", "Import kind: items|prices|categories|attributes|variants")
	importCmd.Flags().StringVarP(&importMode, "mode", "m", "upsert", "Reconcile mode: create|update|upsert")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Transform and log without writing to the server")
	importCmd.Flags().StringVar(&importTemplate, "template", "", "Path to a saved mapping template (JSON)")
	importCmd.Flags().BoolVar(&importAIMap, "ai-map", false, "Ask Gemini to map columns the rules leave open")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel|bmecat (inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importDelim, "delimiter", "", "CSV delimiter (overrides configuration)")
	importCmd.Flags().StringVar(&importEncoding, "encoding", "", "CSV encoding: utf-8|latin-1|windows-1252 (overrides configuration)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite run history (overrides import.history_db)")

	_ = importCmd.MarkFlagRequired("input")
}

// readSourceTable resolves format and parse options, then reads the file.
func readSourceTable(cfg *config.Config, path, format, delimiter, encoding string) (*importer.Table, string, error) {
	if format == "" {
		detected, err := importer.DetectFormat(path)
		if err != nil {
			return nil, "", err
		}
		format = detected
	}

	options := importer.ReadOptions{
		Delimiter: cfg.Import.DelimiterRune(),
		Encoding:  cfg.Import.Encoding,
	}
	if delimiter != "" {
		override := config.ImportConfig{Delimiter: delimiter}
		options.Delimiter = override.DelimiterRune()
	}
	if encoding != "" {
		options.Encoding = encoding
	}

	reader, err := importer.ReaderForFormat(format, options)
	if err != nil {
		return nil, "", err
	}
	table, err := reader.Read(path)
	if err != nil {
		return nil, "", err
	}
	return table, format, nil
}

// customFieldSource is the slice of the ERPNext client the mapping layer
// needs to discover site-defined item fields.
type customFieldSource interface {
	CustomFields(ctx context.Context, doctype string) ([]erpnext.CustomField, error)
}

// mergedTargetFields extends the static item catalog with the custom
// fields the site defines, so they can be mapped like any static field.
// Without a client, or when discovery fails, the static catalog is used
// and mapping keeps working offline.
func mergedTargetFields(ctx context.Context, source customFieldSource, kind catalog.ImportKind) *catalog.FieldSet {
	targets := catalog.TargetFields(kind)
	if source == nil || (kind != catalog.ImportItems && kind != catalog.ImportPrices) {
		return targets
	}
	fields, err := source.CustomFields(ctx, "Item")
	if err != nil {
		return targets
	}
	return targets.Merge(erpnext.FieldSpecs(fields))
}

// resolveMappingSet builds the column mapping: saved template, or the
// rule-based pass optionally followed by an AI proposal for leftovers.
func resolveMappingSet(ctx context.Context, cfg *config.Config, table *importer.Table, targets *catalog.FieldSet, templatePath string, aiMap bool) (*mapping.Set, error) {
	set := mapping.NewSet(table.Columns)

	if templatePath != "" {
		template, err := mapping.LoadTemplate(templatePath)
		if err != nil {
			return nil, err
		}
		if skipped := template.Apply(set); len(skipped) > 0 {
			fmt.Printf("Template columns not present in file: %v\n", skipped)
		}
		return set, nil
	}

	mapping.AutoResolve(set, targets)

	if aiMap {
		suggestion, err := suggestMapping(ctx, cfg, table, targets)
		if err != nil {
			return nil, fmt.Errorf("ai mapping failed: %w", err)
		}
		mapping.ApplySuggestion(set, targets, suggestion)
	}
	return set, nil
}

func suggestMapping(ctx context.Context, cfg *config.Config, table *importer.Table, targets *catalog.FieldSet) (map[string]string, error) {
	client, err := gemini.NewClient(gemini.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	})
	if err != nil {
		return nil, err
	}
	return client.SuggestMapping(ctx, columnSamples(table, 5), targetHints(targets))
}

// columnSamples collects up to n example values per column for the AI
// prompt.
func columnSamples(table *importer.Table, n int) []gemini.ColumnSample {
	rows := table.Sample(n)
	samples := make([]gemini.ColumnSample, 0, len(table.Columns))
	for _, column := range table.Columns {
		values := make([]string, 0, len(rows))
		for _, row := range rows {
			if value := row.Get(column); value != "" {
				values = append(values, value)
			}
		}
		samples = append(samples, gemini.ColumnSample{Column: column, Values: values})
	}
	return samples
}

func targetHints(targets *catalog.FieldSet) []gemini.TargetHint {
	hints := make([]gemini.TargetHint, 0, targets.Len())
	for _, key := range targets.Keys() {
		spec, _ := targets.Get(key)
		hints = append(hints, gemini.TargetHint{Key: spec.Key, Label: spec.Label})
	}
	return hints
}

func newERPNextClient(cfg *config.Config) (*erpnext.HTTPClient, error) {
	return erpnext.NewClient(erpnext.ClientConfig{
		BaseURL:   cfg.ERPNext.URL,
		APIKey:    cfg.ERPNext.APIKey,
		APISecret: cfg.ERPNext.APISecret,
		PriceList: cfg.ERPNext.PriceList,
		Timeout:   cfg.ERPNext.Timeout(),
	})
}

func persistRunHistory(dbPath string, started time.Time, kind catalog.ImportKind, mode importer.Mode, outcome *importer.Outcome) error {
	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.InsertRun(storage.RunRecord{
		StartedAt:  started,
		FinishedAt: time.Now(),
		SourceFile: importInput,
		Kind:       string(kind),
		Mode:       string(mode),
		DryRun:     importDryRun,
		Total:      outcome.Total,
		Success:    outcome.Success,
		Skipped:    outcome.Skipped,
		Errors:     outcome.Errors,
	}, outcome.ErrorMessages)
	return err
}
