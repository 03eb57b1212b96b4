package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"erpimport/storage"
)

var (
	historyDBPath string
	historyLimit  int
	historyErrors string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past import runs from the local history database",
	Long: `List import runs recorded with "import --db", newest first. Use --errors
with a run ID to print the row errors of that run.`,
	Example: `
  # Show the last 20 runs
  erpimport history --db ./erpimport.db

  # Show the errors of one run
  erpimport history --db ./erpimport.db --errors 7f3c9a50-...
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(historyDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if historyErrors != "" {
			messages, err := store.RunErrors(historyErrors)
			if err != nil {
				return err
			}
			if len(messages) == 0 {
				fmt.Println("No errors recorded for this run.")
				return nil
			}
			for _, message := range messages {
				fmt.Println(message)
			}
			return nil
		}

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No import runs recorded yet.")
			return nil
		}

		for _, run := range runs {
			marker := ""
			if run.DryRun {
				marker = " [dry-run]"
			}
			fmt.Printf("%s  %s  %s/%s%s  rows=%d ok=%d skipped=%d errors=%d  %s\n",
				run.StartedAt.Format("2006-01-02 15:04"),
				run.ID,
				run.Kind,
				run.Mode,
				marker,
				run.Total,
				run.Success,
				run.Skipped,
				run.Errors,
				run.SourceFile,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDBPath, "db", "./erpimport.db", "Path to local SQLite run history")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show (0 for all)")
	historyCmd.Flags().StringVar(&historyErrors, "errors", "", "Show the error messages of this run ID")
}
