package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"erpimport/config"
)

var deleteYes bool

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete <item-code>",
	Short: "Delete one item from ERPNext",
	Long: `Destructive remote cleanup command.

The item is removed from the ERPNext site, not from any local file.
Before deletion, an interactive security prompt requires typing exactly "Y"
unless --yes is set.`,
	Example: `
  # Delete one item (requires interactive confirmation)
  erpimport delete SKU1

  # Delete without prompt, e.g. in scripts
  erpimport delete SKU1 --yes
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := strings.TrimSpace(args[0])
		if code == "" {
			return fmt.Errorf("item code must not be empty")
		}

		if !deleteYes {
			confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, code)
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("delete aborted: confirmation was not 'Y'")
			}
		}

		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		client, err := newERPNextClient(cfg)
		if err != nil {
			return err
		}

		if err := client.DeleteItem(cmd.Context(), code); err != nil {
			return err
		}
		fmt.Printf("Deleted item: %s\n", code)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the interactive confirmation prompt")
}

func confirmDeletePrompt(input io.Reader, output io.Writer, code string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete item %q from the remote system? Type Y to confirm: ", code); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}
