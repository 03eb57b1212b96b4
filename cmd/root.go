/*
Copyright © 2026

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"erpimport/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "erpimport",
	Short: "Import product catalogs from CSV, Excel and BMECat into ERPNext.",
	Long: `
**********************************************
*                ERPIMPORT                   *
**********************************************

This CLI reads product data exports (JTL, shop systems, supplier catalogs),
maps their columns onto ERPNext item fields, normalizes German number and
price formats, and upserts items, prices, categories, attributes and
variants through the ERPNext REST API.

Supported input formats:
- CSV: .csv, .tsv, .txt
- Excel: .xlsx, .xlsm, .xls
- BMECat: .xml
`,
	Example: `
  # Create configuration file
  erpimport config create

  # Verify URL and API credentials
  erpimport check

  # Preview the automatic column mapping
  erpimport map -i artikel.csv --kind items

  # Dry run: transform and log without touching the server
  erpimport import -i artikel.csv --kind items --dry-run

  # Import items, creating missing ones and updating the rest
  erpimport import -i artikel.csv --kind items --mode upsert

  # Export items back out
  erpimport export --output ./items.xlsx
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.erpimport.yaml, then ./.erpimport.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "import", "export", "check", "delete":
		return true
	}
	return false
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".erpimport" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".erpimport")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: erpimport config create")
	}
}
