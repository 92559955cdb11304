// Package cmd provides the CLI commands for phone-bill.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"phone-bill/internal/config"
	"phone-bill/internal/logging"
)

// Version is the CLI version, overridable with -ldflags
var Version = "0.1.0"

var (
	cfgFile   string
	plansFile string
	envFile   string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "phone-bill",
	Short: "Calculate phone bills and issue payment receipts",
	Long: `phone-bill computes the amount due for a month of phone usage under a
tariff plan and fills a receipt template with the result.

Examples:
  phone-bill calculate --minutes 150 --plan tariff-2
  phone-bill receipt --minutes 250 --plan 1 --name "Ivanov I.I." --address "Moscow"
  phone-bill plans --plans ./plans.hcl`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./phone-bill.json)")
	rootCmd.PersistentFlags().StringVar(&plansFile, "plans", "", "HCL file with tariff plans (replaces the presets)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with PHONE_BILL_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(receiptCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if err := config.LoadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(1)
	}

	path := cfgFile
	if path == "" {
		path = config.DefaultFileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if plansFile != "" {
		cfg.Billing.PlansFile = plansFile
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "phone-bill version %s\n", Version)
	},
}
