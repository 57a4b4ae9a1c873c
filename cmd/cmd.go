// Package cmd defines the command-line interface for repopulse.
package cmd

import (
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(releasesCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Add the token subcommands to the parent token command
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenClearCmd)
	tokenCmd.AddCommand(tokenStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("token", "", "GitHub token (prefer GITHUB_TOKEN or the keychain, see 'repopulse token set')")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL for GitHub Enterprise (default https://api.github.com/)")
	rootCmd.PersistentFlags().Int("retries", contract.DefaultRetries, "Retry budget for transient API failures")
	rootCmd.PersistentFlags().Int("release-limit", contract.DefaultReleaseLimit, "Maximum number of releases to fetch")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Local flags of analyze and releases share names, so they are bound to Viper
	// when the command runs (see bindLocalFlags).
	for _, c := range []*cobra.Command{analyzeCmd, releasesCmd} {
		c.Flags().Bool("refresh", false, "Ignore a cached analysis from the last hour")
		c.Flags().Bool("no-progress", false, "Do not print the progress line")
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
