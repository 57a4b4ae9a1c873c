package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/credential"
	"github.com/huangsam/repopulse/internal/ghclient"
	"github.com/huangsam/repopulse/internal/iocache"
	"github.com/huangsam/repopulse/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// credentials is the keychain store used for token lookup and the token commands.
var credentials contract.CredentialStore = credential.NewKeyringStore()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "repopulse",
	Short:              "Score the health of a GitHub repository.",
	Long:               `Repopulse reads issues, commits and releases of a GitHub repository and condenses them into a 0-100 health score.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// loadEnvFiles loads .env files so their values are visible to the env lookup below.
// Variables already set in the process win.
func loadEnvFiles() {
	envFiles := []string{".env.local", ".env"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(homeDir, ".repopulse", ".env"))
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			contract.LogWarn(fmt.Sprintf("Failed to load %s", file), err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	loadEnvFiles()

	// Set environment variable prefix
	viper.SetEnvPrefix("REPOPULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match
	_ = viper.BindEnv("github-token", "GITHUB_TOKEN")

	// Set defaults in Viper
	viper.SetDefault("retries", contract.DefaultRetries)
	viper.SetDefault("release-limit", contract.DefaultReleaseLimit)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", "warn")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".repopulse") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// readInput merges defaults, file, env, and flags into the raw input struct.
func readInput(args []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	// Positional arguments are handled manually since Viper doesn't see them.
	input.RepoArgs = args
	return nil
}

// applyRuntime applies the validated logging and color settings and opens the cache.
func applyRuntime() error {
	if err := contract.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	if !cfg.UseColors {
		color.NoColor = true
	}
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetup unmarshals config and runs validation for commands that target a repository.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	if err := readInput(args); err != nil {
		return err
	}
	if err := contract.ProcessAndValidate(cfg, input, credentials); err != nil {
		return err
	}
	return applyRuntime()
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// commonSetup validates everything except the repository arguments.
func commonSetup(_ *cobra.Command, _ []string) error {
	if err := readInput(nil); err != nil {
		return err
	}
	if err := contract.ProcessCommonConfig(cfg, input, credentials); err != nil {
		return err
	}
	return applyRuntime()
}

// newRepoClient builds the API client from the validated configuration.
func newRepoClient(c *contract.Config) (contract.RepoClient, error) {
	client, err := ghclient.New(ghclient.Options{
		Token:   c.Token,
		BaseURL: c.APIURL,
		Retries: c.Retries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	if c.Token == "" {
		contract.LogWarn("No GitHub token configured; unauthenticated requests are limited to 60 per hour", nil)
	}
	return client, nil
}

// snapshotStore returns the snapshot cache of the active manager, if any.
func snapshotStore() contract.SnapshotStore {
	if cacheManager == nil {
		return nil
	}
	return cacheManager.GetSnapshotStore()
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	rootCtx = ctx
	return rootCmd.ExecuteContext(ctx)
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
