package contract

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/repopulse/schema"
)

// Default values for configuration.
const (
	DefaultRetries      = 3
	MaxRetries          = 10
	DefaultReleaseLimit = 1000
	MaxReleaseLimit     = 5000
	DefaultPrecision    = 1
	DefaultAPIURL       = "https://api.github.com/"
)

// SnapshotTTL is how long the last analysis stays reusable.
const SnapshotTTL = time.Hour

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ErrTokenNotFound is returned by a CredentialStore that holds no token.
var ErrTokenNotFound = errors.New("token not found")

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Owner string
	Repo  string

	Token        string // Please use env var or keychain as this is plaintext
	TokenSource  string // flag, env, keychain or empty
	APIURL       string
	Retries      int
	ReleaseLimit int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Refresh    bool
	NoProgress bool
	LogLevel   string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Token          string `mapstructure:"token"`
	GitHubToken    string `mapstructure:"github-token"`
	APIURL         string `mapstructure:"api-url"`
	Retries        int    `mapstructure:"retries"`
	ReleaseLimit   int    `mapstructure:"release-limit"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	LogLevel       string `mapstructure:"log-level"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`

	// --- Fields from analyzeCmd.Flags() ---
	Refresh    bool `mapstructure:"refresh"`
	NoProgress bool `mapstructure:"no-progress"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithRepo creates a copy of the Config targeting another repository.
func (c *Config) CloneWithRepo(owner, repo string) *Config {
	clone := c.Clone()
	clone.Owner = owner
	clone.Repo = repo
	return clone
}

// FullName returns the owner/repo slug of the configured repository.
func (c *Config) FullName() string {
	return c.Owner + "/" + c.Repo
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. The credential store is optional.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, creds CredentialStore) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAPIURL(cfg, input); err != nil {
		return err
	}
	if err := processRepoArgs(cfg, input); err != nil {
		return err
	}
	resolveToken(cfg, input, creds)
	return nil
}

// ProcessCommonConfig validates everything except the repository arguments.
// It serves commands that do not target a repository, like cache and mcp.
func ProcessCommonConfig(cfg *Config, input *ConfigRawInput, creds CredentialStore) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAPIURL(cfg, input); err != nil {
		return err
	}
	resolveToken(cfg, input, creds)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseRepoArgs accepts either a single "owner/repo" slug or two separate arguments.
func ParseRepoArgs(args []string) (string, string, error) {
	var owner, repo string
	switch len(args) {
	case 1:
		slug := strings.Trim(strings.TrimSpace(args[0]), "/")
		slug = strings.TrimPrefix(slug, "https://github.com/")
		slug = strings.TrimSuffix(slug, ".git")
		parts := strings.Split(slug, "/")
		if len(parts) != 2 {
			return "", "", fmt.Errorf("invalid repository '%s'. expected OWNER/REPO", args[0])
		}
		owner, repo = parts[0], parts[1]
	case 2:
		owner, repo = strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
	default:
		return "", "", fmt.Errorf("expected OWNER/REPO or OWNER REPO (received %d arguments)", len(args))
	}
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("owner and repository name must not be empty")
	}
	return owner, repo, nil
}

// validateSimpleInputs processes and validates all non-repository fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Refresh = input.Refresh
	cfg.NoProgress = input.NoProgress
	cfg.LogLevel = strings.ToLower(input.LogLevel)

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Retry budget ---
	if input.Retries < 0 || input.Retries > MaxRetries {
		return fmt.Errorf("retries must be between 0 and %d (received %d)", MaxRetries, input.Retries)
	}
	cfg.Retries = input.Retries

	// --- 2. Release limit ---
	if input.ReleaseLimit <= 0 || input.ReleaseLimit > MaxReleaseLimit {
		return fmt.Errorf("release-limit must be greater than 0 and cannot exceed %d (received %d)", MaxReleaseLimit, input.ReleaseLimit)
	}
	cfg.ReleaseLimit = input.ReleaseLimit

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// processAPIURL validates the API base URL and makes sure it ends with a slash.
func processAPIURL(cfg *Config, input *ConfigRawInput) error {
	raw := strings.TrimSpace(input.APIURL)
	if raw == "" {
		cfg.APIURL = DefaultAPIURL
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid api-url '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api-url '%s'. scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api-url '%s'. missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	cfg.APIURL = u.String()
	return nil
}

// processRepoArgs resolves the positional repository arguments.
func processRepoArgs(cfg *Config, input *ConfigRawInput) error {
	owner, repo, err := ParseRepoArgs(input.RepoArgs)
	if err != nil {
		return err
	}
	cfg.Owner = owner
	cfg.Repo = repo
	return nil
}

// resolveToken applies the token precedence: flag or REPOPULSE_TOKEN, then GITHUB_TOKEN, then keychain.
// A missing token is not an error since unauthenticated access is allowed.
func resolveToken(cfg *Config, input *ConfigRawInput, creds CredentialStore) {
	switch {
	case strings.TrimSpace(input.Token) != "":
		cfg.Token = strings.TrimSpace(input.Token)
		cfg.TokenSource = "flag"
	case strings.TrimSpace(input.GitHubToken) != "":
		cfg.Token = strings.TrimSpace(input.GitHubToken)
		cfg.TokenSource = "env"
	case creds != nil:
		token, err := creds.Get()
		if err != nil {
			if !errors.Is(err, ErrTokenNotFound) {
				LogDebug("keychain lookup failed", err)
			}
			return
		}
		cfg.Token = token
		cfg.TokenSource = "keychain"
	}
}
