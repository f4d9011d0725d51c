package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
)

const (
	// ConfigDir holds the optional local config file
	ConfigDir = ".actions"

	DefaultNetworksFile  = "networks.toml"
	DefaultArtifactPath  = "artifacts/contracts/MultiSigActions.sol/MultiSigActions.json"
	DefaultRegistryPath  = "actions_addresses.json"
	DefaultFundingAmount = "0.00003"
	DefaultTargetValue   = "10"
	DefaultCurrency      = "usd"
	DefaultOracleBaseURL = "https://api.coingecko.com/api/v3"
)

// flagKeys maps CLI flag names to config keys where they differ
var flagKeys = map[string]string{
	"mode":            "funding.mode",
	"amount":          "funding.amount",
	"target-value":    "funding.target_value",
	"currency":        "funding.currency",
	"rounding":        "funding.rounding",
	"registry":        "registry.path",
	"registry-format": "registry.format",
	"non-interactive": "non_interactive",
	"log-level":       "log_level",
	"networks-file":   "networks_file",
	"confirm-timeout": "confirm_timeout",
	"metrics-file":    "metrics_file",
	"project-root":    "project_root",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		NetworksFile:   resolvePath(projectRoot, v.GetString("networks_file")),
		ArtifactPath:   resolvePath(projectRoot, v.GetString("artifact")),
		Debug:          v.GetBool("debug"),
		LogLevel:       v.GetString("log_level"),
		NonInteractive: v.GetBool("non_interactive"),
		AssumeYes:      v.GetBool("yes"),
		Timeout:        v.GetDuration("timeout"),
		ConfirmTimeout: v.GetDuration("confirm_timeout"),
		MetricsFile:    v.GetString("metrics_file"),
		Registry: config.RegistryConfig{
			Path:   resolvePath(projectRoot, v.GetString("registry.path")),
			Format: config.RegistryFormat(strings.ToLower(v.GetString("registry.format"))),
		},
		Funding: config.FundingConfig{
			Mode:        domain.FundingMode(strings.ToLower(v.GetString("funding.mode"))),
			Amount:      v.GetString("funding.amount"),
			TargetValue: v.GetString("funding.target_value"),
			Currency:    strings.ToLower(v.GetString("funding.currency")),
			Rounding:    domain.RoundingPolicy(strings.ToLower(v.GetString("funding.rounding"))),
		},
		Oracle: config.OracleConfig{
			BaseURL:       v.GetString("oracle.base_url"),
			APIKey:        v.GetString("oracle.api_key"),
			Timeout:       v.GetDuration("oracle.timeout"),
			Retries:       v.GetInt("oracle.retries"),
			RetryInterval: v.GetDuration("oracle.retry_interval"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	if networkName := v.GetString("network"); networkName != "" {
		resolver := NewNetworkResolver(cfg.NetworksFile)
		network, err := resolver.Resolve(context.Background(), networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail late in a run
func Validate(cfg *config.RuntimeConfig) error {
	switch cfg.Funding.Mode {
	case domain.FundingModeFixed, domain.FundingModeMarket:
	default:
		return fmt.Errorf("invalid funding.mode %q (want fixed or market)", cfg.Funding.Mode)
	}

	policy, err := domain.ParseRoundingPolicy(string(cfg.Funding.Rounding))
	if err != nil {
		return fmt.Errorf("invalid funding.rounding: %w", err)
	}
	cfg.Funding.Rounding = policy

	switch cfg.Registry.Format {
	case "":
		cfg.Registry.Format = config.RegistryFormatFlat
	case config.RegistryFormatFlat, config.RegistryFormatEnvelope:
	default:
		return fmt.Errorf("invalid registry.format %q (want flat or envelope)", cfg.Registry.Format)
	}

	if cfg.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle.timeout must be positive, got %s", cfg.Oracle.Timeout)
	}
	if cfg.Oracle.Retries < 0 {
		return fmt.Errorf("oracle.retries must not be negative")
	}
	if cfg.ConfirmTimeout < 0 || cfg.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// FindProjectRoot walks up from current directory to find networks.toml.
// Falls back to the working directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, DefaultNetworksFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	loadEnvFiles(projectRoot)

	v := viper.New()

	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ConfigDir))

	v.SetEnvPrefix("ACTIONS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("project_root", projectRoot)
	v.SetDefault("networks_file", DefaultNetworksFile)
	v.SetDefault("artifact", DefaultArtifactPath)
	v.SetDefault("registry.path", DefaultRegistryPath)
	v.SetDefault("registry.format", string(config.RegistryFormatFlat))
	v.SetDefault("funding.mode", string(domain.FundingModeFixed))
	v.SetDefault("funding.amount", DefaultFundingAmount)
	v.SetDefault("funding.target_value", DefaultTargetValue)
	v.SetDefault("funding.currency", DefaultCurrency)
	v.SetDefault("funding.rounding", string(domain.RoundTruncate))
	v.SetDefault("oracle.base_url", DefaultOracleBaseURL)
	v.SetDefault("oracle.timeout", "10s")
	v.SetDefault("oracle.retries", 0)
	v.SetDefault("oracle.retry_interval", "2s")
	v.SetDefault("confirm_timeout", "5m")
	v.SetDefault("timeout", "0s")
	v.SetDefault("log_level", "warn")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("yes", false)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		BindFlags(v, cmd.Flags())
	}

	return v
}

// BindFlags binds every flag to its config key
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})
}

// loadEnvFiles loads .env and .env.local without overriding the environment
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			// Log warning but don't fail
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

