package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// CLIConfig is the merged flag/config-file/environment configuration shared
// by all subcommands. Flags win over the config file, which wins over the
// built-in defaults.
type CLIConfig struct {
	Workers      int
	Nameserver   string
	Keywords     []string
	HostCacheDir string
	CVSSCacheDir string
	ShodanAPIKey string
}

const defaultWorkers = 10

func loadConfig(cmd *cobra.Command) (CLIConfig, error) {
	cfg := CLIConfig{
		Workers:      defaultWorkers,
		Nameserver:   constants.DefaultNameserver,
		HostCacheDir: constants.HostCacheDir,
		CVSSCacheDir: constants.CVSSCacheDir,
	}

	if v := viper.GetInt("workers"); v > 0 {
		cfg.Workers = v
	}
	if v := viper.GetString("nameserver"); v != "" {
		cfg.Nameserver = v
	}
	if v := viper.GetStringSlice("keywords"); len(v) > 0 {
		cfg.Keywords = v
	}
	if v := viper.GetString("host_cache_dir"); v != "" {
		cfg.HostCacheDir = v
	}
	if v := viper.GetString("cvss_cache_dir"); v != "" {
		cfg.CVSSCacheDir = v
	}

	// Flags override the file.
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		if v, err := cmd.Flags().GetInt("workers"); err == nil {
			cfg.Workers = v
		}
	}
	if f := cmd.Flags().Lookup("nameserver"); f != nil && f.Changed {
		if v, err := cmd.Flags().GetString("nameserver"); err == nil {
			cfg.Nameserver = v
		}
	}

	// Secrets come from the environment only, never the config file.
	cfg.ShodanAPIKey = os.Getenv("SHODAN_API_KEY")

	return cfg, nil
}
