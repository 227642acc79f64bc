package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.SugaredLogger
	cliCfg  CLIConfig
)

var rootCmd = &cobra.Command{
	Use:   "occulusint",
	Short: "Passive external attack-surface discovery and risk scoring",
	Long: `OcculusINT maps an organization's external domain footprint and scores
it without ever touching the targets: certificate transparency, DNS, WHOIS
and public host-intelligence sources only.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first so SHODAN_API_KEY can live next to the project.
		_ = godotenv.Load()

		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".occulusint")
			viper.SetConfigType("yaml")
		}
		_ = viper.ReadInConfig()

		var err error
		cliCfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}

		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialise logger: %w", err)
		}
		logger = l.Sugar()
		return nil
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	// Keep stdout free for pipeline output.
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.occulusint.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (development) logging")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "concurrent workers for batch steps")
	rootCmd.PersistentFlags().String("nameserver", "", "DNS nameserver as host:port")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(enumCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(vulnCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}
