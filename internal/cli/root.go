package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sectorbrief/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sectorbrief",
	Short: "Sectorbrief - daily sector intelligence briefs from LLM research",
	Long: `Sectorbrief synthesizes daily intelligence briefs per industry sector
(defense, pharma, energy) from an external LLM-backed research service.

Each cycle it fetches fresh research prose, extracts structured fields
(summary, key developments, conflict updates, stock highlights, sources),
enriches ticker mentions with live market quotes, and stores exactly one
brief per sector per day.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sectorbrief v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.sectorbrief/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.sectorbrief")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SECTORBRIEF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration: defaults, then config
// file and SECTORBRIEF_* environment, then well-known API key variables.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Research.APIKey == "" {
		cfg.Research.APIKey = os.Getenv("PERPLEXITY_API_KEY")
	}
	if cfg.Analytics.APIKey == "" {
		cfg.Analytics.APIKey = cfg.Research.APIKey
	}
	if cfg.Market.APIKey == "" {
		cfg.Market.APIKey = os.Getenv("EODHD_API_TOKEN")
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" && !viper.IsSet("database.dsn") {
		cfg.Database.DSN = dsn
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}
