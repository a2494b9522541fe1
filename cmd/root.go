package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/drift/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "drift",
	Short: "Online log template mining",
	Long: `Drift discovers reusable templates in unstructured log streams.

Structurally identical lines collapse into one cluster regardless of
embedded values: numbers, IPs, and other variable tokens are masked
before similar lines are merged under a generalized template.

Examples:
  drift mine /var/log/app.log
  drift tail --snapshot state.json /var/log/app.log
  drift serve --nats-url nats://localhost:4222
  drift match --snapshot state.json "User 42 login from 10.0.0.1"
  drift templates --snapshot state.json --format table`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.drift.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".drift")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DRIFT")
	viper.AutomaticEnv()

	defaults := config.Defaults()
	viper.SetDefault("format", defaults.Format)
	viper.SetDefault("verbose", defaults.Verbose)
	viper.SetDefault("engine.max_depth", defaults.Engine.MaxDepth)
	viper.SetDefault("engine.sim_threshold", defaults.Engine.SimThreshold)
	viper.SetDefault("engine.max_differing_params", defaults.Engine.MaxDifferingParams)
	viper.SetDefault("engine.max_children", defaults.Engine.MaxChildren)
	viper.SetDefault("engine.max_clusters_per_leaf", defaults.Engine.MaxClustersPerLeaf)
	viper.SetDefault("engine.delimiters", defaults.Engine.Delimiters)
	viper.SetDefault("masking.patterns", defaults.Masking.Patterns)
	viper.SetDefault("snapshot.path", defaults.Snapshot.Path)
	viper.SetDefault("snapshot.backend", defaults.Snapshot.Backend)
	viper.SetDefault("snapshot.interval_seconds", defaults.Snapshot.IntervalSeconds)
	viper.SetDefault("nats.url", defaults.NATS.URL)
	viper.SetDefault("nats.subject_in", defaults.NATS.SubjectIn)
	viper.SetDefault("nats.subject_out", defaults.NATS.SubjectOut)
	viper.SetDefault("nats.timeout_seconds", defaults.NATS.TimeoutSeconds)
	viper.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	viper.SetDefault("metrics.addr", defaults.Metrics.Addr)

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// loadConfig unmarshals the effective viper state into a Config.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
