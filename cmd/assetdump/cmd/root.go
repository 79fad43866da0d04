package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"assetdump/internal/config"
)

var (
	cfgFile      string
	manifestPath string
)

var rootCmd = &cobra.Command{
	Use:   "assetdump",
	Short: "Incrementally materialize build assets onto the filesystem",
	Long: `assetdump resolves named assets from a manifest of build formulas and
writes them under an output root, creating directories as needed.

In watch mode it runs continuously, re-dumping only the assets whose
inputs or formulas changed since the last pass. Change detection is
persisted, so incremental behavior survives restarts.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.assetdump.yaml)")
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", config.ManifestPath(), "path to the asset manifest")

	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("assetdump")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".assetdump")
		viper.AddConfigPath(".")
	}

	viper.BindPFlags(rootCmd.PersistentFlags())
	viper.SetDefault("output", config.OutputRoot())
	viper.SetDefault("period", 1)

	err := viper.ReadInConfig()

	// ReadInConfig returns an error when no config file exists; only an
	// explicitly named file is required to be readable.
	if viper.ConfigFileUsed() != "" && err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %s\n", err)
		os.Exit(2)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logrus.Debugf("using config file %s", used)
	}
}
