/*
	Copyright 2025 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	fitCmd "github.com/mpapenbr/f1-pitstrategy-go/pkg/cmd/fit"
	migrateCmd "github.com/mpapenbr/f1-pitstrategy-go/pkg/cmd/migrate"
	modelsCmd "github.com/mpapenbr/f1-pitstrategy-go/pkg/cmd/models"
	recommendCmd "github.com/mpapenbr/f1-pitstrategy-go/pkg/cmd/recommend"
	reportCmd "github.com/mpapenbr/f1-pitstrategy-go/pkg/cmd/report"
	validateCmd "github.com/mpapenbr/f1-pitstrategy-go/pkg/cmd/validate"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/config"
	"github.com/mpapenbr/f1-pitstrategy-go/version"
)

const envPrefix = "F1PS"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "pitstrategy",
	Short:   "Pit stop decision support for a single race car",
	Long:    ``,
	Version: version.FullVersion,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:lll // readability
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.pitstrategy.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DB, "db",
		"",
		"Connection string for the database (empty: no database persistence)")
	rootCmd.PersistentFlags().StringVar(&config.DataDir, "data-dir",
		"data/races",
		"Directory containing race fixture files")
	rootCmd.PersistentFlags().StringVar(&config.ModelsFile, "models",
		"data/models/degradation.json",
		"Path of the degradation model snapshot")
	rootCmd.PersistentFlags().StringVar(&config.PitLossFile, "pit-loss-config", "",
		"YAML file with per-track pit loss overrides")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format", "text",
		"Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.LogConfig, "log-config", "",
		"Path to file with zapfilter rules")
	rootCmd.PersistentFlags().IntVar(&config.WindowLaps, "window-laps", 10,
		"Number of future pit laps to evaluate")
	rootCmd.PersistentFlags().Float64Var(&config.InitialFuelKg, "initial-fuel", 110.0,
		"Fuel mass (kg) at start of lap 1")
	rootCmd.PersistentFlags().Float64Var(&config.FuelPerLapKg, "fuel-per-lap", 1.8,
		"Fuel consumption (kg) per lap")

	// add commands here
	rootCmd.AddCommand(fitCmd.NewFitCmd())
	rootCmd.AddCommand(migrateCmd.NewMigrateCmd())
	rootCmd.AddCommand(modelsCmd.NewModelsCmd())
	rootCmd.AddCommand(recommendCmd.NewRecommendCmd())
	rootCmd.AddCommand(reportCmd.NewReportCmd())
	rootCmd.AddCommand(validateCmd.NewValidateCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".pitstrategy" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pitstrategy")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --log-level to F1PS_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
