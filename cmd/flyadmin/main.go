package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aspen-cloud/fly-admin/cmd/flyadmin/commands"
	"github.com/aspen-cloud/fly-admin/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "flyadmin",
	Short: "Fly.io platform admin CLI",
	Long: `A command-line interface for administering Fly.io apps.

It talks to both the GraphQL API and the Machines REST API and covers apps,
machines, volumes, secrets, IP addresses, organizations and regions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.flyadmin/config.yml)")
	rootCmd.PersistentFlags().StringP("token", "t", "", "API token (env FLY_API_TOKEN)")
	rootCmd.PersistentFlags().String("api-url", "", "Machines API base URL")
	rootCmd.PersistentFlags().String("graphql-url", "", "GraphQL API base URL")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log HTTP traffic to stderr")
	rootCmd.PersistentFlags().String("events-url", "", "NATS URL for mutation events")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag(constants.KeyAPIToken, rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag(constants.KeyAPIURL, rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag(constants.KeyGraphQLURL, rootCmd.PersistentFlags().Lookup("graphql-url"))
	_ = viper.BindPFlag(constants.KeyOutput, rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag(constants.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag(constants.KeyEventsURL, rootCmd.PersistentFlags().Lookup("events-url"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewAuthCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewAppsCommand())
	rootCmd.AddCommand(commands.NewMachinesCommand())
	rootCmd.AddCommand(commands.NewVolumesCommand())
	rootCmd.AddCommand(commands.NewSecretsCommand())
	rootCmd.AddCommand(commands.NewOrgsCommand())
	rootCmd.AddCommand(commands.NewIPsCommand())
	rootCmd.AddCommand(commands.NewRegionsCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.flyadmin/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType(constants.ConfigFileType)
		viper.SetConfigName(constants.ConfigFileName)
	}

	// FLY_API_TOKEN, FLY_API_URL, FLY_EVENTS_URL, ...
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool(constants.KeyVerbose) {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
