package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn     string
	cfgFile string
	verbose bool
)

var RootCmd = &cobra.Command{
	Use:   "db-classify",
	Short: "Keep SQL Server sensitivity classifications in sync with schema changes",
	Long: `db-classify compares two schema snapshots, works out which column
sensitivity classifications must be created or removed, and emits idempotent
T-SQL (extended properties + ADD/DROP SENSITIVITY CLASSIFICATION) for them.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		InitLogging(verbose)
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug().Str("file", used).Msg("using config file")
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("fatal error")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-classify.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "SQL Server connection string (overrides the active database in config)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.SetDefault("settings.default_schema", "dbo")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-classify")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DBCLASSIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "failed to read config %s: %v\n", cfgFile, err)
		}
	}
}
