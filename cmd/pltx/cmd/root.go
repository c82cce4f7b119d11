package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	log      hclog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pltx",
	Short: "Inspect and record PLTX timeseries container files",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = hclog.New(&hclog.LoggerOptions{
			Name:  "pltx",
			Level: hclog.LevelFromString(logLevel),
		})
	},
}

// Execute runs the root command.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func die(format string, args ...any) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: pltx.yaml in $HOME or the working directory)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "info", "log level: trace, debug, info, warn, error")
}

func initConfig() {
	viper.SetEnvPrefix("PLTX")
	viper.AutomaticEnv()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("pltx")
	}
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
