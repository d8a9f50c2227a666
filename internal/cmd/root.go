// Package cmd implements the potpanel command line.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmd "github.com/Iron-Ham/potpanel/internal/cmd/config"
	"github.com/Iron-Ham/potpanel/internal/config"
	"github.com/Iron-Ham/potpanel/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "potpanel",
	Short: "Potentiometer panel controller",
	Long: `potpanel samples two potentiometers through an analog converter, shows the
selected reading on a two-digit seven-segment display, echoes it over serial
on a button press and flips between inputs on a second button.

Run it against real GPIO with 'potpanel run', or against a simulated board
with 'potpanel sim'.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/potpanel/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "",
		"override logging.level ("+strings.ToLower(strings.Join(logging.ValidLevels(), ", "))+")")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	configcmd.Register(rootCmd)
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("POTPANEL")
	// POTPANEL_SERIAL_BACKEND for serial.backend
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine: defaults apply.
	_ = viper.ReadInConfig()
}
