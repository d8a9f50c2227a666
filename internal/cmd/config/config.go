// Package config provides CLI commands for managing potpanel configuration.
package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/potpanel/internal/config"
)

// fs is where config files are read and written. Tests swap in a memory
// filesystem.
var fs = afero.NewOsFs()

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify potpanel configuration",
	Long: `View or modify potpanel configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  potpanel config set adc.trigger_period_ticks 100
  potpanel config set scheduler.tick 500us
  potpanel config set serial.backend pty
  potpanel config set gpio.digit_pins GPIO23,GPIO24

The value is converted to the key's type and the whole configuration is
validated before anything is written. Run 'potpanel config keys' for the
list of keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys and their defaults",
	RunE:  runConfigKeys,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/potpanel/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var initForce bool

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := marshalConfig(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func marshalConfig(cfg *appconfig.Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func defaults() *viper.Viper {
	v := viper.New()
	appconfig.SetDefaultsOn(v)
	return v
}

// settableKeys returns every key that has a default, sorted.
func settableKeys() []string {
	keys := defaults().AllKeys()
	sort.Strings(keys)
	return keys
}

// coerce converts value to the type of def.
func coerce(def any, value string) (any, error) {
	switch def.(type) {
	case string:
		return value, nil
	case bool:
		return cast.ToBoolE(value)
	case int:
		return cast.ToIntE(value)
	case uint:
		return cast.ToUintE(value)
	case uint16:
		return cast.ToUint16E(value)
	case uint32:
		return cast.ToUint32E(value)
	case time.Duration:
		return cast.ToDurationE(value)
	case []string:
		if value == "" {
			return []string{}, nil
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", def)
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	return setValue(cmd, appconfig.ConfigFile(), args[0], args[1])
}

// setValue writes key=value into the config file at path, keeping every
// other value already in the file.
func setValue(cmd *cobra.Command, path, key, value string) error {
	key = strings.ToLower(key)
	if !slices.Contains(settableKeys(), key) {
		return fmt.Errorf("unknown configuration key: %s\nRun 'potpanel config keys' to see valid keys", key)
	}

	v := viper.New()
	v.SetFs(fs)
	appconfig.SetDefaultsOn(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if exists, _ := afero.Exists(fs, path); exists {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	// The default carries the Go type; a value read from YAML may not.
	typed, err := coerce(defaults().Get(key), value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	v.Set(key, typed)

	if _, err := appconfig.LoadFrom(v); err != nil {
		return err
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typed)
	fmt.Fprintf(out, "Config saved to %s\n", path)
	return nil
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	v := defaults()
	out := cmd.OutOrStdout()
	for _, k := range settableKeys() {
		fmt.Fprintf(out, "%-28s %v\n", k, v.Get(k))
	}
	return nil
}

const configHeader = `# potpanel configuration
#
# Timing is in scheduler ticks; scheduler.tick sets the tick length.
# serial.backend: sim, uart or pty
# gpio.backend:   sim or periph
# Every key can be overridden with POTPANEL_<SECTION>_<KEY>, e.g.
# POTPANEL_SERIAL_BACKEND=pty.

`

func runConfigInit(cmd *cobra.Command, args []string) error {
	return writeDefaultConfig(cmd, appconfig.ConfigFile(), initForce)
}

func writeDefaultConfig(cmd *cobra.Command, path string, force bool) error {
	if exists, _ := afero.Exists(fs, path); exists && !force {
		return fmt.Errorf("config file already exists at %s\nUse 'potpanel config set' to modify values or --force to overwrite", path)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := marshalConfig(appconfig.Default())
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", appconfig.ConfigFile())
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: POTPANEL_* (e.g., POTPANEL_SERIAL_BACKEND)")
	return nil
}
