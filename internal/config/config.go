package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the complete potpanel configuration
type Config struct {
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" yaml:"scheduler"`
	ADC        ADCConfig        `mapstructure:"adc" yaml:"adc"`
	Display    DisplayConfig    `mapstructure:"display" yaml:"display"`
	Buttons    ButtonsConfig    `mapstructure:"buttons" yaml:"buttons"`
	Indicators IndicatorsConfig `mapstructure:"indicators" yaml:"indicators"`
	Serial     SerialConfig     `mapstructure:"serial" yaml:"serial"`
	GPIO       GPIOConfig       `mapstructure:"gpio" yaml:"gpio"`
	Sim        SimConfig        `mapstructure:"sim" yaml:"sim"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// SchedulerConfig controls the timebase every delay is expressed in
type SchedulerConfig struct {
	// Tick is the duration of one scheduler tick (default: 1ms)
	Tick time.Duration `mapstructure:"tick" yaml:"tick"`
}

// ADCConfig controls the conversion trigger and sample scaling
type ADCConfig struct {
	// TriggerPeriodTicks is how often a conversion is started (default: 200).
	// Must be long enough for the sampling task to drain the mailbox.
	TriggerPeriodTicks uint32 `mapstructure:"trigger_period_ticks" yaml:"trigger_period_ticks"`
	// ResolutionBits is the width of a raw conversion result (default: 12)
	ResolutionBits uint `mapstructure:"resolution_bits" yaml:"resolution_bits"`
	// ScaleShift is the right shift applied to raw results (default: 6, 12-bit -> 0..63)
	ScaleShift uint `mapstructure:"scale_shift" yaml:"scale_shift"`
	// InitialChannel is the analog input selected at start-up (0 or 1)
	InitialChannel int `mapstructure:"initial_channel" yaml:"initial_channel"`
}

// DisplayConfig controls digit multiplexing
type DisplayConfig struct {
	// DigitHoldTicks is how long each digit stays lit per refresh (default: 5)
	DigitHoldTicks uint32 `mapstructure:"digit_hold_ticks" yaml:"digit_hold_ticks"`
}

// ButtonsConfig controls button handling
type ButtonsConfig struct {
	// DebounceTicks is the settling delay before lines are re-read (default: 2)
	DebounceTicks uint32 `mapstructure:"debounce_ticks" yaml:"debounce_ticks"`
}

// IndicatorsConfig controls the two indicator outputs
type IndicatorsConfig struct {
	// InitialActive is the indicator lit at start-up (0 or 1, default: 1)
	InitialActive int `mapstructure:"initial_active" yaml:"initial_active"`
}

// SerialConfig selects the serial transmit backend
type SerialConfig struct {
	// Backend is one of "sim", "uart", "pty"
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Device is the UART device path (uart backend only)
	Device string `mapstructure:"device" yaml:"device"`
	// Baud is the UART baud rate (default: 115200)
	Baud int `mapstructure:"baud" yaml:"baud"`
}

// GPIOConfig selects the GPIO backend and pin names
type GPIOConfig struct {
	// Backend is one of "sim", "periph"
	Backend string `mapstructure:"backend" yaml:"backend"`
	// EchoPin is the button line that echoes the sample over serial
	EchoPin string `mapstructure:"echo_pin" yaml:"echo_pin"`
	// TogglePin is the button line that flips the selected channel
	TogglePin string `mapstructure:"toggle_pin" yaml:"toggle_pin"`
	// IndicatorPins are the two indicator outputs
	IndicatorPins []string `mapstructure:"indicator_pins" yaml:"indicator_pins"`
	// SegmentPins are the seven segment outputs a..g
	SegmentPins []string `mapstructure:"segment_pins" yaml:"segment_pins"`
	// DigitPins are the enable outputs for digit positions A and B
	DigitPins []string `mapstructure:"digit_pins" yaml:"digit_pins"`
}

// SimConfig controls the simulated board
type SimConfig struct {
	// Channel0Raw and Channel1Raw are the raw potentiometer readings
	Channel0Raw uint16 `mapstructure:"channel0_raw" yaml:"channel0_raw"`
	Channel1Raw uint16 `mapstructure:"channel1_raw" yaml:"channel1_raw"`
	// ConversionTime is the delay between trigger and conversion-complete
	ConversionTime time.Duration `mapstructure:"conversion_time" yaml:"conversion_time"`
	// PressHold is how long a simulated button press holds the line low
	PressHold time.Duration `mapstructure:"press_hold" yaml:"press_hold"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logs are written at all
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum log level: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the log directory; empty logs to stderr
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB rotates the log file at this size (0 disables rotation)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated files
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// Default returns a Config with the panel's stock timing and a simulated board
func Default() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			Tick: time.Millisecond,
		},
		ADC: ADCConfig{
			TriggerPeriodTicks: 200,
			ResolutionBits:     12,
			ScaleShift:         6,
			InitialChannel:     0,
		},
		Display: DisplayConfig{
			DigitHoldTicks: 5,
		},
		Buttons: ButtonsConfig{
			DebounceTicks: 2,
		},
		Indicators: IndicatorsConfig{
			InitialActive: 1,
		},
		Serial: SerialConfig{
			Backend: "sim",
			Device:  "/dev/ttyUSB0",
			Baud:    115200,
		},
		GPIO: GPIOConfig{
			Backend:       "sim",
			EchoPin:       "GPIO17",
			TogglePin:     "GPIO27",
			IndicatorPins: []string{"GPIO5", "GPIO6"},
			SegmentPins:   []string{"GPIO12", "GPIO13", "GPIO16", "GPIO19", "GPIO20", "GPIO21", "GPIO26"},
			DigitPins:     []string{"GPIO23", "GPIO24"},
		},
		Sim: SimConfig{
			Channel0Raw:    45 << 6, // displays 45
			Channel1Raw:    31 << 6,
			ConversionTime: 100 * time.Microsecond,
			PressHold:      80 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// TriggerPeriod returns the conversion trigger period as a time.Duration
func (c *Config) TriggerPeriod() time.Duration {
	return time.Duration(c.ADC.TriggerPeriodTicks) * c.Scheduler.Tick
}

// SetDefaults registers default values with viper
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers default values on the given viper instance
func SetDefaultsOn(v *viper.Viper) {
	d := Default()

	v.SetDefault("scheduler.tick", d.Scheduler.Tick)

	v.SetDefault("adc.trigger_period_ticks", d.ADC.TriggerPeriodTicks)
	v.SetDefault("adc.resolution_bits", d.ADC.ResolutionBits)
	v.SetDefault("adc.scale_shift", d.ADC.ScaleShift)
	v.SetDefault("adc.initial_channel", d.ADC.InitialChannel)

	v.SetDefault("display.digit_hold_ticks", d.Display.DigitHoldTicks)
	v.SetDefault("buttons.debounce_ticks", d.Buttons.DebounceTicks)
	v.SetDefault("indicators.initial_active", d.Indicators.InitialActive)

	v.SetDefault("serial.backend", d.Serial.Backend)
	v.SetDefault("serial.device", d.Serial.Device)
	v.SetDefault("serial.baud", d.Serial.Baud)

	v.SetDefault("gpio.backend", d.GPIO.Backend)
	v.SetDefault("gpio.echo_pin", d.GPIO.EchoPin)
	v.SetDefault("gpio.toggle_pin", d.GPIO.TogglePin)
	v.SetDefault("gpio.indicator_pins", d.GPIO.IndicatorPins)
	v.SetDefault("gpio.segment_pins", d.GPIO.SegmentPins)
	v.SetDefault("gpio.digit_pins", d.GPIO.DigitPins)

	v.SetDefault("sim.channel0_raw", d.Sim.Channel0Raw)
	v.SetDefault("sim.channel1_raw", d.Sim.Channel1Raw)
	v.SetDefault("sim.conversion_time", d.Sim.ConversionTime)
	v.SetDefault("sim.press_hold", d.Sim.PressHold)

	v.SetDefault("logging.enabled", d.Logging.Enabled)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.compress", d.Logging.Compress)
}

// decodeHook lets config files and env vars spell durations as "5ms" and
// pin lists as comma-separated strings.
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, or the defaults if it does not load
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "potpanel")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".potpanel"
	}
	return filepath.Join(home, ".config", "potpanel")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidSerialBackends returns the list of valid serial.backend values
func ValidSerialBackends() []string {
	return []string{"sim", "uart", "pty"}
}

// ValidGPIOBackends returns the list of valid gpio.backend values
func ValidGPIOBackends() []string {
	return []string{"sim", "periph"}
}
