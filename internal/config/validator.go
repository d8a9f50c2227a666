package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "adc.scale_shift")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateTiming()...)
	errors = append(errors, c.validateADC()...)
	errors = append(errors, c.validateSerial()...)
	errors = append(errors, c.validateGPIO()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateTiming() []ValidationError {
	var errors []ValidationError

	if c.Scheduler.Tick <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scheduler.tick",
			Value:   c.Scheduler.Tick,
			Message: "must be positive",
		})
	}
	if c.ADC.TriggerPeriodTicks == 0 {
		errors = append(errors, ValidationError{
			Field:   "adc.trigger_period_ticks",
			Value:   c.ADC.TriggerPeriodTicks,
			Message: "must be at least 1",
		})
	}
	if c.Display.DigitHoldTicks == 0 {
		errors = append(errors, ValidationError{
			Field:   "display.digit_hold_ticks",
			Value:   c.Display.DigitHoldTicks,
			Message: "must be at least 1",
		})
	}
	// The mailbox holds one sample, so a trigger period shorter than one
	// display refresh drops most conversions on a loaded host.
	if c.ADC.TriggerPeriodTicks != 0 && c.Display.DigitHoldTicks != 0 &&
		c.ADC.TriggerPeriodTicks < 2*c.Display.DigitHoldTicks {
		errors = append(errors, ValidationError{
			Field:   "adc.trigger_period_ticks",
			Value:   c.ADC.TriggerPeriodTicks,
			Message: fmt.Sprintf("must be at least one display refresh (%d ticks)", 2*c.Display.DigitHoldTicks),
		})
	}

	return errors
}

func (c *Config) validateADC() []ValidationError {
	var errors []ValidationError

	if c.ADC.ResolutionBits == 0 || c.ADC.ResolutionBits > 16 {
		errors = append(errors, ValidationError{
			Field:   "adc.resolution_bits",
			Value:   c.ADC.ResolutionBits,
			Message: "must be between 1 and 16",
		})
	}
	if c.ADC.ResolutionBits > c.ADC.ScaleShift && c.ADC.ResolutionBits-c.ADC.ScaleShift > 8 {
		errors = append(errors, ValidationError{
			Field:   "adc.scale_shift",
			Value:   c.ADC.ScaleShift,
			Message: fmt.Sprintf("must be at least %d so scaled samples fit in 8 bits", c.ADC.ResolutionBits-8),
		})
	}
	if c.ADC.InitialChannel != 0 && c.ADC.InitialChannel != 1 {
		errors = append(errors, ValidationError{
			Field:   "adc.initial_channel",
			Value:   c.ADC.InitialChannel,
			Message: "must be 0 or 1",
		})
	}
	if c.Indicators.InitialActive != 0 && c.Indicators.InitialActive != 1 {
		errors = append(errors, ValidationError{
			Field:   "indicators.initial_active",
			Value:   c.Indicators.InitialActive,
			Message: "must be 0 or 1",
		})
	}

	return errors
}

func (c *Config) validateSerial() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidSerialBackends(), c.Serial.Backend) {
		errors = append(errors, ValidationError{
			Field:   "serial.backend",
			Value:   c.Serial.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidSerialBackends(), ", ")),
		})
	}
	if c.Serial.Backend == "uart" {
		if c.Serial.Device == "" {
			errors = append(errors, ValidationError{
				Field:   "serial.device",
				Value:   c.Serial.Device,
				Message: "is required for the uart backend",
			})
		}
		if c.Serial.Baud <= 0 {
			errors = append(errors, ValidationError{
				Field:   "serial.baud",
				Value:   c.Serial.Baud,
				Message: "must be positive",
			})
		}
	}

	return errors
}

func (c *Config) validateGPIO() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidGPIOBackends(), c.GPIO.Backend) {
		errors = append(errors, ValidationError{
			Field:   "gpio.backend",
			Value:   c.GPIO.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidGPIOBackends(), ", ")),
		})
		return errors
	}
	if c.GPIO.Backend != "periph" {
		return errors
	}

	if c.GPIO.EchoPin == "" || c.GPIO.TogglePin == "" {
		errors = append(errors, ValidationError{
			Field:   "gpio.echo_pin",
			Value:   c.GPIO.EchoPin + "," + c.GPIO.TogglePin,
			Message: "both button pins are required",
		})
	}
	counts := []struct {
		field string
		pins  []string
		want  int
	}{
		{"gpio.indicator_pins", c.GPIO.IndicatorPins, 2},
		{"gpio.segment_pins", c.GPIO.SegmentPins, 7},
		{"gpio.digit_pins", c.GPIO.DigitPins, 2},
	}
	for _, pc := range counts {
		if len(pc.pins) != pc.want {
			errors = append(errors, ValidationError{
				Field:   pc.field,
				Value:   pc.pins,
				Message: fmt.Sprintf("must list exactly %d pins", pc.want),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
