package cmd

import (
	"io"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/potpanel/internal/config"
	"github.com/Iron-Ham/potpanel/internal/logging"
)

// newLogger builds the root logger from cfg. With no log directory entries
// go to stderr.
func newLogger(cfg config.LoggingConfig, stderr io.Writer) (*logging.Logger, error) {
	if !cfg.Enabled {
		return logging.NopLogger(), nil
	}
	if cfg.Dir == "" {
		return logging.NewWriterLogger(stderr, cfg.Level), nil
	}
	return logging.NewLoggerWithRotation(cfg.Dir, cfg.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}

// watchConfig applies log level changes from the active config file until
// the returned stop function is called. Without a config file it does
// nothing.
func watchConfig(logger *logging.Logger) (stop func()) {
	path := viper.ConfigFileUsed()
	if path == "" {
		return func() {}
	}

	w, err := config.NewWatcher(path, func(cfg *config.Config, err error) {
		if err != nil {
			logger.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if next := logging.ParseLevel(cfg.Logging.Level); next != logger.Level() {
			logger.Info("log level changed", "from", logger.Level(), "to", next)
			logger.SetLevel(next)
		}
	})
	if err != nil {
		logger.Warn("config watch unavailable", "path", path, "error", err)
		return func() {}
	}
	w.Start()
	logger.Debug("watching config", "path", w.Path())
	return w.Stop
}
