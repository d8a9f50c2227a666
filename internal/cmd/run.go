package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/potpanel/internal/config"
	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/panel"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the panel headless",
	Long: `Run the panel against the configured backends until interrupted.

Backends come from the config file or POTPANEL_* environment variables:
  serial.backend  sim, uart or pty
  gpio.backend    sim or periph

With the pty backend the path of the virtual serial port is printed at
start-up; open it with any terminal program to see echoed samples.

Examples:
  # Simulated board, stop after ten seconds
  potpanel run --duration 10s

  # Real buttons and display on a Raspberry Pi, samples echoed to a UART
  POTPANEL_GPIO_BACKEND=periph POTPANEL_SERIAL_BACKEND=uart potpanel run`,
	RunE: runRun,
}

var (
	runDuration       time.Duration
	runStatusInterval time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().DurationVar(&runDuration, "duration", 0, "Stop after this long (0 runs until interrupted)")
	runCmd.Flags().DurationVar(&runStatusInterval, "status-interval", 0, "Print a status line this often (0 disables)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger, err := newLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	defer watchConfig(logger)()

	hw, err := openHardware(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = hw.Close() }()

	p, err := panel.New(hw.devices, panel.OptionsFromConfig(cfg), panel.WithLogger(logger))
	if err != nil {
		return err
	}
	return runHeadless(cmd, p, hw, cfg, runDuration, runStatusInterval)
}

// runHeadless runs p until interrupted or for duration, printing a status
// line every interval and once more at the end.
func runHeadless(cmd *cobra.Command, p *panel.Panel, hw *hardware, cfg *config.Config, duration, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "potpanel %s: %s\n", p.RunID(), hw.describe(cfg))

	statusCtx, stopStatus := context.WithCancel(ctx)
	statusDone := make(chan struct{})
	go func() {
		defer close(statusDone)
		if interval > 0 {
			printStatus(statusCtx, out, p, interval)
		}
	}()

	err := p.Run(ctx)
	stopStatus()
	<-statusDone
	if err != nil {
		return err
	}
	printStatusLine(out, p.Status())
	return nil
}

// printStatus writes a status line every interval until ctx is done.
func printStatus(ctx context.Context, w io.Writer, p *panel.Panel, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			printStatusLine(w, p.Status())
		}
	}
}

func printStatusLine(w io.Writer, st panel.Status) {
	fmt.Fprintf(w, "sample=%02d input=%d indicator=%d conversions=%d dropped=%d echoed=%d toggles=%d bounces=%d\n",
		st.Sample, st.Channel, st.ActiveIndicator, st.Conversions, st.Dropped, st.Echoed, st.Toggles, st.Spurious)
}
