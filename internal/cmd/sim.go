package cmd

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/potpanel/internal/config"
	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/logging"
	"github.com/Iron-Ham/potpanel/internal/panel"
	"github.com/Iron-Ham/potpanel/internal/tui"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the panel on a simulated board with an interactive front panel",
	Long: `Run the panel on a simulated board.

On a terminal this opens the interactive front panel: press 1 and 2 for the
buttons, tab and the arrow keys to turn the potentiometers, e to type a raw
reading. Without a terminal it runs headless and prints a status line every
--status-interval.

GPIO is always simulated. The serial backend follows the configuration, so
'POTPANEL_SERIAL_BACKEND=pty potpanel sim' echoes samples to a virtual port.`,
	RunE: runSim,
}

var (
	simPot0     int
	simPot1     int
	simHeadless bool
	simInterval time.Duration
)

func init() {
	rootCmd.AddCommand(simCmd)

	simCmd.Flags().IntVar(&simPot0, "pot0", -1, "Initial raw reading of input 0 (default sim.channel0_raw)")
	simCmd.Flags().IntVar(&simPot1, "pot1", -1, "Initial raw reading of input 1 (default sim.channel1_raw)")
	simCmd.Flags().BoolVar(&simHeadless, "headless", false, "Do not open the front panel even on a terminal")
	simCmd.Flags().DurationVar(&simInterval, "status-interval", time.Second, "Status line interval when headless")
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	cfg.GPIO.Backend = "sim"
	if simPot0 >= 0 {
		cfg.Sim.Channel0Raw = clampRaw(simPot0, cfg.ADC.ResolutionBits)
	}
	if simPot1 >= 0 {
		cfg.Sim.Channel1Raw = clampRaw(simPot1, cfg.ADC.ResolutionBits)
	}

	interactive := !simHeadless && term.IsTerminal(int(os.Stdout.Fd()))

	logCfg := cfg.Logging
	if interactive && logCfg.Dir == "" {
		// stderr shares the screen with the front panel.
		logCfg.Enabled = false
	}
	logger, err := newLogger(logCfg, cmd.ErrOrStderr())
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

	if !interactive {
		return runHeadless(cmd, p, hw, cfg, 0, simInterval)
	}
	return runFrontPanel(cmd.Context(), p, hw, cfg, logger)
}

func runFrontPanel(ctx context.Context, p *panel.Panel, hw *hardware, cfg *config.Config, logger *logging.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.New(p, hw.board, tui.Options{PressHold: cfg.Sim.PressHold})
	defer model.Close()
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if hw.serialName != "" {
		logger.Info("serial echo", "port", hw.serialName)
	}

	// A failed panel closes the front panel so its error is not hidden.
	runErr := make(chan error, 1)
	go func() {
		runErr <- p.Run(ctx)
		prog.Quit()
	}()

	_, tuiErr := prog.Run()
	cancel()
	if err := <-runErr; err != nil {
		return err
	}
	if tuiErr != nil && !errors.Is(tuiErr, tea.ErrProgramKilled) {
		return errors.Wrap(tuiErr, "front panel")
	}
	return nil
}

// clampRaw limits a non-negative --pot value to the converter's full scale.
func clampRaw(v int, resolutionBits uint) uint16 {
	return uint16(min(v, int(1)<<resolutionBits-1))
}
