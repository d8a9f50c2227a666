package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/potpanel/internal/config"
	perrors "github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/logging"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("POTPANEL_LOGGING_ENABLED", "false")

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "potpanel" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "potpanel")
	}

	cmdMap := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, want := range []string{"run", "sim", "logs", "version", "config"} {
		if !cmdMap[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}

	usage := rootCmd.PersistentFlags().Lookup("log-level").Usage
	if !strings.Contains(usage, "debug, info, warn, error") {
		t.Errorf("--log-level usage = %q, want the valid levels", usage)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, rootCmd, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "potpanel "+Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestRunCommand_SimulatedBoard(t *testing.T) {
	out, err := executeCommand(t, rootCmd, "run", "--duration", "300ms")
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "gpio=sim serial=sim") {
		t.Errorf("missing backend banner:\n%s", out)
	}
	// The first conversion happens at start-up; the default pot reads 45.
	if !strings.Contains(out, "sample=45 input=0 indicator=1") {
		t.Errorf("missing final status:\n%s", out)
	}
}

func TestLogsCommand(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(dir, "debug")
	if err != nil {
		t.Fatal(err)
	}
	run := logger.WithRun("run-1")
	run.WithTask("button").Info("sample echoed", "sample", 45)
	run.WithTask("sampling").Debug("sample stored", "sample", 45)
	run.WithTask("button").Warn("device error", "error", "tx stuck")
	logger.WithRun("run-2").WithTask("button").Info("channel selected")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "by task",
			args:    []string{"--task", "button"},
			want:    []string{"sample echoed", "device error", "channel selected"},
			notWant: []string{"sample stored"},
		},
		{
			name:    "by level",
			args:    []string{"--level", "warn"},
			want:    []string{"device error"},
			notWant: []string{"sample echoed"},
		},
		{
			name:    "by run",
			args:    []string{"--run", "run-2"},
			want:    []string{"channel selected"},
			notWant: []string{"device error"},
		},
		{
			name:    "tail",
			args:    []string{"-n", "1"},
			want:    []string{"channel selected"},
			notWant: []string{"sample echoed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Flags persist between executions of the shared root.
			logsTask, logsLevel, logsRun, logsTail = "", "", "", 50
			args := append([]string{"logs", "--dir", dir}, tt.args...)
			out, err := executeCommand(t, rootCmd, args...)
			if err != nil {
				t.Fatalf("logs error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("output should not contain %q:\n%s", nw, out)
				}
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var stderr bytes.Buffer

	l, err := newLogger(config.LoggingConfig{Enabled: false, Level: "debug"}, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	l.Error("dropped")
	if stderr.Len() != 0 {
		t.Error("disabled logging should write nothing")
	}

	l, err = newLogger(config.LoggingConfig{Enabled: true, Level: "info"}, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to stderr")
	if !strings.Contains(stderr.String(), "to stderr") {
		t.Errorf("stderr = %q", stderr.String())
	}

	dir := t.TempDir()
	l, err = newLogger(config.LoggingConfig{Enabled: true, Level: "info", Dir: dir, MaxSizeMB: 1}, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, logging.LogFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
}

func TestOpenHardware(t *testing.T) {
	cfg := config.Default()
	hw, err := openHardware(cfg, logging.NopLogger())
	if err != nil {
		t.Fatalf("openHardware() error = %v", err)
	}
	defer hw.Close()

	if hw.devices.Serial != hw.board.Serial {
		t.Error("sim serial backend should use the board's transmitter")
	}
	if hw.devices.Lines != hw.board.Buttons {
		t.Error("sim gpio backend should use the board's buttons")
	}
	if got := hw.board.ADC.Pot(0); got != cfg.Sim.Channel0Raw {
		t.Errorf("pot0 = %d, want %d", got, cfg.Sim.Channel0Raw)
	}
}

func TestOpenHardware_PTY(t *testing.T) {
	cfg := config.Default()
	cfg.Serial.Backend = "pty"
	hw, err := openHardware(cfg, logging.NopLogger())
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer hw.Close()

	if hw.serialName == "" {
		t.Error("pty backend should report its path")
	}
	if !strings.Contains(hw.describe(cfg), hw.serialName) {
		t.Errorf("describe() = %q, want the pty path", hw.describe(cfg))
	}
	if err := hw.devices.Serial.WriteByte(45); err != nil {
		t.Errorf("WriteByte() error = %v", err)
	}
}

func TestOpenHardware_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.GPIO.Backend = "parallel-port"
	_, err := openHardware(cfg, logging.NopLogger())
	if !errors.Is(err, perrors.ErrInvalidInput) {
		t.Errorf("openHardware() error = %v, want ErrInvalidInput", err)
	}
}

func TestClampRaw(t *testing.T) {
	tests := []struct {
		name string
		v    int
		bits uint
		want uint16
	}{
		{"zero", 0, 12, 0},
		{"in range", 2880, 12, 2880},
		{"full scale", 4095, 12, 4095},
		{"above full scale", 5000, 12, 4095},
		{"beyond uint16", 66000, 12, 4095},
		{"16-bit converter", 66000, 16, 65535},
		{"10-bit converter", 2000, 10, 1023},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampRaw(tt.v, tt.bits); got != tt.want {
				t.Errorf("clampRaw(%d, %d) = %d, want %d", tt.v, tt.bits, got, tt.want)
			}
		})
	}
}

func TestSimCommand_ClampsPotFlags(t *testing.T) {
	simPot0, simPot1 = -1, -1
	t.Cleanup(func() { simPot0, simPot1 = -1, -1 })

	// Headless with no terminal; the run stops when the parent context does.
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	rootCmd.SetContext(ctx)
	t.Cleanup(func() { rootCmd.SetContext(context.Background()) })

	out, err := executeCommand(t, rootCmd, "sim", "--headless", "--pot0", "66000", "--status-interval", "0")
	if err != nil {
		t.Fatalf("sim error = %v\n%s", err, out)
	}
	// 4095 >> 6 = 63; a wrapped 66000 would read 464 >> 6 = 7.
	if !strings.Contains(out, "sample=63 ") {
		t.Errorf("--pot0 66000 should clamp to full scale:\n%s", out)
	}
}
