package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/potpanel/internal/event"
	"github.com/Iron-Ham/potpanel/internal/hal"
	"github.com/Iron-Ham/potpanel/internal/hal/sim"
	"github.com/Iron-Ham/potpanel/internal/panel"
)

const (
	refreshInterval = 50 * time.Millisecond
	maxEventLines   = 8
)

// Options configures the front panel.
type Options struct {
	// PressHold is how long a key press holds a button line low.
	PressHold time.Duration
}

type tickMsg time.Time

type panelEventMsg struct {
	event event.Event
}

// Model is the bubbletea model for the simulated front panel.
type Model struct {
	panel *panel.Panel
	board *sim.Board
	opts  Options

	keys     keyMap
	help     help.Model
	input    textinput.Model
	editing  bool
	pot      hal.Channel
	status   panel.Status
	events   []string
	feed     chan event.Event
	subID    string
	errMsg   string
	width    int
	quitting bool
}

// New returns a model driving board and observing p. Call Close when the
// program exits to stop receiving panel events.
func New(p *panel.Panel, board *sim.Board, opts Options) Model {
	if opts.PressHold <= 0 {
		opts.PressHold = 80 * time.Millisecond
	}

	ti := textinput.New()
	ti.Placeholder = "raw value, e.g. 2880 or 0xb40"
	ti.CharLimit = 8
	ti.Width = 24

	feed := make(chan event.Event, 64)
	subID := p.Bus().SubscribeAll(func(e event.Event) {
		// Never block a panel task on a slow terminal.
		select {
		case feed <- e:
		default:
		}
	})

	return Model{
		panel:  p,
		board:  board,
		opts:   opts,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  ti,
		status: p.Status(),
		feed:   feed,
		subID:  subID,
	}
}

// Close unsubscribes from panel events.
func (m Model) Close() {
	m.panel.Bus().Unsubscribe(m.subID)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(feed <-chan event.Event) tea.Cmd {
	return func() tea.Msg {
		return panelEventMsg{event: <-feed}
	}
}

// Init starts the refresh loop and the event feed.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForEvent(m.feed))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.status = m.panel.Status()
		return m, tick()

	case panelEventMsg:
		m.pushEvent(describeEvent(msg.event))
		return m, waitForEvent(m.feed)

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Echo):
		m.press(hal.LineEcho)

	case key.Matches(msg, m.keys.Toggle):
		m.press(hal.LineToggle)

	case key.Matches(msg, m.keys.Glitch):
		if err := m.board.Buttons.Glitch(hal.LineToggle); err != nil {
			m.errMsg = err.Error()
		}

	case key.Matches(msg, m.keys.NextPot):
		m.pot = m.pot.Other()

	case key.Matches(msg, m.keys.Up):
		m.turnPot(1)

	case key.Matches(msg, m.keys.Down):
		m.turnPot(-1)

	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.input.SetValue(strconv.Itoa(int(m.board.ADC.Pot(m.pot))))
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		m.editing = false
		m.input.Blur()
		raw, err := strconv.ParseUint(strings.TrimSpace(m.input.Value()), 0, 16)
		if err != nil {
			m.errMsg = fmt.Sprintf("invalid raw value %q", m.input.Value())
			return m, nil
		}
		if err := m.board.ADC.SetPot(m.pot, uint16(raw)); err != nil {
			m.errMsg = err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// press holds a button line low for PressHold. A line that is still held
// from an earlier press is left alone.
func (m *Model) press(l hal.Line) {
	if m.board.Buttons.Level(l).Pressed() {
		return
	}
	if err := m.board.Buttons.PressFor(l, m.opts.PressHold); err != nil {
		m.errMsg = err.Error()
	}
}

// turnPot moves the selected potentiometer by one displayed count.
func (m *Model) turnPot(dir int) {
	step := 1 << m.panel.Options().ScaleShift
	next := int(m.board.ADC.Pot(m.pot)) + dir*step
	next = max(0, min(next, int(m.board.ADC.Max())))
	if err := m.board.ADC.SetPot(m.pot, uint16(next)); err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Model) pushEvent(line string) {
	if line == "" {
		return
	}
	m.events = append(m.events, line)
	if len(m.events) > maxEventLines {
		m.events = m.events[len(m.events)-maxEventLines:]
	}
}

// describeEvent renders a panel event as one log line. Events too frequent
// to be readable return "".
func describeEvent(e event.Event) string {
	ts := e.Timestamp().Format("15:04:05.000")
	switch ev := e.(type) {
	case event.ChannelSelectedEvent:
		return fmt.Sprintf("%s input %d -> %d", ts, ev.Previous, ev.Current)
	case event.SerialEchoedEvent:
		if ev.Err != nil {
			return fmt.Sprintf("%s echo failed: %v", ts, ev.Err)
		}
		return fmt.Sprintf("%s echoed %d", ts, ev.Value)
	case event.ButtonSpuriousEvent:
		return fmt.Sprintf("%s bounce ignored", ts)
	case event.IndicatorChangedEvent:
		return fmt.Sprintf("%s indicator %d on", ts, ev.Active)
	case event.SampleDroppedEvent:
		return fmt.Sprintf("%s %d sample(s) dropped", ts, ev.Dropped)
	case event.TaskStoppedEvent:
		if ev.Err != nil {
			return fmt.Sprintf("%s task %s failed: %v", ts, ev.Task, ev.Err)
		}
		return fmt.Sprintf("%s task %s stopped", ts, ev.Task)
	default:
		return ""
	}
}
