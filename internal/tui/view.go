package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/potpanel/internal/hal"
)

// View renders the front panel.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("potpanel simulator"))
	b.WriteString("\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderDisplay(),
		"  ",
		m.renderState(),
	)
	b.WriteString(top)
	b.WriteString("\n")
	b.WriteString(m.renderPots())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")
	b.WriteString(m.renderEvents())
	b.WriteString("\n")

	if m.editing {
		b.WriteString(fmt.Sprintf("pot %d raw: %s\n", m.pot, m.input.View()))
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderDisplay draws position B (tens) left of position A (units).
func (m Model) renderDisplay() string {
	glyph := func(p hal.Position) string {
		return digitStyle.Render(m.board.Display.Segments(p).String())
	}
	return digitBox.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		glyph(hal.PositionB),
		glyph(hal.PositionA),
	))
}

func (m Model) renderState() string {
	states := m.board.Indicators.States()
	led := func(i int) string {
		if states[i] {
			return indicatorOn.Render(fmt.Sprintf("● LED%d", i))
		}
		return indicatorOff.Render(fmt.Sprintf("○ LED%d", i))
	}

	lines := []string{
		fmt.Sprintf("sample  %d", m.status.Sample),
		fmt.Sprintf("input   %d", m.status.Channel),
		led(0) + "  " + led(1),
	}
	if sent := m.board.Serial.Sent(); len(sent) > 0 {
		lines = append(lines, fmt.Sprintf("serial  %d (%d bytes)", sent[len(sent)-1], len(sent)))
	} else {
		lines = append(lines, mutedStyle.Render("serial  -"))
	}
	return sectionBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderPots() string {
	shift := m.panel.Options().ScaleShift
	parts := make([]string, 0, 2)
	for _, ch := range []hal.Channel{hal.Channel0, hal.Channel1} {
		raw := m.board.ADC.Pot(ch)
		s := fmt.Sprintf("pot%d %4d (%d)", ch, raw, raw>>shift)
		if ch == m.pot {
			s = potSelected.Render("▸ " + s)
		} else {
			s = "  " + s
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderStats() string {
	st := m.status
	line := fmt.Sprintf("conversions %d  echoed %d  toggles %d  bounces %d  tasks %d",
		st.Conversions, st.Echoed, st.Toggles, st.Spurious, st.TasksRunning)
	if st.Dropped > 0 || st.DeviceErrors > 0 {
		line += "  " + warningStyle.Render(fmt.Sprintf("dropped %d  device errors %d", st.Dropped, st.DeviceErrors))
	}
	return mutedStyle.Render(line)
}

func (m Model) renderEvents() string {
	if len(m.events) == 0 {
		return mutedStyle.Render("no events yet")
	}
	return strings.Join(m.events, "\n")
}
