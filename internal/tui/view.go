package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("nixie · "+m.source),
		m.viewTubes(),
		m.viewStatus(),
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) glowColor() lipgloss.Color {
	level := m.frame.Brightness
	if level == models.BrightnessAuto || int(level) >= len(glow) {
		level = models.BrightnessMax
	}
	return glow[level]
}

func (m Model) viewTubes() string {
	text := m.frame.Text
	if m.tubes {
		text = device.TubeText(text)
	}

	style := tubeStyle.Foreground(m.glowColor())
	if !m.frame.Enabled {
		style = tubeStyle.Foreground(darkTube)
		text = strings.Repeat(" ", len(text))
	}

	cells := make([]string, 0, len(text))
	for _, c := range text {
		cells = append(cells, style.Render(string(c)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) viewStatus() string {
	parts := []string{fmt.Sprintf("light %4d", m.light)}
	if m.pitch > 0 {
		parts = append(parts, warningStyle.Render("♪ "+m.pitch.String()))
	}
	if m.held {
		parts = append(parts, warningStyle.Render("select held"))
	}
	if !m.frame.Enabled {
		parts = append(parts, "display off")
	}
	if m.dropped > 0 {
		parts = append(parts, dangerStyle.Render(fmt.Sprintf("%d presses dropped", m.dropped)))
	}
	return statusStyle.Render(strings.Join(parts, " · "))
}
