package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case frameMsg:
		m.frame = m.sim.Display.Frame()
		m.pitch = m.sim.Speaker.Pitch()
		m.light = m.sim.Light.ReadLight()
		m.held = m.sim.Input.SelectHeld()
		return m, tick()

	case StoppedMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Increment):
			m.press(device.ActionIncrement)
		case key.Matches(msg, m.keys.Decrement):
			m.press(device.ActionDecrement)
		case key.Matches(msg, m.keys.Select):
			m.press(device.ActionSelect)
		case key.Matches(msg, m.keys.Back):
			m.press(device.ActionBack)
		case key.Matches(msg, m.keys.Hold):
			m.held = m.sim.Input.ToggleHold()
		case key.Matches(msg, m.keys.Brighter):
			m.light = m.sim.Light.Adjust(1)
		case key.Matches(msg, m.keys.Darker):
			m.light = m.sim.Light.Adjust(-1)
		case key.Matches(msg, m.keys.Tubes):
			m.tubes = !m.tubes
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

func (m *Model) press(a device.Action) {
	if !m.sim.Input.Press(a) {
		m.dropped++
		logger.Debug("Simulator input queue full", "action", a)
	}
}
