// Package tui renders the simulated appliance and turns key presses into
// button edges.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"periph.io/x/conn/v3/physic"

	"github.com/julianstephens/nixie/internal/sim"
)

const refresh = 50 * time.Millisecond

type frameMsg time.Time

// StoppedMsg reports that the appliance loop has exited.
type StoppedMsg struct {
	Err error
}

type Model struct {
	sim      *sim.Sim
	source   string
	keys     KeyMap
	help     help.Model
	frame    sim.Frame
	pitch    physic.Frequency
	light    uint16
	held     bool
	tubes    bool
	dropped  int
	err      error
	quitting bool
	width    int
	height   int
}

// NewModel builds the UI over a simulator. source names the persistence
// device for the status line.
func NewModel(s *sim.Sim, source string) Model {
	return Model{
		sim:    s,
		source: source,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		frame:  s.Display.Frame(),
		light:  s.Light.ReadLight(),
	}
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func tick() tea.Cmd {
	return tea.Tick(refresh, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Err returns the error the appliance loop stopped with, if any.
func (m Model) Err() error {
	return m.err
}
