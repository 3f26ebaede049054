package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Loop is the appliance main loop.
type Loop interface {
	Run(ctx context.Context) error
}

// Run drives loop in the background and the UI in the foreground until
// either stops.
func Run(ctx context.Context, loop Loop, m Model) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())

	done := make(chan error, 1)
	go func() {
		err := loop.Run(ctx)
		done <- err
		p.Send(StoppedMsg{Err: err})
	}()

	final, err := p.Run()
	cancel()
	loopErr := <-done

	if err != nil {
		return fmt.Errorf("terminal ui failed: %w", err)
	}
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	if loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		return loopErr
	}
	return nil
}
