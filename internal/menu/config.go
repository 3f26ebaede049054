package menu

import (
	"context"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/prompt"
)

var (
	timeFormatItems = labels(";24:", ";12:")
	dateFormatItems = []string{"99:12:31", "12:31:99", "31:12:99"}
	unitItems       = labels("TEMP C", "TEMP F")
	resetItems      = labels("CANCEL", "RESET")
)

// choose runs a static select and reports the committed index.
func (m *Menu) choose(ctx context.Context, title string, options []string, initial int) (int, bool) {
	selection := m.c.Prompt.Select(ctx, prompt.Select{
		Title:   label(title),
		Options: options,
		Initial: initial,
	}, constants.TimeoutSelect, nil)
	return selection, selection != prompt.Cancelled
}

func (m *Menu) SetTimeFormat(ctx context.Context) bool {
	selection, ok := m.choose(ctx, "HOUR", timeFormatItems, int(m.c.Config.TimeFormat))
	if !ok {
		return false
	}
	m.c.Config.TimeFormat = models.TimeFormat(selection)
	m.c.Commit()
	return true
}

func (m *Menu) SetDateFormat(ctx context.Context) bool {
	selection, ok := m.choose(ctx, "DATE", dateFormatItems, int(m.c.Config.DateFormat))
	if !ok {
		return false
	}
	m.c.Config.DateFormat = models.DateFormat(selection)
	m.c.Commit()
	return true
}

func (m *Menu) SetTemperatureUnit(ctx context.Context) bool {
	selection, ok := m.choose(ctx, "TEMP", unitItems, int(m.c.Config.TemperatureUnit))
	if !ok {
		return false
	}
	m.c.Config.TemperatureUnit = models.TemperatureUnit(selection)
	m.c.Commit()
	return true
}

// SetBlip toggles the input feedback buzzer.
func (m *Menu) SetBlip(ctx context.Context) bool {
	selection := m.selectState(ctx, label("BUZZER"), m.c.Config.Noise)
	if selection == prompt.Cancelled {
		return false
	}
	m.c.Config.Noise = models.State(selection)
	m.c.Commit()
	return true
}

// RestoreOutOfBox asks before replacing the stored record with the factory
// defaults.
func (m *Menu) RestoreOutOfBox(ctx context.Context) bool {
	selection, ok := m.choose(ctx, "RESET", resetItems, 0)
	if !ok || selection == 0 {
		return false
	}
	m.c.RestoreDefaults()
	return true
}
