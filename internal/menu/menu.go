// Package menu sequences prompt dialogs into the settings tree. Every screen
// reports whether the user committed; parents use that to decide whether a
// dependent screen follows. Committed values are persisted immediately.
package menu

import (
	"context"
	"strings"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/core"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/prompt"
)

// Effects are the long-running display routines the menu hands off to.
type Effects interface {
	// DivergenceMeter animates towards worldLine. A negative value picks
	// one at random.
	DivergenceMeter(ctx context.Context, worldLine int64)
	Timer(ctx context.Context, hour, minute, second uint8)
	Detonate(ctx context.Context)
}

type Menu struct {
	c       *core.Context
	effects Effects
}

func New(c *core.Context, effects Effects) *Menu {
	return &Menu{c: c, effects: effects}
}

// Main menu entries, in display order.
const (
	ItemDivergence = iota
	ItemTimer
	ItemMusic
	ItemBrightness
	ItemBlank
	ItemAlarm
	ItemConfig
	ItemTime
	ItemDate
)

var mainItems = []string{"DIVERGE", "TIMER", "MUSIC", "BRIGHT", "BLANK", "ALARM", "CONFIG", "TIME", "DATE"}

// label centers text on the display.
func label(text string) string {
	pad := (constants.DisplayCount - len(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

func labels(texts ...string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = label(t)
	}
	return out
}

// Settings runs the main menu at full brightness and dispatches the chosen
// chain. The configured brightness is restored afterwards.
func (m *Menu) Settings(ctx context.Context) {
	m.c.SetDisplay(true)
	m.c.Display.SetBrightness(models.BrightnessMax)
	defer m.c.ApplyBrightness()

	selection := m.c.Prompt.Select(ctx, prompt.Select{
		Options: labels(mainItems...),
		Initial: ItemDivergence,
		Mode:    prompt.ModeScroll,
	}, constants.TimeoutMenu, nil)
	if selection == prompt.Cancelled {
		return
	}
	logger.Debug("Menu entry selected", "item", mainItems[selection])

	switch selection {
	case ItemAlarm:
		m.AlarmChain(ctx)
	case ItemBrightness:
		m.BrightnessChain(ctx)
	case ItemConfig:
		m.ConfigChain(ctx)
	case ItemBlank:
		m.SetBlank(ctx)
	case ItemTime:
		m.SetTime(ctx)
	case ItemDate:
		m.SetDate(ctx)
	case ItemMusic:
		m.SetMusic(ctx, &m.c.Config.MusicTimer)
	case ItemTimer:
		m.SetTimer(ctx)
	default:
		m.Divergence(ctx)
	}
}

// AlarmChain is state, then (only when just enabled) time, days and music.
func (m *Menu) AlarmChain(ctx context.Context) bool {
	index, enabled := m.SetAlarmState(ctx)
	if !enabled {
		return false
	}
	if !m.SetAlarmTime(ctx, index) {
		return false
	}
	if !m.SetAlarmDays(ctx, index) {
		return false
	}
	return m.SetMusic(ctx, &m.c.Config.Alarms[index].Music)
}

// BrightnessChain calibrates the sensor only when Auto was chosen.
func (m *Menu) BrightnessChain(ctx context.Context) bool {
	if !m.SetBrightness(ctx) {
		return false
	}
	if m.c.Config.Brightness != models.BrightnessAuto {
		return true
	}
	if !m.SetGain(ctx) {
		return false
	}
	return m.SetOffset(ctx)
}

func (m *Menu) ConfigChain(ctx context.Context) bool {
	return m.SetTimeFormat(ctx) &&
		m.SetDateFormat(ctx) &&
		m.SetTemperatureUnit(ctx) &&
		m.SetBlip(ctx)
}
