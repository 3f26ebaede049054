package menu

import (
	"context"
	"fmt"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/timefmt"
)

const (
	infoScrollSpeed = 80
	infoSlotSpeed   = 35
)

// Info is entered with select held. Holding it through the info countdown
// switches the display off. Otherwise each further select press steps through the
// temperature, the firmware version and the factory reset prompt. Holding
// select after any of them detonates.
func (m *Menu) Info(ctx context.Context) {
	if m.c.Prompt.WaitRelease(ctx, constants.TimeoutInfo) {
		m.c.SetDisplay(false)
		return
	}

	pages := []func(context.Context){m.showTemperature, m.showVersion, m.confirmReset}
	for _, page := range pages {
		if !m.waitSelect(ctx, constants.TimeoutInfo) {
			return
		}
		page(ctx)
		if m.c.Prompt.WaitRelease(ctx, constants.TimeoutInfo) {
			m.effects.Detonate(ctx)
			return
		}
	}
}

// waitSelect consumes presses until select arrives or the countdown runs
// out. Other buttons do not restart the countdown.
func (m *Menu) waitSelect(ctx context.Context, timeout int) bool {
	for countdown := timeout; countdown > 0; countdown-- {
		if m.c.Prompt.WaitPress(ctx, 1) == device.ActionSelect {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
	}
	return false
}

func (m *Menu) showTemperature(context.Context) {
	value, err := m.c.Temperature()
	if err != nil {
		logger.Warn("Temperature read failed", "error", err)
		return
	}
	m.c.Display.ScrollEffect(timefmt.FormatTemperature(value), device.ScrollLeft, infoScrollSpeed)
}

func (m *Menu) showVersion(context.Context) {
	m.c.Display.SlotMachineEffect(fmt.Sprintf("  %04d  ", constants.FirmwareVersion), infoSlotSpeed)
}

func (m *Menu) confirmReset(ctx context.Context) {
	if m.RestoreOutOfBox(ctx) {
		m.c.ApplyBrightness()
	}
}
