package menu

import (
	"context"
	"fmt"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/prompt"
)

var brightnessItems = labels("AUTO", "SET 1", "SET 2", "SET 3", "SET 4", "SET 5", "SET 6", "SET 7", "SET 8")

// SetBrightness previews every option as it is scrolled to. Auto previews
// the current sensor level, never dimmer than L1.
func (m *Menu) SetBrightness(ctx context.Context) bool {
	m.c.ApplyBrightness()

	selection := m.c.Prompt.Select(ctx, prompt.Select{
		Title:   label("BRIGHT"),
		Options: brightnessItems,
		Initial: int(m.c.Config.Brightness),
	}, constants.TimeoutSelect, func(ev prompt.Event, value int) bool {
		switch ev {
		case prompt.EventIncrement, prompt.EventDecrement:
			level := models.Brightness(value)
			if level == models.BrightnessAuto {
				level = m.c.LightLevel()
				if level == models.BrightnessMin {
					level = models.BrightnessL1
				}
			}
			m.c.Display.SetBrightness(level)
		case prompt.EventTimeout:
			m.c.ApplyBrightness()
		}
		return false
	})
	if selection == prompt.Cancelled {
		return false
	}

	m.c.Config.Brightness = models.Brightness(selection)
	m.c.Commit()
	return true
}

// calibration edits one two-digit photodiode parameter.
func (m *Menu) calibration(ctx context.Context, title string, value *uint8, lower, upper int) bool {
	spec := &prompt.Value{
		Title:   label(title),
		Display: fmt.Sprintf("   %02d   ", *value),
		Fields:  []prompt.Field{{Column: 3, Width: 2, Lower: lower, Upper: upper, Value: int(*value)}},
	}
	if m.c.Prompt.Value(ctx, spec, constants.TimeoutValue, nil) == prompt.Cancelled {
		return false
	}
	*value = uint8(spec.Fields[0].Value)
	m.c.Commit()
	return true
}

func (m *Menu) SetGain(ctx context.Context) bool {
	return m.calibration(ctx, "GAIN", &m.c.Config.Gain, constants.GainMin, constants.GainMax)
}

func (m *Menu) SetOffset(ctx context.Context) bool {
	return m.calibration(ctx, "OFFSET", &m.c.Config.Offset, constants.OffsetMin, constants.OffsetMax)
}
