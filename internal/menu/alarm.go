package menu

import (
	"context"
	"fmt"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/prompt"
	"github.com/julianstephens/nixie/internal/scheduler"
	"github.com/julianstephens/nixie/internal/timefmt"
)

// dayDone is the index of DONE in dayItems; indices below it are weekdays
// counted from Sunday.
const dayDone = 7

var dayItems = []string{
	"SUNDAY 1", "MONDAY 2", "TUESDY 3", "WDNSDY 4", "THRSDY 5", "FRIDAY 6", "SATRDY 7", label("DONE"),
}

func alarmItems(cfg *models.Config) []string {
	items := make([]string, len(cfg.Alarms))
	for i, a := range cfg.Alarms {
		state := "OFF"
		if a.Enabled() {
			state = "ON"
		}
		items[i] = fmt.Sprintf(" A%d %s", i+1, state)
	}
	return items
}

// SetAlarmState picks an alarm and arms or disarms it. It returns the alarm
// index and whether ENABLE was chosen. An alarm with no days stays disabled
// even when ENABLE is chosen; the following day screen arms it.
func (m *Menu) SetAlarmState(ctx context.Context) (int, bool) {
	index := m.c.Prompt.Select(ctx, prompt.Select{
		Options: alarmItems(m.c.Config),
		Mode:    prompt.ModeScroll,
	}, constants.TimeoutSelect, nil)
	if index == prompt.Cancelled {
		return 0, false
	}

	selection := m.selectState(ctx, "", m.c.Config.Alarms[index].State)
	if selection == prompt.Cancelled {
		return index, false
	}

	enable := selection == int(models.StateEnable)
	state, err := scheduler.SetAlarmState(m.c.Config, index, enable)
	if err != nil {
		logger.Error("Failed to set alarm state", "alarm", index, "error", err)
		return index, false
	}
	m.c.Commit()
	logger.Debug("Alarm state set", "alarm", index, "requested", enable, "state", state)
	return index, enable
}

func (m *Menu) SetAlarmTime(ctx context.Context, index int) bool {
	alarm := &m.c.Config.Alarms[index]
	hour, minute, _ := timefmt.SplitSecondsOfDay(alarm.Time)

	spec := &prompt.Value{
		Title:   label("SET"),
		Display: fmt.Sprintf("  %02d%02d  ", timefmt.DisplayHour(hour, m.c.Config.TimeFormat), minute),
		Fields: []prompt.Field{
			{Column: 2, Width: 2, Value: int(hour)},
			{Column: 4, Width: 2, Value: int(minute)},
		},
	}
	if !m.selectRTCValue(ctx, spec) {
		return false
	}
	alarm.Time = timefmt.SecondsOfDay(uint8(spec.Fields[0].Value), uint8(spec.Fields[1].Value), 0)
	m.c.Commit()
	return true
}

// SetAlarmDays loops over the weekday list until DONE. Each weekday opens a
// DISABLE/ENABLE prompt seeded from the alarm's own day mask; the list then
// reopens on the following entry. Cancelling anywhere abandons the chain.
func (m *Menu) SetAlarmDays(ctx context.Context, index int) bool {
	alarm := &m.c.Config.Alarms[index]

	selection := -1
	for {
		selection = m.c.Prompt.Select(ctx, prompt.Select{
			Options: dayItems,
			Initial: selection + 1,
			Mode:    prompt.ModeScroll,
		}, constants.TimeoutSelect, nil)
		if selection == prompt.Cancelled {
			return false
		}
		if selection == dayDone {
			return true
		}

		day := models.Weekday(selection + 1)
		state := m.selectState(ctx, "", stateOf(alarm.Days.Has(day)))
		if state == prompt.Cancelled {
			return false
		}
		if _, err := scheduler.ToggleDay(m.c.Config, index, day, state == int(models.StateEnable)); err != nil {
			logger.Error("Failed to toggle alarm day", "alarm", index, "day", day, "error", err)
			return false
		}
		m.c.Commit()
	}
}
