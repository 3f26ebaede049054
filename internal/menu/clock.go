package menu

import (
	"context"
	"fmt"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/prompt"
	"github.com/julianstephens/nixie/internal/timefmt"
)

// SetBlank edits the blanking window: first the power-off time, then the
// power-on time. Each step is saved as it commits.
func (m *Menu) SetBlank(ctx context.Context) bool {
	steps := []struct {
		title string
		value *uint32
	}{
		{"POWR OFF", &m.c.Config.BlankBegin},
		{"POWR ON", &m.c.Config.BlankEnd},
	}

	for index, step := range steps {
		hour, minute, _ := timefmt.SplitSecondsOfDay(*step.value)
		spec := &prompt.Value{
			Title:   step.title,
			Display: fmt.Sprintf(" %02d;%02d %d", timefmt.DisplayHour(hour, m.c.Config.TimeFormat), minute, index),
			Fields: []prompt.Field{
				{Column: 1, Width: 2, Value: int(hour)},
				{Column: 4, Width: 2, Value: int(minute)},
			},
		}
		if !m.selectRTCValue(ctx, spec) {
			return false
		}
		*step.value = timefmt.SecondsOfDay(uint8(spec.Fields[0].Value), uint8(spec.Fields[1].Value), 0)
		m.c.Commit()
	}
	return true
}

// SetTime writes the RTC. The time is not part of the persisted config.
func (m *Menu) SetTime(ctx context.Context) bool {
	now := m.c.Clock()
	spec := &prompt.Value{
		Title:   label("TIME"),
		Display: timefmt.FormatClock(now, timefmt.SelectTime, m.c.Config.DateFormat, m.c.Config.TimeFormat),
		Fields: []prompt.Field{
			{Column: 0, Width: 2, Value: int(now.Hour)},
			{Column: 3, Width: 2, Value: int(now.Minute)},
			{Column: 6, Width: 2, Value: int(now.Second)},
		},
	}
	if !m.selectRTCValue(ctx, spec) {
		return false
	}

	hour, minute, second := uint8(spec.Fields[0].Value), uint8(spec.Fields[1].Value), uint8(spec.Fields[2].Value)
	if err := m.c.RTC.WriteTime(hour, minute, second); err != nil {
		logger.Error("Failed to set RTC time", "error", err)
		return false
	}
	logger.Info("RTC time set", "hour", hour, "minute", minute, "second", second)
	return true
}

// SetDate edits the date in the configured field order.
func (m *Menu) SetDate(ctx context.Context) bool {
	now := m.c.Clock()
	order := timefmt.DateFieldOrder(m.c.Config.DateFormat)

	spec := &prompt.Value{
		Title:   label("DATE"),
		Display: timefmt.FormatClock(now, timefmt.SelectDate, m.c.Config.DateFormat, m.c.Config.TimeFormat),
	}
	for i, field := range order {
		lower, upper := field.Bounds()
		spec.Fields = append(spec.Fields, prompt.Field{
			Column: i * 3,
			Width:  2,
			Lower:  int(lower),
			Upper:  int(upper),
			Value:  int(field.Of(now)),
		})
	}
	if m.c.Prompt.Value(ctx, spec, constants.TimeoutValue, nil) == prompt.Cancelled {
		return false
	}

	var values [3]uint8
	for i, field := range order {
		values[field] = uint8(spec.Fields[i].Value)
	}
	day, month, year := values[timefmt.FieldDay], values[timefmt.FieldMonth], values[timefmt.FieldYear]
	if err := m.c.RTC.WriteDate(day, month, year); err != nil {
		logger.Error("Failed to set RTC date", "error", err)
		return false
	}
	logger.Info("RTC date set", "day", day, "month", month, "year", year)
	return true
}
