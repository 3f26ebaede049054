package scheduler

import (
	"fmt"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/timefmt"
)

// catchUpWindow bounds how far back an alarm second may lie and still fire
// when the clock jumped over it (a modal screen blocked the loop). Larger
// jumps are treated as a clock change and only fire on exact equality.
const catchUpWindow = 60

func alarmAt(cfg *models.Config, index int) (*models.Alarm, error) {
	if index < 0 || index >= len(cfg.Alarms) {
		return nil, fmt.Errorf("alarm index %d out of range [0,%d)", index, len(cfg.Alarms))
	}
	return &cfg.Alarms[index], nil
}

// SetAlarmState arms or disarms an alarm. Arming an alarm with no active day
// is coerced back to disabled. The resulting state is returned.
func SetAlarmState(cfg *models.Config, index int, enabled bool) (models.State, error) {
	alarm, err := alarmAt(cfg, index)
	if err != nil {
		return models.StateDisable, err
	}

	alarm.State = models.StateDisable
	if enabled && !alarm.Days.IsZero() {
		alarm.State = models.StateEnable
	}
	RefreshAlarmMask(cfg)
	return alarm.State, nil
}

// ToggleDay sets or clears one weekday of an alarm, then derives the enabled
// state from whether any day remains.
func ToggleDay(cfg *models.Config, index int, day models.Weekday, on bool) (models.State, error) {
	alarm, err := alarmAt(cfg, index)
	if err != nil {
		return models.StateDisable, err
	}
	if !day.Valid() {
		return alarm.State, fmt.Errorf("weekday %d out of range [1,7]", day)
	}

	alarm.Days = alarm.Days.With(day, on)
	alarm.State = models.StateDisable
	if !alarm.Days.IsZero() {
		alarm.State = models.StateEnable
	}
	RefreshAlarmMask(cfg)
	return alarm.State, nil
}

// RefreshAlarmMask rebuilds the AlarmState cache from the alarm table.
func RefreshAlarmMask(cfg *models.Config) {
	var mask uint8
	for i, a := range cfg.Alarms {
		if a.Enabled() {
			mask |= 1 << i
		}
	}
	if mask != 0 {
		mask |= models.AlarmStateAny
	}
	cfg.AlarmState = mask
}

// IsDue reports whether the alarm is armed for today and its second is now.
func IsDue(alarm models.Alarm, secondsOfDay uint32, weekday models.Weekday) bool {
	return alarm.Enabled() && alarm.Days.Has(weekday) && alarm.Time == secondsOfDay
}

// Scheduler turns level checks into edges: each alarm fires once per entry
// into its second. A Scheduler is owned by the main loop and is not safe for
// concurrent use.
type Scheduler struct {
	started     bool
	lastSecond  uint32
	lastWeekday models.Weekday
}

func New() *Scheduler {
	return &Scheduler{}
}

// DueAlarms returns the indices of alarms that became due since the previous
// call. Repeated calls within the same second return nothing. The first call
// only fires on exact equality.
func (s *Scheduler) DueAlarms(cfg *models.Config, now timefmt.Reading) []int {
	second := now.SecondsOfDay()
	prevSecond, prevWeekday, started := s.lastSecond, s.lastWeekday, s.started
	s.started, s.lastSecond, s.lastWeekday = true, second, now.Weekday

	if started && prevSecond == second && prevWeekday == now.Weekday {
		return nil
	}

	var due []int
	for i, alarm := range cfg.Alarms {
		if !alarm.Enabled() {
			continue
		}
		if IsDue(alarm, second, now.Weekday) {
			due = append(due, i)
			continue
		}
		if started && crossed(alarm, prevSecond, prevWeekday, second, now.Weekday) {
			due = append(due, i)
		}
	}
	return due
}

// crossed reports whether the alarm second lies in (prev, now] within the
// catch-up window, including a window spanning midnight.
func crossed(alarm models.Alarm, prev uint32, prevDay models.Weekday, now uint32, today models.Weekday) bool {
	if prevDay == today {
		if now < prev || now-prev > catchUpWindow {
			return false
		}
		return alarm.Days.Has(today) && alarm.Time > prev && alarm.Time <= now
	}

	gap := constants.SecondsPerDay - prev + now
	if gap > catchUpWindow {
		return false
	}
	if alarm.Time > prev {
		return alarm.Days.Has(prevDay)
	}
	return alarm.Days.Has(today) && alarm.Time <= now
}

// Blanked reports whether the display is suppressed at second now for the
// window [begin, end). A window with begin > end wraps past midnight; an
// empty window (begin == end) never blanks.
func Blanked(begin, end, now uint32) bool {
	switch {
	case begin == end:
		return false
	case begin < end:
		return now >= begin && now < end
	default:
		return now >= begin || now < end
	}
}

// LightLevel maps a 10-bit photodiode reading onto Min..Max after applying
// the configured gain (tenths) and offset.
func LightLevel(raw uint16, gain, offset uint8) models.Brightness {
	const full = 1023
	v := int(raw)*int(gain)/10 + int(offset)*32
	if v > full {
		v = full
	}
	if v < 0 {
		v = 0
	}
	span := int(models.BrightnessMax - models.BrightnessMin)
	return models.BrightnessMin + models.Brightness(v*span/full)
}
