package models

import (
	"strings"
	"time"
)

// Weekday numbers days the way the RTC does: Sunday = 1 .. Saturday = 7.
// Zero is reserved.
type Weekday uint8

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayFromTime converts a time.Weekday to the RTC numbering.
func WeekdayFromTime(wd time.Weekday) Weekday {
	return Weekday(wd) + 1
}

// Time converts back to a time.Weekday.
func (w Weekday) Time() time.Weekday {
	return time.Weekday(w - 1)
}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return "reserved"
	}
	return w.Time().String()
}

// DayMask is a day-of-week bit set. Bit i is weekday i; bit 0 is unused.
type DayMask uint8

// Has reports whether weekday w is set.
func (m DayMask) Has(w Weekday) bool {
	return m&(1<<w) != 0
}

// With returns m with weekday w set to on.
func (m DayMask) With(w Weekday, on bool) DayMask {
	if on {
		return m | 1<<w
	}
	return m &^ (1 << w)
}

func (m DayMask) IsZero() bool {
	return m == 0
}

// Weekdays lists the set days in Sunday-first order.
func (m DayMask) Weekdays() []Weekday {
	var days []Weekday
	for w := Sunday; w <= Saturday; w++ {
		if m.Has(w) {
			days = append(days, w)
		}
	}
	return days
}

func (m DayMask) String() string {
	days := m.Weekdays()
	if len(days) == 0 {
		return "none"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, ",")
}

// MaskOf builds a mask from weekdays.
func MaskOf(days ...Weekday) DayMask {
	var m DayMask
	for _, d := range days {
		m = m.With(d, true)
	}
	return m
}
