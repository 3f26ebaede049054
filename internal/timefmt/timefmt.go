// Package timefmt converts raw clock fields into display strings and between
// 12 and 24 hour representations. All functions are pure.
package timefmt

import (
	"fmt"
	"math"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/models"
)

// Cycle is the half of the day in 12 hour presentation.
type Cycle uint8

const (
	AM Cycle = iota
	PM
)

func (c Cycle) String() string {
	if c == PM {
		return "PM"
	}
	return "AM"
}

// Selector chooses what FormatClock renders.
type Selector uint8

const (
	SelectTime Selector = iota
	SelectDate
)

// Reading is one sample of the real-time clock. Year is two digits (0-99).
type Reading struct {
	Year    uint8
	Month   uint8
	Day     uint8
	Hour    uint8
	Minute  uint8
	Second  uint8
	Weekday models.Weekday
}

// SecondsOfDay returns the reading's time of day in seconds.
func (r Reading) SecondsOfDay() uint32 {
	return SecondsOfDay(r.Hour, r.Minute, r.Second)
}

// DisplayHour maps a 24 hour value into the configured presentation.
// Under 12 hour format 0 becomes 12 and 13..23 become 1..11.
func DisplayHour(hour24 uint8, format models.TimeFormat) uint8 {
	if format != models.TimeH12 {
		return hour24
	}
	if hour24 == 0 {
		return 12
	}
	if hour24 > 12 {
		return hour24 - 12
	}
	return hour24
}

// CycleOf returns AM for hours before noon and PM otherwise.
func CycleOf(hour24 uint8) Cycle {
	if hour24 < 12 {
		return AM
	}
	return PM
}

// FromDisplayHour folds a 12 hour value and its cycle back into 24 hours.
func FromDisplayHour(hour uint8, cycle Cycle) uint8 {
	hour %= 12
	if cycle == PM {
		hour += 12
	}
	return hour
}

// SecondsOfDay returns hour*3600 + minute*60 + second.
func SecondsOfDay(hour, minute, second uint8) uint32 {
	return uint32(hour)*3600 + uint32(minute)*60 + uint32(second)
}

// SplitSecondsOfDay is the inverse of SecondsOfDay. Values past one day wrap.
func SplitSecondsOfDay(seconds uint32) (hour, minute, second uint8) {
	seconds %= constants.SecondsPerDay
	return uint8(seconds / 3600), uint8((seconds / 60) % 60), uint8(seconds % 60)
}

// DateField is the role of one field in a displayed date.
type DateField uint8

const (
	FieldYear DateField = iota
	FieldMonth
	FieldDay
)

// Bounds returns the inclusive edit range of a date field.
func (f DateField) Bounds() (lower, upper uint8) {
	switch f {
	case FieldYear:
		return 0, 99
	case FieldMonth:
		return 1, 12
	default:
		return 1, 31
	}
}

// Of extracts the field from a reading.
func (f DateField) Of(r Reading) uint8 {
	switch f {
	case FieldYear:
		return r.Year
	case FieldMonth:
		return r.Month
	default:
		return r.Day
	}
}

var dateOrders = map[models.DateFormat][3]DateField{
	models.DateYYMMDD: {FieldYear, FieldMonth, FieldDay},
	models.DateMMDDYY: {FieldMonth, FieldDay, FieldYear},
	models.DateDDMMYY: {FieldDay, FieldMonth, FieldYear},
}

// DateFieldOrder returns the left-to-right field roles for a date format.
// Unknown formats fall back to year-month-day.
func DateFieldOrder(format models.DateFormat) []DateField {
	order, ok := dateOrders[format]
	if !ok {
		order = dateOrders[models.DateYYMMDD]
	}
	return order[:]
}

// FormatClock renders a time ("HH:MM:SS") or a date ("AA.BB.CC" ordered by
// the date format) into exactly DisplayCount characters. Under 12 hour format
// the hour field shows the 12 hour value.
func FormatClock(r Reading, sel Selector, dateFormat models.DateFormat, timeFormat models.TimeFormat) string {
	if sel == SelectDate {
		order := DateFieldOrder(dateFormat)
		return fmt.Sprintf("%02d.%02d.%02d", order[0].Of(r), order[1].Of(r), order[2].Of(r))
	}
	return fmt.Sprintf("%02d:%02d:%02d", DisplayHour(r.Hour, timeFormat), r.Minute, r.Second)
}

// FormatTemperature renders a temperature as " III;FF " with two fractional
// digits. Negative values are clamped to zero; the tubes have no sign.
func FormatTemperature(value float64) string {
	if value < 0 {
		value = 0
	}
	whole := int(value)
	fraction := int(math.Round((value - float64(whole)) * 100))
	if fraction == 100 {
		whole++
		fraction = 0
	}
	return fmt.Sprintf(" %03d;%02d ", whole%1000, fraction)
}

// FormatWorldLine renders a divergence value such as 1048596 as "1.048596".
// A leading digit of 10 renders as a blank tube.
func FormatWorldLine(value uint32) string {
	lead := value / 1000000
	rest := value % 1000000
	if lead >= 10 {
		return fmt.Sprintf(" .%06d", rest)
	}
	return fmt.Sprintf("%d.%06d", lead, rest)
}
