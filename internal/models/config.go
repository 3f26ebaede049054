package models

import (
	"fmt"

	"github.com/julianstephens/nixie/internal/constants"
)

// State is a two-valued enable flag.
type State uint8

const (
	StateDisable State = iota
	StateEnable
)

func (s State) String() string {
	if s == StateEnable {
		return "enabled"
	}
	return "disabled"
}

// Brightness is the display brightness level. The select index on the
// brightness screen equals the enum value.
type Brightness uint8

const (
	BrightnessAuto Brightness = iota
	BrightnessMin
	BrightnessL1
	BrightnessL2
	BrightnessL3
	BrightnessL4
	BrightnessL5
	BrightnessL6
	BrightnessMax
	brightnessCount
)

// BrightnessCount is the number of selectable brightness values including Auto.
const BrightnessCount = int(brightnessCount)

func (b Brightness) String() string {
	switch b {
	case BrightnessAuto:
		return "auto"
	case BrightnessMin:
		return "min"
	case BrightnessMax:
		return "max"
	default:
		return fmt.Sprintf("l%d", int(b-BrightnessL1)+1)
	}
}

// Valid reports whether b names a real brightness value.
func (b Brightness) Valid() bool {
	return b <= BrightnessMax
}

// DateFormat is the field ordering of a displayed date.
type DateFormat uint8

const (
	DateYYMMDD DateFormat = iota
	DateMMDDYY
	DateDDMMYY
)

func (f DateFormat) String() string {
	switch f {
	case DateYYMMDD:
		return "yymmdd"
	case DateMMDDYY:
		return "mmddyy"
	case DateDDMMYY:
		return "ddmmyy"
	}
	return "unknown"
}

// TimeFormat selects 24 or 12 hour presentation.
type TimeFormat uint8

const (
	TimeH24 TimeFormat = iota
	TimeH12
)

func (f TimeFormat) String() string {
	if f == TimeH12 {
		return "12h"
	}
	return "24h"
}

// TemperatureUnit is the unit used on the info screen.
type TemperatureUnit uint8

const (
	UnitCelsius TemperatureUnit = iota
	UnitFahrenheit
)

func (u TemperatureUnit) String() string {
	if u == UnitFahrenheit {
		return "F"
	}
	return "C"
}

// Alarm is one scheduled wake event.
type Alarm struct {
	State State
	Music uint8
	Days  DayMask
	Time  uint32 // seconds since midnight
}

// Enabled reports whether the alarm is armed.
func (a Alarm) Enabled() bool {
	return a.State == StateEnable
}

// Config is the persisted settings record.
type Config struct {
	Validate        byte
	Noise           State
	AlarmState      uint8 // cache: bit i = alarm i armed, AlarmStateAny = any armed
	Brightness      Brightness
	Gain            uint8
	Offset          uint8
	DateFormat      DateFormat
	TimeFormat      TimeFormat
	TemperatureUnit TemperatureUnit
	BlankBegin      uint32
	BlankEnd        uint32
	MusicTimer      uint8
	Alarms          [constants.AlarmCount]Alarm
}

// AlarmStateAny is set in Config.AlarmState when at least one alarm is armed.
const AlarmStateAny uint8 = 1 << 7

// DefaultConfig returns the factory default record.
func DefaultConfig() Config {
	return Config{
		Validate:        constants.ConfigKey,
		Noise:           StateEnable,
		AlarmState:      0,
		Brightness:      BrightnessAuto,
		Gain:            constants.DefaultGain,
		Offset:          constants.DefaultOffset,
		DateFormat:      DateDDMMYY,
		TimeFormat:      TimeH24,
		TemperatureUnit: UnitFahrenheit,
		BlankBegin:      0,
		BlankEnd:        0,
		MusicTimer:      constants.DefaultMusicTimer,
	}
}

// Check validates every field against its declared range.
func (c *Config) Check() error {
	if c.Validate != constants.ConfigKey {
		return fmt.Errorf("validation marker %#x does not match %#x", c.Validate, constants.ConfigKey)
	}
	if c.Noise > StateEnable {
		return fmt.Errorf("noise flag out of range: %d", c.Noise)
	}
	if !c.Brightness.Valid() {
		return fmt.Errorf("brightness out of range: %d", c.Brightness)
	}
	if c.Gain < constants.GainMin || c.Gain > constants.GainMax {
		return fmt.Errorf("gain out of range [%d,%d]: %d", constants.GainMin, constants.GainMax, c.Gain)
	}
	if c.Offset > constants.OffsetMax {
		return fmt.Errorf("offset out of range [%d,%d]: %d", constants.OffsetMin, constants.OffsetMax, c.Offset)
	}
	if c.DateFormat > DateDDMMYY {
		return fmt.Errorf("date format out of range: %d", c.DateFormat)
	}
	if c.TimeFormat > TimeH12 {
		return fmt.Errorf("time format out of range: %d", c.TimeFormat)
	}
	if c.TemperatureUnit > UnitFahrenheit {
		return fmt.Errorf("temperature unit out of range: %d", c.TemperatureUnit)
	}
	if c.BlankBegin >= constants.SecondsPerDay || c.BlankEnd >= constants.SecondsPerDay {
		return fmt.Errorf("blanking window out of range: %d-%d", c.BlankBegin, c.BlankEnd)
	}
	for i, a := range c.Alarms {
		if a.State > StateEnable {
			return fmt.Errorf("alarm %d: state out of range: %d", i, a.State)
		}
		if a.Time >= constants.SecondsPerDay {
			return fmt.Errorf("alarm %d: time out of range: %d", i, a.Time)
		}
		if a.Days.Has(0) {
			return fmt.Errorf("alarm %d: reserved day bit set", i)
		}
		if a.Enabled() && a.Days.IsZero() {
			return fmt.Errorf("alarm %d: enabled with no active day", i)
		}
	}
	return nil
}
