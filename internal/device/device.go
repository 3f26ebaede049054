// Package device defines the collaborator contracts consumed by the control
// core: display, real-time clock, audio, input, tick source and light sensor.
package device

import (
	"context"

	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/timefmt"
)

// Action is one consumed input edge.
type Action uint8

const (
	ActionNone Action = iota
	ActionIncrement
	ActionDecrement
	ActionSelect
	ActionBack
)

func (a Action) String() string {
	switch a {
	case ActionIncrement:
		return "increment"
	case ActionDecrement:
		return "decrement"
	case ActionSelect:
		return "select"
	case ActionBack:
		return "back"
	}
	return "none"
}

// Direction of a scroll effect.
type Direction uint8

const (
	ScrollLeft Direction = iota
	ScrollRight
)

// Display drives the tube display. Text is always DisplayCount characters;
// the driver pads or truncates.
type Display interface {
	SetBrightness(level models.Brightness)
	ShowFixedString(text string)
	ScrollEffect(text string, dir Direction, speed int)
	SetSingleCharacter(position int, c byte)
	SlotMachineEffect(text string, speed int)
	SetEnabled(on bool)
}

// RTC is the real-time clock chip. Temperatures are in Celsius.
type RTC interface {
	ReadClock() (timefmt.Reading, error)
	WriteTime(hour, minute, second uint8) error
	WriteDate(day, month, year uint8) error
	ReadTemperature() (float64, error)
}

// Audio plays tone sequences from timer context.
type Audio interface {
	PlaySequence(index int)
	Stop()
	IsPlaying() bool
	SongCount() int
	Blip()
}

// Input yields button edges. Poll consumes at most one edge.
type Input interface {
	Poll() Action
	SelectHeld() bool
}

// Ticker blocks for one scheduling tick.
type Ticker interface {
	Wait(ctx context.Context) error
}

// LightSensor reads the photodiode as a 10-bit value.
type LightSensor interface {
	ReadLight() uint16
}

// ConvertTemperature converts between units.
func ConvertTemperature(value float64, from, to models.TemperatureUnit) float64 {
	if from == to {
		return value
	}
	if to == models.UnitFahrenheit {
		return value*9/5 + 32
	}
	return (value - 32) * 5 / 9
}
