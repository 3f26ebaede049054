package hw

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// PWMPin is the subset of gpio.PinOut the buzzer needs.
type PWMPin interface {
	PWM(duty gpio.Duty, f physic.Frequency) error
	Out(l gpio.Level) error
}

// Buzzer drives a piezo at a half duty square wave. It implements
// tone.Output.
type Buzzer struct {
	pin PWMPin
}

func NewBuzzer(pin PWMPin) *Buzzer {
	return &Buzzer{pin: pin}
}

func OpenBuzzer(name string) (*Buzzer, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no such pin %q", name)
	}
	b := NewBuzzer(pin)
	if err := b.Silence(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Buzzer) Tone(f physic.Frequency) error {
	if err := b.pin.PWM(gpio.DutyHalf, f); err != nil {
		return fmt.Errorf("buzzer pwm at %s: %w", f, err)
	}
	return nil
}

func (b *Buzzer) Silence() error {
	return b.pin.Out(gpio.Low)
}
