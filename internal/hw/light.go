package hw

import (
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"

	"github.com/julianstephens/nixie/internal/logger"
)

// ADS1115Addr is the ADC address with ADDR tied to ground.
const ADS1115Addr = 0x48

const (
	adcFullScale = 32767
	lightMax     = 1023
)

// Sampler is one analog channel.
type Sampler interface {
	Read() (analog.Sample, error)
}

// LightSensor implements device.LightSensor on one ADC channel.
type LightSensor struct {
	pin Sampler
}

func NewLightSensor(pin Sampler) *LightSensor {
	return &LightSensor{pin: pin}
}

// OpenLightSensor reads the photodiode on channel 0 of an ADS1115.
func OpenLightSensor(bus i2c.Bus, addr uint16) (*LightSensor, error) {
	opts := ads1x15.DefaultOpts
	opts.I2cAddress = addr
	adc, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ads1115: %w", err)
	}
	pin, err := adc.PinForChannel(ads1x15.Channel0, 3300*physic.MilliVolt, 8*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, fmt.Errorf("failed to open light channel: %w", err)
	}
	return NewLightSensor(pin), nil
}

// ReadLight scales the sample to 10 bits. A failed read reports darkness.
func (l *LightSensor) ReadLight() uint16 {
	s, err := l.pin.Read()
	if err != nil {
		logger.Warn("Light sensor read failed", "error", err)
		return 0
	}
	raw := s.Raw
	if raw <= 0 {
		return 0
	}
	if raw >= adcFullScale {
		return lightMax
	}
	return uint16(raw * lightMax / adcFullScale)
}
