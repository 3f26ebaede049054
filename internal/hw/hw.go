// Package hw binds the device contracts to real hardware through periph:
// a DS3231 clock, an ADS1115 photodiode channel, GPIO buttons, a PWM buzzer
// and an SSD1306 panel standing in for the tube driver.
package hw

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/core"
	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/storage"
	"github.com/julianstephens/nixie/internal/storage/i2ceeprom"
	"github.com/julianstephens/nixie/internal/tone"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the host drivers once per process.
func Init() error {
	initOnce.Do(func() {
		_, initErr = host.Init()
	})
	return initErr
}

// OpenBus opens an I²C bus by name. An empty name picks the first bus.
func OpenBus(name string) (i2c.BusCloser, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", name, err)
	}
	return bus, nil
}

// BoardConfig names the bus, addresses and pins of one board.
type BoardConfig struct {
	Bus     string
	RTCAddr uint16
	ADCAddr uint16
	Buttons ButtonNames
	Buzzer  string
}

// DefaultBoard is the reference wiring.
var DefaultBoard = BoardConfig{
	RTCAddr: DS3231Addr,
	ADCAddr: ADS1115Addr,
	Buttons: ButtonNames{
		Increment: "GPIO5",
		Decrement: "GPIO6",
		Select:    "GPIO13",
		Back:      "GPIO19",
	},
	Buzzer: "GPIO18",
}

// Board owns every driver opened from a BoardConfig.
type Board struct {
	bus     i2c.BusCloser
	Display *OLED
	RTC     *DS3231
	Light   *LightSensor
	Input   *Buttons
	Audio   *tone.Player
	Ticker  *device.ClockTicker
}

// Open brings up the board. Drivers opened before a failure are closed.
func Open(cfg BoardConfig) (b *Board, err error) {
	bus, err := OpenBus(cfg.Bus)
	if err != nil {
		return nil, err
	}
	b = &Board{bus: bus}
	defer func() {
		if err != nil {
			b.Close()
			b = nil
		}
	}()

	if b.Display, err = OpenOLED(bus); err != nil {
		return nil, err
	}
	b.RTC = NewDS3231(bus, cfg.RTCAddr)
	if _, err = b.RTC.ReadClock(); err != nil {
		return nil, fmt.Errorf("rtc not responding: %w", err)
	}
	if b.Light, err = OpenLightSensor(bus, cfg.ADCAddr); err != nil {
		return nil, err
	}
	if b.Input, err = OpenButtons(cfg.Buttons); err != nil {
		return nil, err
	}
	buzzer, err := OpenBuzzer(cfg.Buzzer)
	if err != nil {
		return nil, err
	}
	b.Audio = tone.NewPlayer(buzzer, tone.Songs)
	b.Ticker = device.NewClockTicker(constants.TickPeriod)

	logger.Info("Board ready", "bus", bus.String())
	return b, nil
}

// Drivers exposes the board to the control core.
func (b *Board) Drivers() core.Drivers {
	return core.Drivers{
		Display: b.Display,
		RTC:     b.RTC,
		Audio:   b.Audio,
		Input:   b.Input,
		Light:   b.Light,
		Ticker:  b.Ticker,
	}
}

// Bus returns the shared I²C bus so persistence can sit on the same wires.
func (b *Board) Bus() i2c.Bus {
	return b.bus
}

func (b *Board) Close() error {
	if b.Audio != nil {
		b.Audio.Stop()
	}
	if b.Ticker != nil {
		b.Ticker.Stop()
	}
	if b.Input != nil {
		b.Input.Close()
	}
	if b.Display != nil {
		b.Display.SetEnabled(false)
	}
	return b.bus.Close()
}

// OpenEEPROM opens a 24Cxx EEPROM as the persistence device. The store owns
// the bus handle and closes it.
func OpenEEPROM(bus string, addr uint16) (storage.Provider, error) {
	b, err := OpenBus(bus)
	if err != nil {
		return nil, err
	}
	return i2ceeprom.New(b, addr, 0), nil
}
