// Package core holds the state every screen and the main loop operate on.
package core

import (
	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/prompt"
	"github.com/julianstephens/nixie/internal/scheduler"
	"github.com/julianstephens/nixie/internal/timefmt"
)

// Store persists the full settings record. Load never fails; a rejected
// record yields the factory defaults.
type Store interface {
	Load() models.Config
	Save(cfg models.Config) error
	RestoreFactoryDefaults() models.Config
}

// Context is owned by the main goroutine. Nothing in it is safe for
// concurrent use.
type Context struct {
	Config  *models.Config
	State   models.RuntimeState
	Store   Store
	Display device.Display
	RTC     device.RTC
	Audio   device.Audio
	Input   device.Input
	Light   device.LightSensor
	Ticker  device.Ticker
	Prompt  *prompt.Engine
}

// Drivers bundles the collaborators a Context is built from.
type Drivers struct {
	Display device.Display
	RTC     device.RTC
	Audio   device.Audio
	Input   device.Input
	Light   device.LightSensor
	Ticker  device.Ticker
}

// New wires a Context. Input edges blip the buzzer while Noise is enabled.
func New(cfg *models.Config, store Store, d Drivers) *Context {
	c := &Context{
		Config:  cfg,
		Store:   store,
		Display: d.Display,
		RTC:     d.RTC,
		Audio:   d.Audio,
		Input:   d.Input,
		Light:   d.Light,
		Ticker:  d.Ticker,
		State: models.RuntimeState{
			Voltage: models.StateEnable,
			Display: models.StateEnable,
		},
	}
	c.Prompt = prompt.New(d.Display, d.Input, d.Ticker, prompt.WithFeedback(c.feedback))
	return c
}

func (c *Context) feedback(device.Action) {
	if c.Config.Noise == models.StateEnable && c.Audio != nil {
		c.Audio.Blip()
	}
}

// Commit persists the current config. Failures are logged and the in-memory
// config stays authoritative.
func (c *Context) Commit() bool {
	if err := c.Store.Save(*c.Config); err != nil {
		logger.Error("Failed to persist config", "error", err)
		return false
	}
	return true
}

// RestoreDefaults persists the factory defaults and reloads the config from
// the device.
func (c *Context) RestoreDefaults() {
	*c.Config = c.Store.RestoreFactoryDefaults()
	logger.Info("Factory defaults restored")
}

// Clock reads the RTC. A read error yields the zero reading.
func (c *Context) Clock() timefmt.Reading {
	r, err := c.RTC.ReadClock()
	if err != nil {
		logger.Warn("RTC read failed", "error", err)
		return timefmt.Reading{}
	}
	return r
}

// Temperature reads the RTC sensor in the configured unit.
func (c *Context) Temperature() (float64, error) {
	celsius, err := c.RTC.ReadTemperature()
	if err != nil {
		return 0, err
	}
	return device.ConvertTemperature(celsius, models.UnitCelsius, c.Config.TemperatureUnit), nil
}

// LightLevel maps the photodiode through the configured calibration.
func (c *Context) LightLevel() models.Brightness {
	var raw uint16
	if c.Light != nil {
		raw = c.Light.ReadLight()
	}
	return scheduler.LightLevel(raw, c.Config.Gain, c.Config.Offset)
}

// EffectiveBrightness resolves Auto against the light sensor.
func (c *Context) EffectiveBrightness() models.Brightness {
	if c.Config.Brightness == models.BrightnessAuto {
		return c.LightLevel()
	}
	return c.Config.Brightness
}

// ApplyBrightness pushes the configured brightness to the display.
func (c *Context) ApplyBrightness() {
	c.Display.SetBrightness(c.EffectiveBrightness())
}

// SetDisplay switches the tubes and their supply together.
func (c *Context) SetDisplay(on bool) {
	state := models.StateDisable
	if on {
		state = models.StateEnable
	}
	if c.State.Display == state {
		return
	}
	c.State.Display = state
	c.State.Voltage = state
	c.Display.SetEnabled(on)
	logger.Debug("Display switched", "on", on)
}
