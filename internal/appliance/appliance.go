// Package appliance runs the clock: the idle display, automatic brightness
// and blanking, alarms, and the entry points into the menu.
package appliance

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/core"
	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/menu"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/scheduler"
	"github.com/julianstephens/nixie/internal/timefmt"
)

const (
	// The date replaces the time for dateHold seconds each minute.
	dateSecond = 45
	dateHold   = 3

	alarmRingTicks = 5 * 60 * constants.TicksPerSecond
)

type Appliance struct {
	c     *core.Context
	menu  *menu.Menu
	sched *scheduler.Scheduler
	rng   *rand.Rand

	started    bool
	lastSecond uint32
	blanked    bool
	level      models.Brightness
	shown      string
	// Alarms that fell due while another was ringing, in index order.
	pending []int
}

type Option func(*Appliance)

// WithRand replaces the random source used by the display effects.
func WithRand(r *rand.Rand) Option {
	return func(a *Appliance) {
		a.rng = r
	}
}

func New(c *core.Context, opts ...Option) *Appliance {
	seed := uint64(time.Now().UnixNano())
	a := &Appliance{
		c:     c,
		sched: scheduler.New(),
		rng:   rand.New(rand.NewPCG(seed, seed>>1)),
	}
	a.menu = menu.New(c, a)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Menu exposes the settings tree for frontends that open screens directly.
func (a *Appliance) Menu() *menu.Menu {
	return a.menu
}

// Run steps the main loop once per tick until ctx is cancelled.
func (a *Appliance) Run(ctx context.Context) error {
	logger.Info("Appliance started", "brightness", a.c.Config.Brightness, "alarms", a.c.Config.AlarmState)
	a.c.ApplyBrightness()

	for {
		if err := a.c.Ticker.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("Appliance stopped")
				return nil
			}
			return err
		}
		a.Step(ctx)
	}
}

// Step runs one iteration of the main loop.
func (a *Appliance) Step(ctx context.Context) {
	now := a.c.Clock()
	second := now.SecondsOfDay()
	newSecond := !a.started || second != a.lastSecond
	a.started, a.lastSecond = true, second

	a.pending = append(a.pending, a.sched.DueAlarms(a.c.Config, now)...)
	if len(a.pending) > 0 {
		index := a.pending[0]
		a.pending = a.pending[1:]
		if len(a.pending) > 0 {
			logger.Info("Alarms queued behind the ringing one", "alarms", a.pending)
		}
		a.PlayAlarm(ctx, index)
		return
	}

	if newSecond {
		a.autoBlanking(second)
		a.autoBrightness()
	}

	switch action := a.c.Input.Poll(); {
	case action == device.ActionNone:
		if a.c.State.Display == models.StateEnable {
			a.showClock(now)
		}
	case a.c.State.Display == models.StateDisable:
		// The first press only wakes the tubes.
		a.c.SetDisplay(true)
		a.c.ApplyBrightness()
		a.modalDone()
	case action == device.ActionSelect:
		a.menu.Info(ctx)
		a.modalDone()
	default:
		a.menu.Settings(ctx)
		a.modalDone()
	}
}

// modalDone forces the idle display to redraw after a screen took it over.
func (a *Appliance) modalDone() {
	a.shown = ""
	a.level = models.BrightnessAuto
}

func (a *Appliance) showClock(now timefmt.Reading) {
	sel := timefmt.SelectTime
	if now.Second >= dateSecond && now.Second < dateSecond+dateHold {
		sel = timefmt.SelectDate
	}
	text := timefmt.FormatClock(now, sel, a.c.Config.DateFormat, a.c.Config.TimeFormat)
	if text != a.shown {
		a.shown = text
		a.c.Display.ShowFixedString(text)
	}
}

func (a *Appliance) autoBlanking(second uint32) {
	blanked := scheduler.Blanked(a.c.Config.BlankBegin, a.c.Config.BlankEnd, second)
	if blanked == a.blanked {
		return
	}
	a.blanked = blanked
	a.c.SetDisplay(!blanked)
	if !blanked {
		a.c.ApplyBrightness()
		a.modalDone()
	}
	logger.Info("Blanking window", "blanked", blanked)
}

func (a *Appliance) autoBrightness() {
	if a.c.Config.Brightness != models.BrightnessAuto || a.c.State.Display != models.StateEnable {
		return
	}
	if level := a.c.LightLevel(); level != a.level {
		a.level = level
		a.c.Display.SetBrightness(level)
	}
}

// PlayAlarm rings an alarm's song with the clock on the tubes until a press.
func (a *Appliance) PlayAlarm(ctx context.Context, index int) {
	alarm := a.c.Config.Alarms[index]
	logger.Info("Alarm firing", "alarm", index+1, "song", alarm.Music)

	a.c.State.Alarm = models.StateEnable
	defer func() {
		a.c.State.Alarm = models.StateDisable
		// Re-evaluate the blanking window on the next second.
		a.blanked = false
		a.modalDone()
	}()

	a.c.SetDisplay(true)
	a.c.ApplyBrightness()
	a.shown = ""
	a.ring(ctx, int(alarm.Music), alarmRingTicks, true)
}

// ring loops a song until a press, ctx cancellation or limit ticks.
func (a *Appliance) ring(ctx context.Context, song, limit int, clock bool) {
	audio := a.c.Audio
	audio.PlaySequence(song)
	defer audio.Stop()

	for tick := 0; tick < limit; tick++ {
		if err := a.c.Ticker.Wait(ctx); err != nil {
			return
		}
		if a.c.Input.Poll() != device.ActionNone {
			logger.Debug("Ringing acknowledged", "ticks", tick+1)
			return
		}
		if !audio.IsPlaying() {
			audio.PlaySequence(song)
		}
		if clock {
			a.showClock(a.c.Clock())
		}
	}
	logger.Info("Ringing stopped unacknowledged")
}

// sleep waits n ticks. It reports false when ctx ends first.
func (a *Appliance) sleep(ctx context.Context, n int) bool {
	for ; n > 0; n-- {
		if err := a.c.Ticker.Wait(ctx); err != nil {
			return false
		}
	}
	return true
}

// idle waits up to n ticks. It reports false when interrupted by a press or
// by ctx.
func (a *Appliance) idle(ctx context.Context, n int) bool {
	for ; n > 0; n-- {
		if err := a.c.Ticker.Wait(ctx); err != nil {
			return false
		}
		if a.c.Input.Poll() != device.ActionNone {
			return false
		}
	}
	return true
}
