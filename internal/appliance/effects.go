package appliance

import (
	"context"
	"fmt"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/timefmt"
)

// WorldLines are the divergence values the meter picks from at random.
// The lead digit 10 renders as a blank tube.
var WorldLines = []int64{
	1130426, 571024, 571015, 523299, 456903, 409420, 337187, 409431,
	456914, 523307, 571046, 1130205, 1130238, 10275349, 1048596,
}

const (
	divergenceFrames     = 6
	divergenceFrameTicks = 3
	divergenceHoldTicks  = 10 * constants.TicksPerSecond

	timerRingTicks = 60 * constants.TicksPerSecond

	detonateCount    = 10
	detonateDarkTick = 3 * constants.TicksPerSecond
	slotMachineSpeed = 35
)

// DivergenceMeter shuffles every tube and settles them left to right on
// worldLine, then holds it until a press.
func (a *Appliance) DivergenceMeter(ctx context.Context, worldLine int64) {
	defer a.modalDone()
	if worldLine < 0 {
		worldLine = WorldLines[a.rng.IntN(len(WorldLines))]
	}
	target := timefmt.FormatWorldLine(uint32(worldLine))
	logger.Debug("Divergence meter", "world_line", target)

	frame := []byte(target)
	for settled := 0; settled < len(frame); settled++ {
		for f := 0; f < divergenceFrames; f++ {
			for i := settled; i < len(frame); i++ {
				if target[i] != '.' {
					frame[i] = byte('0' + a.rng.IntN(10))
				}
			}
			a.c.Display.ShowFixedString(string(frame))
			if !a.sleep(ctx, divergenceFrameTicks) {
				return
			}
		}
		frame[settled] = target[settled]
	}

	a.c.Display.ShowFixedString(target)
	a.idle(ctx, divergenceHoldTicks)
}

// Timer counts down and rings the timer song. A press during the countdown
// cancels it.
func (a *Appliance) Timer(ctx context.Context, hour, minute, second uint8) {
	defer a.modalDone()
	remaining := timefmt.SecondsOfDay(hour, minute, second)
	logger.Info("Timer started", "seconds", remaining)

	for ; remaining > 0; remaining-- {
		h, m, s := timefmt.SplitSecondsOfDay(remaining)
		a.c.Display.ShowFixedString(fmt.Sprintf("%02d %02d %02d", h, m, s))
		if !a.idle(ctx, constants.TicksPerSecond) {
			logger.Info("Timer cancelled", "remaining", remaining)
			return
		}
	}

	a.c.Display.ShowFixedString("00 00 00")
	a.ring(ctx, int(a.c.Config.MusicTimer), timerRingTicks, false)
}

// Detonate counts down from ten. A press defuses it; otherwise the tubes
// spin up and go dark for a moment.
func (a *Appliance) Detonate(ctx context.Context) {
	defer a.modalDone()
	logger.Debug("Detonate armed")

	for n := detonateCount; n > 0; n-- {
		a.c.Display.ShowFixedString(fmt.Sprintf("   %02d   ", n))
		a.c.Audio.Blip()
		if !a.idle(ctx, constants.TicksPerSecond) {
			logger.Debug("Detonate defused", "at", n)
			return
		}
	}

	a.c.Display.SlotMachineEffect("88888888", slotMachineSpeed)
	a.c.SetDisplay(false)
	a.sleep(ctx, detonateDarkTick)
	a.c.SetDisplay(true)
	a.c.ApplyBrightness()
}
