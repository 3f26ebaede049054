package appliance

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/core"
	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/device/devicetest"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage"
	"github.com/julianstephens/nixie/internal/storage/memory"
	"github.com/julianstephens/nixie/internal/timefmt"
)

type harness struct {
	app     *Appliance
	ctx     *core.Context
	cfg     *models.Config
	display *devicetest.Display
	input   *devicetest.Input
	rtc     *devicetest.RTC
	audio   *devicetest.Audio
	light   *devicetest.Light
	ticker  *devicetest.Ticker
}

func newHarness(t *testing.T, mutate func(*models.Config), script ...device.Action) *harness {
	t.Helper()
	cfg := models.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	h := &harness{
		cfg:     &cfg,
		display: devicetest.NewDisplay(),
		input:   devicetest.NewInput(script...),
		rtc:     &devicetest.RTC{},
		audio:   devicetest.NewAudio(),
		light:   &devicetest.Light{},
		ticker:  &devicetest.Ticker{Limit: 100000},
	}
	h.ctx = core.New(h.cfg, storage.NewConfigStore(memory.New()), core.Drivers{
		Display: h.display,
		RTC:     h.rtc,
		Audio:   h.audio,
		Input:   h.input,
		Light:   h.light,
		Ticker:  h.ticker,
	})
	h.app = New(h.ctx, WithRand(rand.New(rand.NewPCG(1, 2))))
	return h
}

func at(weekday models.Weekday, hour, minute, second uint8) timefmt.Reading {
	return timefmt.Reading{Year: 26, Month: 3, Day: 2, Hour: hour, Minute: minute, Second: second, Weekday: weekday}
}

func repeat(a device.Action, n int) []device.Action {
	out := make([]device.Action, n)
	for i := range out {
		out[i] = a
	}
	return out
}

func TestStep_ShowsClock(t *testing.T) {
	h := newHarness(t, nil)

	h.rtc.Now = at(models.Monday, 12, 34, 56)
	h.app.Step(context.Background())
	if h.display.Text != "12:34:56" {
		t.Errorf("display = %q", h.display.Text)
	}

	h.rtc.Now = at(models.Monday, 12, 35, dateSecond)
	h.app.Step(context.Background())
	if h.display.Text != "02.03.26" {
		t.Errorf("expected the date, display = %q", h.display.Text)
	}

	before := len(h.display.History)
	h.app.Step(context.Background())
	if len(h.display.History) != before {
		t.Error("unchanged text should not be redrawn")
	}
}

func TestStep_TwelveHourClock(t *testing.T) {
	h := newHarness(t, func(c *models.Config) { c.TimeFormat = models.TimeH12 })
	h.rtc.Now = at(models.Monday, 0, 5, 0)
	h.app.Step(context.Background())
	if h.display.Text != "12:05:00" {
		t.Errorf("display = %q", h.display.Text)
	}
}

func armedAlarm(c *models.Config) {
	c.Alarms[0] = models.Alarm{State: models.StateEnable, Music: 3, Days: models.MaskOf(models.Monday), Time: 7 * 3600}
	c.AlarmState = 1 | models.AlarmStateAny
}

func TestStep_AlarmFiresOncePerSecond(t *testing.T) {
	h := newHarness(t, armedAlarm, device.ActionNone, device.ActionNone, device.ActionSelect)
	h.rtc.Now = at(models.Monday, 7, 0, 0)

	h.app.Step(context.Background())
	if len(h.audio.Played) != 1 || h.audio.Played[0] != 3 {
		t.Fatalf("played = %v", h.audio.Played)
	}
	if h.ticker.Ticks != 3 {
		t.Errorf("expected the press on tick 3 to stop the alarm, ticks = %d", h.ticker.Ticks)
	}
	if h.audio.IsPlaying() || h.ctx.State.Alarm != models.StateDisable {
		t.Error("alarm still ringing")
	}

	h.app.Step(context.Background())
	if len(h.audio.Played) != 1 {
		t.Error("alarm fired twice in the same second")
	}
}

func TestStep_SimultaneousAlarmsRingInTurn(t *testing.T) {
	twoAlarms := func(c *models.Config) {
		armedAlarm(c)
		c.Alarms[1] = models.Alarm{State: models.StateEnable, Music: 1, Days: models.MaskOf(models.Monday), Time: 7 * 3600}
		c.AlarmState |= 1 << 1
	}
	h := newHarness(t, twoAlarms, device.ActionSelect, device.ActionNone, device.ActionSelect)
	h.rtc.Now = at(models.Monday, 7, 0, 0)

	h.app.Step(context.Background())
	if len(h.audio.Played) != 1 || h.audio.Played[0] != 3 {
		t.Fatalf("expected the first alarm's song, played = %v", h.audio.Played)
	}

	h.app.Step(context.Background())
	if len(h.audio.Played) != 2 || h.audio.Played[1] != 1 {
		t.Fatalf("expected the second alarm after the first was acknowledged, played = %v", h.audio.Played)
	}

	h.app.Step(context.Background())
	if len(h.audio.Played) != 2 {
		t.Errorf("queued alarm rang twice, played = %v", h.audio.Played)
	}
}

func TestStep_AlarmWrongDay(t *testing.T) {
	h := newHarness(t, armedAlarm)
	h.rtc.Now = at(models.Tuesday, 7, 0, 0)
	h.app.Step(context.Background())
	if len(h.audio.Played) != 0 {
		t.Errorf("played = %v", h.audio.Played)
	}
}

func TestStep_AlarmRingLimit(t *testing.T) {
	h := newHarness(t, armedAlarm)
	h.rtc.Now = at(models.Monday, 7, 0, 0)
	h.app.Step(context.Background())
	if h.ticker.Ticks != alarmRingTicks {
		t.Errorf("ticks = %d, want %d", h.ticker.Ticks, alarmRingTicks)
	}
	if h.audio.IsPlaying() {
		t.Error("unacknowledged alarm left playing")
	}
}

func TestStep_AlarmWakesBlankedDisplay(t *testing.T) {
	h := newHarness(t, func(c *models.Config) {
		armedAlarm(c)
		c.BlankBegin = 6 * 3600
		c.BlankEnd = 8 * 3600
	})

	h.rtc.Now = at(models.Monday, 6, 59, 59)
	h.app.Step(context.Background())
	if h.display.Enabled {
		t.Fatal("expected blanked display")
	}

	h.input.Push(device.ActionSelect)
	h.rtc.Now = at(models.Monday, 7, 0, 0)
	h.app.Step(context.Background())
	if len(h.audio.Played) != 1 {
		t.Fatal("alarm did not fire")
	}

	h.rtc.Now = at(models.Monday, 7, 0, 1)
	h.app.Step(context.Background())
	if h.display.Enabled {
		t.Error("display should blank again after the alarm")
	}
}

func TestStep_Blanking(t *testing.T) {
	h := newHarness(t, func(c *models.Config) {
		c.BlankBegin = 22 * 3600
		c.BlankEnd = 6 * 3600
	})

	h.rtc.Now = at(models.Monday, 23, 0, 0)
	h.app.Step(context.Background())
	if h.display.Enabled {
		t.Fatal("expected blanked display inside the window")
	}

	h.input.Push(device.ActionIncrement)
	h.rtc.Now = at(models.Monday, 23, 0, 1)
	h.app.Step(context.Background())
	if !h.display.Enabled {
		t.Fatal("a press should wake the display")
	}
	if h.ticker.Ticks != 0 {
		t.Error("the waking press must not open the menu")
	}

	h.rtc.Now = at(models.Tuesday, 6, 0, 0)
	h.app.Step(context.Background())
	if !h.display.Enabled {
		t.Error("display should be on after the window")
	}

	h.rtc.Now = at(models.Tuesday, 22, 0, 0)
	h.app.Step(context.Background())
	if h.display.Enabled {
		t.Error("display should blank at the window start")
	}
}

func TestStep_AutoBrightness(t *testing.T) {
	h := newHarness(t, func(c *models.Config) { c.Offset = 0 })

	h.light.Raw = 0
	h.rtc.Now = at(models.Monday, 9, 0, 0)
	h.app.Step(context.Background())
	if h.display.Brightness != models.BrightnessMin {
		t.Errorf("brightness = %v, want min", h.display.Brightness)
	}

	h.light.Raw = 1023
	h.app.Step(context.Background())
	if h.display.Brightness != models.BrightnessMin {
		t.Error("brightness should only follow the sensor once per second")
	}

	h.rtc.Now = at(models.Monday, 9, 0, 1)
	h.app.Step(context.Background())
	if h.display.Brightness != models.BrightnessMax {
		t.Errorf("brightness = %v, want max", h.display.Brightness)
	}
}

func TestStep_InputOpensScreens(t *testing.T) {
	t.Run("increment opens settings", func(t *testing.T) {
		h := newHarness(t, nil, device.ActionIncrement, device.ActionBack)
		h.app.Step(context.Background())
		found := false
		for _, b := range h.display.Brightnesses {
			found = found || b == models.BrightnessMax
		}
		if !found {
			t.Error("settings menu did not run at full brightness")
		}
	})

	t.Run("select opens info", func(t *testing.T) {
		h := newHarness(t, nil, device.ActionSelect)
		h.app.Step(context.Background())
		if h.ticker.Ticks != constants.TimeoutInfo {
			t.Errorf("expected the info screen to wait %d ticks, got %d", constants.TimeoutInfo, h.ticker.Ticks)
		}
	})
}

func TestTimer(t *testing.T) {
	h := newHarness(t, func(c *models.Config) { c.MusicTimer = 4 },
		append(repeat(device.ActionNone, 2*constants.TicksPerSecond+5), device.ActionSelect)...)

	h.app.Timer(context.Background(), 0, 0, 2)

	for _, want := range []string{"00 00 02", "00 00 01", "00 00 00"} {
		if !h.display.Shown(want) {
			t.Errorf("%q not shown, history %q", want, h.display.History)
		}
	}
	if len(h.audio.Played) != 1 || h.audio.Played[0] != 4 {
		t.Errorf("played = %v", h.audio.Played)
	}
	if h.audio.IsPlaying() {
		t.Error("timer song left playing")
	}
}

func TestTimer_Cancel(t *testing.T) {
	h := newHarness(t, nil, device.ActionNone, device.ActionBack)
	h.app.Timer(context.Background(), 0, 1, 0)
	if len(h.audio.Played) != 0 {
		t.Error("cancelled timer must not ring")
	}
	if h.ticker.Ticks != 2 {
		t.Errorf("ticks = %d", h.ticker.Ticks)
	}
}

func TestDivergenceMeter(t *testing.T) {
	h := newHarness(t, nil)
	h.app.DivergenceMeter(context.Background(), 1048596)
	if h.display.Text != "1.048596" {
		t.Errorf("display = %q", h.display.Text)
	}
	for _, frame := range h.display.History {
		if len(frame) != constants.DisplayCount || frame[1] != '.' {
			t.Fatalf("malformed frame %q", frame)
		}
	}

	h = newHarness(t, nil)
	h.app.DivergenceMeter(context.Background(), 10275349)
	if h.display.Text != " .275349" {
		t.Errorf("blank lead: display = %q", h.display.Text)
	}

	h = newHarness(t, nil)
	h.app.DivergenceMeter(context.Background(), -1)
	found := false
	for _, wl := range WorldLines {
		found = found || h.display.Text == timefmt.FormatWorldLine(uint32(wl))
	}
	if !found {
		t.Errorf("random pick %q is not a known world line", h.display.Text)
	}
}

func TestDetonate(t *testing.T) {
	h := newHarness(t, nil)
	h.app.Detonate(context.Background())
	if !h.display.Shown("   10   ") || !h.display.Shown("   01   ") || !h.display.Shown("88888888") {
		t.Errorf("history %q", h.display.History)
	}
	if !h.display.Enabled {
		t.Error("display should come back on")
	}
	if h.audio.Blips != detonateCount {
		t.Errorf("blips = %d", h.audio.Blips)
	}

	h = newHarness(t, nil, device.ActionSelect)
	h.app.Detonate(context.Background())
	if h.display.Shown("88888888") {
		t.Error("a press should defuse")
	}
}

func TestRun(t *testing.T) {
	h := newHarness(t, nil)
	h.ticker.Limit = 10
	if err := h.app.Run(context.Background()); !errors.Is(err, devicetest.ErrTickLimit) {
		t.Errorf("Run() error = %v", err)
	}

	h = newHarness(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	h.ticker.OnTick = func(n int) {
		if n == 5 {
			cancel()
		}
	}
	if err := h.app.Run(ctx); err != nil {
		t.Errorf("Run() after cancel = %v", err)
	}
}
