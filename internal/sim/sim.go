// Package sim provides in-process drivers for running the appliance in a
// terminal. Every driver is safe for use from the main loop and the UI at
// the same time.
package sim

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/core"
	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/timefmt"
	"github.com/julianstephens/nixie/internal/tone"
)

// Sim bundles a full set of simulated drivers.
type Sim struct {
	Display *Display
	Input   *Input
	RTC     *RTC
	Light   *Light
	Speaker *Speaker
	Audio   *tone.Player
	Ticker  *device.ClockTicker
}

func New() *Sim {
	speaker := &Speaker{}
	return &Sim{
		Display: NewDisplay(),
		Input:   NewInput(),
		RTC:     NewRTC(time.Now),
		Light:   NewLight(lightStep * 8),
		Speaker: speaker,
		Audio:   tone.NewPlayer(speaker, tone.Songs),
		Ticker:  device.NewClockTicker(constants.TickPeriod),
	}
}

func (s *Sim) Drivers() core.Drivers {
	return core.Drivers{
		Display: s.Display,
		RTC:     s.RTC,
		Audio:   s.Audio,
		Input:   s.Input,
		Light:   s.Light,
		Ticker:  s.Ticker,
	}
}

func (s *Sim) Close() {
	s.Audio.Stop()
	s.Ticker.Stop()
}

// Frame is a snapshot of the display.
type Frame struct {
	Text       string
	Enabled    bool
	Brightness models.Brightness
}

// Display keeps the current frame. Effects step through their frames with
// a real delay so the UI can show them.
type Display struct {
	mu    sync.Mutex
	frame Frame
	sleep func(time.Duration)
	rng   *rand.Rand
}

func NewDisplay() *Display {
	return &Display{
		frame: Frame{
			Text:       device.Fit("", constants.DisplayCount),
			Enabled:    true,
			Brightness: models.BrightnessMax,
		},
		sleep: time.Sleep,
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1)),
	}
}

func (d *Display) Frame() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

func (d *Display) text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame.Text
}

func (d *Display) show(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame.Text = device.Fit(text, constants.DisplayCount)
}

func (d *Display) SetBrightness(level models.Brightness) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame.Brightness = level
}

func (d *Display) ShowFixedString(text string) {
	d.show(text)
}

func (d *Display) ScrollEffect(text string, dir device.Direction, speed int) {
	d.play(device.ScrollFrames(d.text(), text, dir, constants.DisplayCount), speed)
	d.show(text)
}

func (d *Display) SlotMachineEffect(text string, speed int) {
	digit := func() byte { return byte('0' + d.rng.IntN(10)) }
	d.play(device.SlotFrames(text, 3, constants.DisplayCount, digit), speed)
	d.show(text)
}

func (d *Display) play(frames []string, speed int) {
	for _, f := range frames {
		d.show(f)
		if speed > 0 {
			d.sleep(time.Duration(speed) * time.Millisecond)
		}
	}
}

func (d *Display) SetSingleCharacter(position int, c byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if position < 0 || position >= len(d.frame.Text) {
		return
	}
	buf := []byte(d.frame.Text)
	buf[position] = c
	d.frame.Text = string(buf)
}

func (d *Display) SetEnabled(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame.Enabled = on
}

// Input queues key presses from the UI. Select can be latched down to
// emulate a long press.
type Input struct {
	events chan device.Action
	held   atomic.Bool
}

func NewInput() *Input {
	return &Input{events: make(chan device.Action, 16)}
}

// Press queues an edge. It reports false when the queue is full.
func (in *Input) Press(a device.Action) bool {
	select {
	case in.events <- a:
		return true
	default:
		return false
	}
}

func (in *Input) Poll() device.Action {
	select {
	case a := <-in.events:
		return a
	default:
		return device.ActionNone
	}
}

// ToggleHold latches or releases select and returns the new state.
func (in *Input) ToggleHold() bool {
	for {
		old := in.held.Load()
		if in.held.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (in *Input) SelectHeld() bool {
	return in.held.Load()
}

// RTC runs off the host clock plus an offset that writes adjust.
type RTC struct {
	mu          sync.Mutex
	now         func() time.Time
	offset      time.Duration
	temperature float64
}

func NewRTC(now func() time.Time) *RTC {
	return &RTC{now: now, temperature: 22.5}
}

func (r *RTC) current() time.Time {
	return r.now().Add(r.offset)
}

func (r *RTC) ReadClock() (timefmt.Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.current()
	return timefmt.Reading{
		Year:    uint8(t.Year() % 100),
		Month:   uint8(t.Month()),
		Day:     uint8(t.Day()),
		Hour:    uint8(t.Hour()),
		Minute:  uint8(t.Minute()),
		Second:  uint8(t.Second()),
		Weekday: models.Weekday(t.Weekday() + 1),
	}, nil
}

func (r *RTC) set(target time.Time) {
	r.offset = target.Sub(r.now())
}

func (r *RTC) WriteTime(hour, minute, second uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.current()
	r.set(time.Date(t.Year(), t.Month(), t.Day(), int(hour), int(minute), int(second), 0, t.Location()))
	return nil
}

func (r *RTC) WriteDate(day, month, year uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.current()
	r.set(time.Date(2000+int(year), time.Month(month), int(day), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()))
	return nil
}

func (r *RTC) ReadTemperature() (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.temperature, nil
}

// SetTemperature sets the reported die temperature in Celsius.
func (r *RTC) SetTemperature(celsius float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.temperature = celsius
}

const (
	lightStep = 64
	lightMax  = 1023
)

// Light is an adjustable photodiode.
type Light struct {
	level atomic.Uint32
}

func NewLight(level uint16) *Light {
	l := &Light{}
	l.level.Store(uint32(level))
	return l
}

func (l *Light) ReadLight() uint16 {
	return uint16(l.level.Load())
}

// Adjust moves the reading by steps, clamped to 10 bits.
func (l *Light) Adjust(steps int) uint16 {
	for {
		old := l.level.Load()
		v := int(old) + steps*lightStep
		v = max(0, min(v, lightMax))
		if l.level.CompareAndSwap(old, uint32(v)) {
			return uint16(v)
		}
	}
}

// Speaker records the pitch being played.
type Speaker struct {
	pitch atomic.Int64
}

func (s *Speaker) Tone(f physic.Frequency) error {
	s.pitch.Store(int64(f))
	return nil
}

func (s *Speaker) Silence() error {
	s.pitch.Store(0)
	return nil
}

// Pitch returns the current tone, zero when silent.
func (s *Speaker) Pitch() physic.Frequency {
	return physic.Frequency(s.pitch.Load())
}
