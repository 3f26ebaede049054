// Package devicetest provides scripted in-memory drivers for tests.
package devicetest

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/timefmt"
)

// ErrTickLimit is returned by Ticker.Wait once Limit ticks have elapsed.
var ErrTickLimit = errors.New("tick limit reached")

// Display records everything pushed to it.
type Display struct {
	mu           sync.Mutex
	Brightness   models.Brightness
	Brightnesses []models.Brightness
	Text         string
	History      []string
	Enabled      bool
}

func NewDisplay() *Display {
	return &Display{Enabled: true}
}

func (d *Display) SetBrightness(level models.Brightness) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Brightness = level
	d.Brightnesses = append(d.Brightnesses, level)
}

func (d *Display) show(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Text = text
	d.History = append(d.History, text)
}

func (d *Display) ShowFixedString(text string) { d.show(text) }

func (d *Display) ScrollEffect(text string, _ device.Direction, _ int) { d.show(text) }

func (d *Display) SlotMachineEffect(text string, _ int) { d.show(text) }

func (d *Display) SetSingleCharacter(position int, c byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf := []byte(d.Text)
	if position >= 0 && position < len(buf) {
		buf[position] = c
		d.Text = string(buf)
	}
}

func (d *Display) SetEnabled(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Enabled = on
}

// Shown reports whether text was ever displayed.
func (d *Display) Shown(text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.History {
		if h == text {
			return true
		}
	}
	return false
}

// Input replays a script of actions, one per Poll. ActionNone entries stand
// for idle ticks. Held is consumed one entry per SelectHeld call.
type Input struct {
	mu     sync.Mutex
	Script []device.Action
	Held   []bool
}

func NewInput(script ...device.Action) *Input {
	return &Input{Script: script}
}

func (in *Input) Poll() device.Action {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.Script) == 0 {
		return device.ActionNone
	}
	a := in.Script[0]
	in.Script = in.Script[1:]
	return a
}

func (in *Input) SelectHeld() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.Held) == 0 {
		return false
	}
	h := in.Held[0]
	in.Held = in.Held[1:]
	return h
}

// Push appends actions to the script.
func (in *Input) Push(actions ...device.Action) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.Script = append(in.Script, actions...)
}

// Ticker counts ticks without sleeping. OnTick runs after each tick. A
// non-zero Limit fails Wait once exceeded so a broken loop cannot hang a test.
type Ticker struct {
	Ticks  int
	Limit  int
	OnTick func(n int)
}

func (t *Ticker) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.Ticks++
	if t.Limit > 0 && t.Ticks > t.Limit {
		return ErrTickLimit
	}
	if t.OnTick != nil {
		t.OnTick(t.Ticks)
	}
	return nil
}

// RTC is a settable clock.
type RTC struct {
	mu          sync.Mutex
	Now         timefmt.Reading
	Temperature float64
	Err         error
	TimeWrites  [][3]uint8
	DateWrites  [][3]uint8
}

func (r *RTC) ReadClock() (timefmt.Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Now, r.Err
}

func (r *RTC) WriteTime(hour, minute, second uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Now.Hour, r.Now.Minute, r.Now.Second = hour, minute, second
	r.TimeWrites = append(r.TimeWrites, [3]uint8{hour, minute, second})
	return nil
}

func (r *RTC) WriteDate(day, month, year uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Now.Day, r.Now.Month, r.Now.Year = day, month, year
	r.DateWrites = append(r.DateWrites, [3]uint8{day, month, year})
	return nil
}

func (r *RTC) ReadTemperature() (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Temperature, r.Err
}

// Audio records playback requests. Playing stays true until Stop or until
// the test clears it.
type Audio struct {
	mu      sync.Mutex
	Songs   int
	Playing bool
	Played  []int
	Stops   int
	Blips   int
}

func NewAudio() *Audio {
	return &Audio{Songs: 5}
}

func (a *Audio) PlaySequence(index int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Playing = true
	a.Played = append(a.Played, index)
}

func (a *Audio) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Playing = false
	a.Stops++
}

func (a *Audio) IsPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Playing
}

func (a *Audio) SongCount() int {
	return a.Songs
}

func (a *Audio) Blip() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Blips++
}

// SetPlaying flips the playback flag.
func (a *Audio) SetPlaying(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Playing = on
}

// Light returns a fixed reading.
type Light struct {
	Raw uint16
}

func (l *Light) ReadLight() uint16 {
	return l.Raw
}
