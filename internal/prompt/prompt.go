// Package prompt implements the modal dialogs every settings screen is built
// from: a select-from-list prompt and a multi-field numeric value prompt.
//
// Both dialogs poll the input once per scheduling tick and are governed by an
// idle countdown. A dialog returns Cancelled when the user backs out, when the
// countdown expires without a veto from the observer, or when the context is
// cancelled.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/device"
)

// Cancelled is the uniform "no change" outcome of every dialog.
const Cancelled = -1

// Event is delivered to an Observer.
type Event uint8

const (
	EventDecrement Event = iota
	EventIncrement
	EventSelection
	EventTimeout
)

func (e Event) String() string {
	switch e {
	case EventDecrement:
		return "decrement"
	case EventIncrement:
		return "increment"
	case EventSelection:
		return "selection"
	case EventTimeout:
		return "timeout"
	}
	return "unknown"
}

// Observer is notified of dialog events with the current index or focused
// field value. Returning true on EventTimeout keeps the dialog open; the
// return value is ignored for every other event.
type Observer func(ev Event, value int) (keepWaiting bool)

// Mode selects how options are presented.
type Mode uint8

const (
	ModeStatic Mode = iota
	ModeScroll
)

const (
	scrollSpeed = 80
	blinkTicks  = constants.TicksPerSecond / 2
)

// Select describes a select-from-list dialog.
type Select struct {
	Title   string
	Options []string
	Initial int
	Mode    Mode
}

// Field is one editable number in a value dialog.
type Field struct {
	Column int
	Width  int
	Lower  int
	Upper  int
	Value  int
}

func (f *Field) step(delta int) {
	f.Value += delta
	if f.Value > f.Upper {
		f.Value = f.Lower
	}
	if f.Value < f.Lower {
		f.Value = f.Upper
	}
}

func (f *Field) clamp() {
	if f.Value < f.Lower {
		f.Value = f.Lower
	}
	if f.Value > f.Upper {
		f.Value = f.Upper
	}
}

// Value describes a numeric edit dialog. Display is the initial display
// text; each field is rendered over it at its column. Edited values are
// written back into Fields.
type Value struct {
	Title   string
	Display string
	Fields  []Field
}

// Render composes the display text. When hideFocus is set the focused field
// is blanked, which produces the blink. A value wider than its field renders
// as blanks.
func (v *Value) Render(focus int, hideFocus bool) string {
	buf := []byte(device.Fit(v.Display, constants.DisplayCount))
	for i, f := range v.Fields {
		text := fmt.Sprintf("%0*d", f.Width, f.Value)
		if len(text) > f.Width || (hideFocus && i == focus) {
			text = strings.Repeat(" ", f.Width)
		}
		for j := 0; j < f.Width; j++ {
			if col := f.Column + j; col >= 0 && col < len(buf) {
				buf[col] = text[j]
			}
		}
	}
	return string(buf)
}

// Engine runs dialogs against a display, an input and a tick source.
type Engine struct {
	display  device.Display
	input    device.Input
	ticker   device.Ticker
	feedback func(device.Action)
}

type Option func(*Engine)

// WithFeedback installs a hook called for every consumed input edge.
func WithFeedback(fn func(device.Action)) Option {
	return func(e *Engine) {
		e.feedback = fn
	}
}

func New(display device.Display, input device.Input, ticker device.Ticker, opts ...Option) *Engine {
	e := &Engine{
		display: display,
		input:   input,
		ticker:  ticker,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func notify(obs Observer, ev Event, value int) bool {
	if obs == nil {
		return false
	}
	return obs(ev, value)
}

// next waits one tick and consumes at most one input edge.
func (e *Engine) next(ctx context.Context) (device.Action, error) {
	if err := e.ticker.Wait(ctx); err != nil {
		return device.ActionNone, err
	}
	action := e.input.Poll()
	if action != device.ActionNone && e.feedback != nil {
		e.feedback(action)
	}
	return action, nil
}

func (e *Engine) showTitle(title string) {
	if title != "" {
		e.display.ScrollEffect(device.Fit(title, constants.DisplayCount), device.ScrollLeft, scrollSpeed)
	}
}

func (e *Engine) showOption(spec Select, index int) {
	text := device.Fit(spec.Options[index], constants.DisplayCount)
	if spec.Mode == ModeScroll {
		e.display.ScrollEffect(text, device.ScrollLeft, scrollSpeed)
		return
	}
	e.display.ShowFixedString(text)
}

// Select runs a select dialog and returns the chosen 0-based index or
// Cancelled. Increment and decrement wrap modulo the option count.
func (e *Engine) Select(ctx context.Context, spec Select, timeout int, obs Observer) int {
	n := len(spec.Options)
	if n == 0 {
		return Cancelled
	}
	index := ((spec.Initial % n) + n) % n

	e.showTitle(spec.Title)
	e.showOption(spec, index)

	countdown := timeout
	for {
		action, err := e.next(ctx)
		if err != nil {
			return Cancelled
		}

		switch action {
		case device.ActionIncrement:
			countdown = timeout
			index = (index + 1) % n
			e.showOption(spec, index)
			notify(obs, EventIncrement, index)
		case device.ActionDecrement:
			countdown = timeout
			index = (index + n - 1) % n
			e.showOption(spec, index)
			notify(obs, EventDecrement, index)
		case device.ActionSelect:
			notify(obs, EventSelection, index)
			return index
		case device.ActionBack:
			notify(obs, EventTimeout, index)
			return Cancelled
		default:
			countdown--
			if countdown > 0 {
				continue
			}
			if notify(obs, EventTimeout, index) {
				// Re-ask on the next idle tick.
				countdown = 1
				continue
			}
			return Cancelled
		}
	}
}

// Value runs a value dialog. Select advances to the next field and commits
// on the last one (returning 0); Back returns to the previous field and
// cancels from the first one.
func (e *Engine) Value(ctx context.Context, spec *Value, timeout int, obs Observer) int {
	if len(spec.Fields) == 0 {
		return Cancelled
	}
	for i := range spec.Fields {
		spec.Fields[i].clamp()
	}

	e.showTitle(spec.Title)

	focus, ticks := 0, 0
	shown := ""
	render := func() {
		hidden := (ticks/blinkTicks)%2 == 1
		if text := spec.Render(focus, hidden); text != shown {
			shown = text
			e.display.ShowFixedString(text)
		}
	}
	render()

	countdown := timeout
	for {
		action, err := e.next(ctx)
		if err != nil {
			return Cancelled
		}
		if action != device.ActionNone {
			countdown = timeout
			ticks = 0
		} else {
			ticks++
		}

		field := &spec.Fields[focus]
		switch action {
		case device.ActionIncrement:
			field.step(1)
			render()
			notify(obs, EventIncrement, field.Value)
		case device.ActionDecrement:
			field.step(-1)
			render()
			notify(obs, EventDecrement, field.Value)
		case device.ActionSelect:
			if focus < len(spec.Fields)-1 {
				focus++
				render()
				continue
			}
			notify(obs, EventSelection, field.Value)
			return 0
		case device.ActionBack:
			if focus > 0 {
				focus--
				render()
				continue
			}
			notify(obs, EventTimeout, field.Value)
			return Cancelled
		default:
			render()
			countdown--
			if countdown > 0 {
				continue
			}
			if notify(obs, EventTimeout, field.Value) {
				countdown = 1
				continue
			}
			return Cancelled
		}
	}
}

// WaitRelease blocks while select is held. It reports true when the button
// stays down for the whole countdown (a long press).
func (e *Engine) WaitRelease(ctx context.Context, timeout int) bool {
	for countdown := timeout; e.input.SelectHeld(); {
		if err := e.ticker.Wait(ctx); err != nil {
			return false
		}
		countdown--
		if countdown <= 0 {
			return true
		}
	}
	return false
}

// WaitPress blocks until an input edge arrives or the countdown expires, in
// which case ActionNone is returned.
func (e *Engine) WaitPress(ctx context.Context, timeout int) device.Action {
	for countdown := timeout; countdown > 0; countdown-- {
		action, err := e.next(ctx)
		if err != nil {
			return device.ActionNone
		}
		if action != device.ActionNone {
			return action
		}
	}
	return device.ActionNone
}
