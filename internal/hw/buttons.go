package hw

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/logger"
)

const (
	debounce  = 30 * time.Millisecond
	edgePoll  = 100 * time.Millisecond
	queueSize = 8
)

// Pin is the subset of gpio.PinIn the buttons need.
type Pin interface {
	Name() string
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
}

// ButtonNames are the GPIO names of the four buttons.
type ButtonNames struct {
	Increment string
	Decrement string
	Select    string
	Back      string
}

// ButtonPins are the four buttons, active low.
type ButtonPins struct {
	Increment Pin
	Decrement Pin
	Select    Pin
	Back      Pin
}

// Buttons implements device.Input. A goroutine per pin waits for falling
// edges and queues them; Poll drains one per call.
type Buttons struct {
	sel    Pin
	events chan device.Action
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	now    func() time.Time
}

func OpenButtons(names ButtonNames) (*Buttons, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	lookup := func(name string) (Pin, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("no such pin %q", name)
		}
		return p, nil
	}

	var pins ButtonPins
	var err error
	if pins.Increment, err = lookup(names.Increment); err != nil {
		return nil, err
	}
	if pins.Decrement, err = lookup(names.Decrement); err != nil {
		return nil, err
	}
	if pins.Select, err = lookup(names.Select); err != nil {
		return nil, err
	}
	if pins.Back, err = lookup(names.Back); err != nil {
		return nil, err
	}
	return NewButtons(pins)
}

// NewButtons configures the pins and starts watching them.
func NewButtons(pins ButtonPins) (*Buttons, error) {
	b := &Buttons{
		sel:    pins.Select,
		events: make(chan device.Action, queueSize),
		done:   make(chan struct{}),
		now:    time.Now,
	}

	watch := []struct {
		pin    Pin
		action device.Action
	}{
		{pins.Increment, device.ActionIncrement},
		{pins.Decrement, device.ActionDecrement},
		{pins.Select, device.ActionSelect},
		{pins.Back, device.ActionBack},
	}
	for _, w := range watch {
		if err := w.pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to configure %s: %w", w.pin.Name(), err)
		}
		b.wg.Add(1)
		go b.watch(w.pin, w.action)
	}
	return b, nil
}

func (b *Buttons) watch(pin Pin, action device.Action) {
	defer b.wg.Done()

	var last time.Time
	for {
		select {
		case <-b.done:
			return
		default:
		}

		if !pin.WaitForEdge(edgePoll) {
			continue
		}
		if pin.Read() != gpio.Low {
			continue
		}
		now := b.now()
		if now.Sub(last) < debounce {
			continue
		}
		last = now

		select {
		case b.events <- action:
		default:
			logger.Debug("Input queue full, dropping edge", "pin", pin.Name(), "action", action)
		}
	}
}

func (b *Buttons) Poll() device.Action {
	select {
	case a := <-b.events:
		return a
	default:
		return device.ActionNone
	}
}

func (b *Buttons) SelectHeld() bool {
	return b.sel.Read() == gpio.Low
}

// Close stops the watchers. It returns once every goroutine has exited.
func (b *Buttons) Close() {
	b.once.Do(func() {
		close(b.done)
	})
	b.wg.Wait()
}
