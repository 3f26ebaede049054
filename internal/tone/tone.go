// Package tone plays note sequences on a timer goroutine, independent of the
// main loop. Outputs only ever see Tone and Silence calls from that goroutine
// or from Stop.
package tone

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/julianstephens/nixie/internal/logger"
)

// Note is one step of a song. A zero Pitch is a rest.
type Note struct {
	Pitch  physic.Frequency
	Length time.Duration
}

type Song []Note

// Output drives the transducer.
type Output interface {
	Tone(f physic.Frequency) error
	Silence() error
}

const (
	blipPitch  = 4 * physic.KiloHertz
	blipLength = 15 * time.Millisecond
)

// Songs are the built-in alarm and timer patterns.
var Songs = []Song{
	pattern(2*physic.KiloHertz, 100*time.Millisecond, 4, 400*time.Millisecond),
	pattern(2500*physic.Hertz, 60*time.Millisecond, 8, 300*time.Millisecond),
	ramp(880*physic.Hertz, 110*physic.Hertz, 8, 80*time.Millisecond),
	ramp(1760*physic.Hertz, -110*physic.Hertz, 8, 80*time.Millisecond),
	pattern(1*physic.KiloHertz, 500*time.Millisecond, 1, 500*time.Millisecond),
}

// pattern repeats a beep count times followed by a rest.
func pattern(pitch physic.Frequency, beep time.Duration, count int, rest time.Duration) Song {
	var s Song
	for i := 0; i < count; i++ {
		s = append(s, Note{pitch, beep}, Note{0, beep})
	}
	return append(s, Note{0, rest})
}

// ramp steps the pitch by step for count notes.
func ramp(start, step physic.Frequency, count int, length time.Duration) Song {
	s := make(Song, 0, count+1)
	for i := 0; i < count; i++ {
		s = append(s, Note{start + physic.Frequency(i)*step, length})
	}
	return append(s, Note{0, 4 * length})
}

// Player implements device.Audio on top of an Output.
type Player struct {
	mu      sync.Mutex
	out     Output
	songs   []Song
	playing bool
	stop    chan struct{}
	gen     uint64
	wg      sync.WaitGroup
}

func NewPlayer(out Output, songs []Song) *Player {
	return &Player{out: out, songs: songs}
}

func (p *Player) SongCount() int {
	return len(p.songs)
}

// PlaySequence starts a song, replacing any current one. Out of range
// indices are ignored.
func (p *Player) PlaySequence(index int) {
	if index < 0 || index >= len(p.songs) {
		logger.Warn("No such song", "index", index, "count", len(p.songs))
		return
	}
	p.start(p.songs[index])
}

// Blip is a short click for input feedback. It never interrupts a song.
func (p *Player) Blip() {
	if p.IsPlaying() {
		return
	}
	p.start(Song{{blipPitch, blipLength}})
}

func (p *Player) start(song Song) {
	p.Stop()

	p.mu.Lock()
	p.gen++
	gen := p.gen
	stop := make(chan struct{})
	p.stop = stop
	p.playing = true
	p.wg.Add(1)
	p.mu.Unlock()

	go p.run(song, stop, gen)
}

func (p *Player) run(song Song, stop <-chan struct{}, gen uint64) {
	defer p.wg.Done()
	defer p.finish(gen)

	timer := time.NewTimer(0)
	<-timer.C
	defer timer.Stop()

	for _, n := range song {
		var err error
		if n.Pitch == 0 {
			err = p.out.Silence()
		} else {
			err = p.out.Tone(n.Pitch)
		}
		if err != nil {
			logger.Warn("Tone output failed", "error", err)
			return
		}

		timer.Reset(n.Length)
		select {
		case <-stop:
			return
		case <-timer.C:
		}
	}
}

func (p *Player) finish(gen uint64) {
	_ = p.out.Silence()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen == gen {
		p.playing = false
	}
}

// Stop silences the current song and waits for its goroutine to exit.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	p.playing = false
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}
