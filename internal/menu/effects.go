package menu

import (
	"context"
	"fmt"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/prompt"
)

// SetMusic previews songs as they are stepped through and stores the one
// selected into music. The prompt does not time out while a preview plays.
// It always reports true so an alarm chain ends here either way.
func (m *Menu) SetMusic(ctx context.Context, music *uint8) bool {
	audio := m.c.Audio
	upper := audio.SongCount() - 1
	if upper < 0 {
		upper = 0
	}

	spec := &prompt.Value{
		Title:   label("AUDIO"),
		Display: fmt.Sprintf(" SET %02d ", *music),
		Fields:  []prompt.Field{{Column: 5, Width: 2, Lower: 0, Upper: upper, Value: int(*music)}},
	}
	m.c.Prompt.Value(ctx, spec, constants.TimeoutValue, func(ev prompt.Event, value int) bool {
		switch ev {
		case prompt.EventIncrement, prompt.EventDecrement:
			audio.Stop()
			audio.PlaySequence(value)
		case prompt.EventSelection:
			*music = uint8(value)
			m.c.Commit()
			audio.Stop()
		case prompt.EventTimeout:
			if audio.IsPlaying() {
				return true
			}
			audio.Stop()
		}
		return false
	})

	// Back ignores the veto and can leave a preview running.
	if audio.IsPlaying() {
		audio.Stop()
	}
	return true
}

// SetTimer asks for a countdown, five minutes by default, and runs it.
func (m *Menu) SetTimer(ctx context.Context) bool {
	spec := &prompt.Value{
		Title:   label("SET"),
		Display: "00 05 00",
		Fields: []prompt.Field{
			{Column: 0, Width: 2, Lower: 0, Upper: 23, Value: 0},
			{Column: 3, Width: 2, Lower: 0, Upper: 59, Value: 5},
			{Column: 6, Width: 2, Lower: 0, Upper: 59, Value: 0},
		},
	}
	if m.c.Prompt.Value(ctx, spec, constants.TimeoutValue, nil) == prompt.Cancelled {
		return false
	}
	m.effects.Timer(ctx, uint8(spec.Fields[0].Value), uint8(spec.Fields[1].Value), uint8(spec.Fields[2].Value))
	return true
}

// worldLineBlank is the lead digit value shown as an unlit tube.
const worldLineBlank = 10

// SetWorldLine asks for a divergence value: one lead digit (or blank) and six
// fractional digits. It returns lead*1e6 + fraction, or -1 when cancelled.
func (m *Menu) SetWorldLine(ctx context.Context) int64 {
	columns := []int{0, 2, 3, 4, 5, 6, 7}
	spec := &prompt.Value{Title: label("SET"), Display: "0:000000"}
	for i, col := range columns {
		upper := 9
		if i == 0 {
			upper = worldLineBlank
		}
		spec.Fields = append(spec.Fields, prompt.Field{Column: col, Width: 1, Upper: upper})
	}

	if m.c.Prompt.Value(ctx, spec, constants.TimeoutValue, nil) == prompt.Cancelled {
		return -1
	}

	var fraction int64
	for _, f := range spec.Fields[1:] {
		fraction = fraction*10 + int64(f.Value)
	}
	return int64(spec.Fields[0].Value)*1000000 + fraction
}

// Divergence runs the meter towards the entered world line, or a random one
// when the prompt is cancelled.
func (m *Menu) Divergence(ctx context.Context) {
	m.effects.DivergenceMeter(ctx, m.SetWorldLine(ctx))
}
