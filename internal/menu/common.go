package menu

import (
	"context"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/prompt"
	"github.com/julianstephens/nixie/internal/timefmt"
)

var (
	stateItems = labels("DISABLE", "ENABLE")
	cycleItems = labels("AM", "PM")
)

func stateOf(on bool) models.State {
	if on {
		return models.StateEnable
	}
	return models.StateDisable
}

// selectState asks for DISABLE/ENABLE and returns the index or Cancelled.
func (m *Menu) selectState(ctx context.Context, title string, initial models.State) int {
	return m.c.Prompt.Select(ctx, prompt.Select{
		Title:   title,
		Options: stateItems,
		Initial: int(initial),
		Mode:    prompt.ModeStatic,
	}, constants.TimeoutSelect, nil)
}

func (m *Menu) selectCycle(ctx context.Context, initial timefmt.Cycle) int {
	return m.c.Prompt.Select(ctx, prompt.Select{
		Title:   label("PERIOD"),
		Options: cycleItems,
		Initial: int(initial),
	}, constants.TimeoutSelect, nil)
}

var (
	rtcLower24 = []int{0, 0, 0}
	rtcUpper24 = []int{23, 59, 59}
	rtcLower12 = []int{1, 0, 0}
	rtcUpper12 = []int{12, 59, 59}
)

// selectRTCValue edits an hour-led field set (hour, minute[, second]) in the
// configured hour format. Fields[0] holds a 24 hour value on entry and, when
// true is returned, on exit. Under 12 hour format the AM/PM period is asked
// after the value prompt commits.
func (m *Menu) selectRTCValue(ctx context.Context, spec *prompt.Value) bool {
	hour := uint8(spec.Fields[0].Value)
	cycle := timefmt.CycleOf(hour)
	h12 := m.c.Config.TimeFormat == models.TimeH12

	lower, upper := rtcLower24, rtcUpper24
	if h12 {
		spec.Fields[0].Value = int(timefmt.DisplayHour(hour, models.TimeH12))
		lower, upper = rtcLower12, rtcUpper12
	}
	for i := range spec.Fields {
		spec.Fields[i].Lower = lower[i]
		spec.Fields[i].Upper = upper[i]
	}

	if m.c.Prompt.Value(ctx, spec, constants.TimeoutValue, nil) == prompt.Cancelled {
		return false
	}
	if !h12 {
		return true
	}

	result := m.selectCycle(ctx, cycle)
	if result == prompt.Cancelled {
		return false
	}
	spec.Fields[0].Value = int(timefmt.FromDisplayHour(uint8(spec.Fields[0].Value), timefmt.Cycle(result)))
	return true
}
