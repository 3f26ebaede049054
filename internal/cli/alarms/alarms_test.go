package alarms

import (
	"testing"

	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage/memory"
)

func ptr[T any](v T) *T { return &v }

func newContext(t *testing.T) *cli.Context {
	t.Helper()
	ctx := cli.NewContext(memory.New(), t.TempDir())
	if err := ctx.Settings.Save(models.DefaultConfig()); err != nil {
		t.Fatalf("failed to seed defaults: %v", err)
	}
	return ctx
}

func read(t *testing.T, ctx *cli.Context) models.Config {
	t.Helper()
	cfg, err := ctx.Settings.Read()
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	return cfg
}

func TestAlarmListCmd(t *testing.T) {
	if err := (&AlarmListCmd{}).Run(newContext(t)); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestAlarmSetCmd_TimeAndDays(t *testing.T) {
	ctx := newContext(t)

	cmd := &AlarmSetCmd{Index: 2, Time: ptr("06:45"), Days: ptr("weekdays"), Music: ptr(uint8(3))}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	a := read(t, ctx).Alarms[1]
	if a.Time != 6*3600+45*60 {
		t.Errorf("time = %d", a.Time)
	}
	if !a.Enabled() {
		t.Error("setting days should arm the alarm")
	}
	if a.Music != 3 {
		t.Errorf("music = %d", a.Music)
	}
	if a.Days.Has(models.Sunday) || !a.Days.Has(models.Friday) {
		t.Errorf("days = %s", a.Days)
	}
	if cfg := read(t, ctx); cfg.AlarmState&models.AlarmStateAny == 0 {
		t.Errorf("alarm mask not refreshed: %#x", cfg.AlarmState)
	}
}

func TestAlarmSetCmd_OnWithoutDays(t *testing.T) {
	ctx := newContext(t)
	if err := (&AlarmSetCmd{Index: 1, On: true}).Run(ctx); err == nil {
		t.Error("expected error arming an alarm with no days")
	}
	if read(t, ctx).Alarms[0].Enabled() {
		t.Error("alarm should stay disarmed")
	}
}

func TestAlarmSetCmd_Off(t *testing.T) {
	ctx := newContext(t)
	if err := (&AlarmSetCmd{Index: 3, Days: ptr("all")}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := (&AlarmSetCmd{Index: 3, Off: true}).Run(ctx); err != nil {
		t.Fatalf("off failed: %v", err)
	}
	a := read(t, ctx).Alarms[2]
	if a.Enabled() {
		t.Error("expected alarm disarmed")
	}
	if a.Days.IsZero() {
		t.Error("disarming should keep the days")
	}
}

func TestAlarmSetCmd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  AlarmSetCmd
	}{
		{"index low", AlarmSetCmd{Index: 0}},
		{"index high", AlarmSetCmd{Index: 4}},
		{"time", AlarmSetCmd{Index: 1, Time: ptr("7am")}},
		{"days", AlarmSetCmd{Index: 1, Days: ptr("funday")}},
		{"music", AlarmSetCmd{Index: 1, Music: ptr(uint8(200))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(newContext(t)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAlarmDayCmd(t *testing.T) {
	ctx := newContext(t)

	if err := (&AlarmDayCmd{Index: 1, Day: "tue"}).Run(ctx); err != nil {
		t.Fatalf("day on failed: %v", err)
	}
	a := read(t, ctx).Alarms[0]
	if !a.Days.Has(models.Tuesday) || !a.Enabled() {
		t.Fatalf("expected tuesday armed, got %s %s", a.Days, a.State)
	}

	if err := (&AlarmDayCmd{Index: 1, Day: "3", Off: true}).Run(ctx); err != nil {
		t.Fatalf("day off failed: %v", err)
	}
	a = read(t, ctx).Alarms[0]
	if !a.Days.IsZero() || a.Enabled() {
		t.Errorf("clearing the last day should disarm, got %s %s", a.Days, a.State)
	}
}

func TestAlarmDayCmd_InvalidDay(t *testing.T) {
	if err := (&AlarmDayCmd{Index: 1, Day: "weekends"}).Run(newContext(t)); err == nil {
		t.Error("expected error for more than one day")
	}
}
