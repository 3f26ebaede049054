package alarms

import (
	"fmt"

	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/scheduler"
	"github.com/julianstephens/nixie/internal/tone"
)

type AlarmCmd struct {
	List AlarmListCmd `cmd:"" default:"1" help:"List alarms."`
	Set  AlarmSetCmd  `cmd:"" help:"Edit an alarm."`
	Day  AlarmDayCmd  `cmd:"" help:"Turn one weekday of an alarm on or off."`
}

type AlarmListCmd struct{}

func (c *AlarmListCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Settings.Load()
	fmt.Println("Alarms:")
	for i, a := range cfg.Alarms {
		fmt.Printf("  %d  %s  %-8s  song %d  %s\n", i+1, cli.FormatTimeOfDay(a.Time), a.State, a.Music, a.Days)
	}
	return nil
}

type AlarmSetCmd struct {
	Index int     `arg:"" help:"Alarm number (1-3)."`
	Time  *string `help:"Alarm time (HH:MM[:SS])."`
	Days  *string `help:"Active days, e.g. mon,wed,fri, weekdays, weekends, all or none."`
	Music *uint8  `help:"Song to ring with."`
	On    bool    `help:"Arm the alarm." xor:"state"`
	Off   bool    `help:"Disarm the alarm." xor:"state"`
}

func (c *AlarmSetCmd) Run(ctx *cli.Context) error {
	idx, err := alarmIndex(c.Index)
	if err != nil {
		return err
	}

	cfg := ctx.Settings.Load()
	alarm := &cfg.Alarms[idx]
	updated := false

	if c.Time != nil {
		secs, err := cli.ParseTimeOfDay(*c.Time)
		if err != nil {
			return err
		}
		alarm.Time = secs
		updated = true
	}
	if c.Music != nil {
		if int(*c.Music) >= len(tone.Songs) {
			return fmt.Errorf("song must be between 0 and %d", len(tone.Songs)-1)
		}
		alarm.Music = *c.Music
		updated = true
	}
	if c.Days != nil {
		mask, err := cli.ParseWeekdays(*c.Days)
		if err != nil {
			return err
		}
		alarm.Days = mask
		// Editing the days arms the alarm unless none are left, the same way
		// the days screen does.
		if _, err := scheduler.SetAlarmState(&cfg, idx, !mask.IsZero()); err != nil {
			return err
		}
		updated = true
	}
	if c.On || c.Off {
		state, err := scheduler.SetAlarmState(&cfg, idx, c.On)
		if err != nil {
			return err
		}
		if c.On && state != models.StateEnable {
			return fmt.Errorf("alarm %d has no active day; set --days first", c.Index)
		}
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}
	scheduler.RefreshAlarmMask(&cfg)

	if err := ctx.Settings.Save(cfg); err != nil {
		return fmt.Errorf("failed to save alarm: %w", err)
	}
	fmt.Printf("✓ Alarm %d: %s %s %s\n", c.Index, cli.FormatTimeOfDay(alarm.Time), alarm.State, alarm.Days)
	return nil
}

type AlarmDayCmd struct {
	Index int    `arg:"" help:"Alarm number (1-3)."`
	Day   string `arg:"" help:"Weekday name or number (1=Sunday)."`
	Off   bool   `help:"Clear the day instead of setting it."`
}

func (c *AlarmDayCmd) Run(ctx *cli.Context) error {
	idx, err := alarmIndex(c.Index)
	if err != nil {
		return err
	}
	day, err := cli.ParseWeekday(c.Day)
	if err != nil {
		return err
	}

	cfg := ctx.Settings.Load()
	state, err := scheduler.ToggleDay(&cfg, idx, day, !c.Off)
	if err != nil {
		return err
	}
	if err := ctx.Settings.Save(cfg); err != nil {
		return fmt.Errorf("failed to save alarm: %w", err)
	}
	fmt.Printf("✓ Alarm %d: %s (%s)\n", c.Index, cfg.Alarms[idx].Days, state)
	return nil
}

func alarmIndex(n int) (int, error) {
	if n < 1 || n > constants.AlarmCount {
		return 0, fmt.Errorf("alarm number must be between 1 and %d", constants.AlarmCount)
	}
	return n - 1, nil
}
