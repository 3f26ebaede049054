package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage"
	"github.com/julianstephens/nixie/internal/tone"
)

type ShowCmd struct {
	JSON bool `help:"Print the record as JSON."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Settings.Load()

	if c.JSON {
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printConfig(cfg)
	return nil
}

func printConfig(cfg models.Config) {
	fmt.Println("Display:")
	fmt.Printf("  Brightness:      %s\n", cfg.Brightness)
	fmt.Printf("  Light Gain:      %d\n", cfg.Gain)
	fmt.Printf("  Light Offset:    %d\n", cfg.Offset)
	fmt.Printf("  Date Format:     %s\n", cfg.DateFormat)
	fmt.Printf("  Time Format:     %s\n", cfg.TimeFormat)
	fmt.Printf("  Temperature:     °%s\n", cfg.TemperatureUnit)
	if cfg.BlankBegin == cfg.BlankEnd {
		fmt.Println("  Blanking:        off")
	} else {
		fmt.Printf("  Blanking:        %s - %s\n", cli.FormatTimeOfDay(cfg.BlankBegin), cli.FormatTimeOfDay(cfg.BlankEnd))
	}
	fmt.Println("\nSound:")
	fmt.Printf("  Key Noise:       %s\n", cfg.Noise)
	fmt.Printf("  Timer Song:      %d\n", cfg.MusicTimer)
	fmt.Println("\nAlarms:")
	for i, a := range cfg.Alarms {
		fmt.Printf("  %d: %s  %-8s  song %d  %s\n", i+1, cli.FormatTimeOfDay(a.Time), a.State, a.Music, a.Days)
	}
}

type SetCmd struct {
	Brightness *string `help:"Display brightness: auto, min, l1-l6, max."`
	Gain       *uint8  `help:"Light sensor gain for auto brightness."`
	Offset     *uint8  `help:"Light sensor offset for auto brightness."`
	DateFormat *string `name:"date-format" help:"Date field order: yymmdd, mmddyy or ddmmyy."`
	TimeFormat *string `name:"time-format" help:"Clock format: 24h or 12h."`
	Unit       *string `help:"Temperature unit: C or F."`
	Noise      *bool   `negatable:"" help:"Click on every key press."`
	BlankBegin *string `name:"blank-begin" help:"Start of the blanking window (HH:MM[:SS])."`
	BlankEnd   *string `name:"blank-end" help:"End of the blanking window (HH:MM[:SS])."`
	MusicTimer *uint8  `name:"music-timer" help:"Song played when the countdown timer expires."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Settings.Load()

	updated, err := c.apply(&cfg)
	if err != nil {
		return err
	}
	if !updated {
		fmt.Println("No changes specified. Use 'nixie show' to view settings or flags to update them.")
		return nil
	}

	if err := cfg.Check(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := ctx.Settings.Save(cfg); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}

func (c *SetCmd) apply(cfg *models.Config) (bool, error) {
	updated := false
	if c.Brightness != nil {
		b, err := cli.ParseBrightness(*c.Brightness)
		if err != nil {
			return false, err
		}
		cfg.Brightness = b
		updated = true
	}
	if c.Gain != nil {
		if *c.Gain < constants.GainMin || *c.Gain > constants.GainMax {
			return false, fmt.Errorf("gain must be between %d and %d", constants.GainMin, constants.GainMax)
		}
		cfg.Gain = *c.Gain
		updated = true
	}
	if c.Offset != nil {
		if *c.Offset > constants.OffsetMax {
			return false, fmt.Errorf("offset must be between %d and %d", constants.OffsetMin, constants.OffsetMax)
		}
		cfg.Offset = *c.Offset
		updated = true
	}
	if c.DateFormat != nil {
		f, err := parseDateFormat(*c.DateFormat)
		if err != nil {
			return false, err
		}
		cfg.DateFormat = f
		updated = true
	}
	if c.TimeFormat != nil {
		switch strings.ToLower(*c.TimeFormat) {
		case "24h", "24":
			cfg.TimeFormat = models.TimeH24
		case "12h", "12":
			cfg.TimeFormat = models.TimeH12
		default:
			return false, fmt.Errorf("invalid time format %q (24h, 12h)", *c.TimeFormat)
		}
		updated = true
	}
	if c.Unit != nil {
		switch strings.ToUpper(*c.Unit) {
		case "C":
			cfg.TemperatureUnit = models.UnitCelsius
		case "F":
			cfg.TemperatureUnit = models.UnitFahrenheit
		default:
			return false, fmt.Errorf("invalid temperature unit %q (C, F)", *c.Unit)
		}
		updated = true
	}
	if c.Noise != nil {
		cfg.Noise = models.StateDisable
		if *c.Noise {
			cfg.Noise = models.StateEnable
		}
		updated = true
	}
	if c.BlankBegin != nil {
		secs, err := cli.ParseTimeOfDay(*c.BlankBegin)
		if err != nil {
			return false, err
		}
		cfg.BlankBegin = secs
		updated = true
	}
	if c.BlankEnd != nil {
		secs, err := cli.ParseTimeOfDay(*c.BlankEnd)
		if err != nil {
			return false, err
		}
		cfg.BlankEnd = secs
		updated = true
	}
	if c.MusicTimer != nil {
		if int(*c.MusicTimer) >= len(tone.Songs) {
			return false, fmt.Errorf("music timer must be between 0 and %d", len(tone.Songs)-1)
		}
		cfg.MusicTimer = *c.MusicTimer
		updated = true
	}
	return updated, nil
}

func parseDateFormat(s string) (models.DateFormat, error) {
	s = strings.ToLower(s)
	for f := models.DateYYMMDD; f <= models.DateDDMMYY; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("invalid date format %q (yymmdd, mmddyy, ddmmyy)", s)
}

type ResetCmd struct{}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Confirm("Restore factory defaults?", "Every setting and alarm will be overwritten.")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Reset cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	ctx.Settings.RestoreFactoryDefaults()
	// The restore only logs write failures; read back to report them.
	cfg, err := ctx.Settings.Read()
	if err != nil {
		return fmt.Errorf("failed to restore factory defaults: %w", err)
	}
	if cfg != models.DefaultConfig() {
		return errors.New("failed to restore factory defaults: stored record was not replaced")
	}
	fmt.Println("✓ Factory defaults restored.")
	return nil
}

type HistoryCmd struct {
	Limit int `help:"Number of revisions to show." default:"10"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	h, ok := ctx.Store.(storage.Historian)
	if !ok {
		return fmt.Errorf("storage at %s does not keep a revision history", ctx.Store.GetConfigPath())
	}

	revisions, err := h.History(c.Limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(revisions) == 0 {
		fmt.Println("No revisions recorded.")
		return nil
	}

	for _, r := range revisions {
		var cfg models.Config
		status := "ok"
		if err := cfg.UnmarshalBinary(r.Record); err != nil {
			status = "invalid"
		}
		fmt.Printf("  %s  %s  brightness=%s alarms=%s\n",
			r.SavedAt.Local().Format("2006-01-02 15:04:05"), shortID(r.ID), brightnessOf(cfg, status), armed(cfg, status))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func brightnessOf(cfg models.Config, status string) string {
	if status != "ok" {
		return status
	}
	return cfg.Brightness.String()
}

func armed(cfg models.Config, status string) string {
	if status != "ok" {
		return status
	}
	n := 0
	for _, a := range cfg.Alarms {
		if a.Enabled() {
			n++
		}
	}
	return fmt.Sprintf("%d/%d", n, len(cfg.Alarms))
}
