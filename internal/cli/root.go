package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nixie/internal/backup"
	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/keyring"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage"
	"github.com/julianstephens/nixie/internal/storage/eeprom"
	"github.com/julianstephens/nixie/internal/storage/memory"
	"github.com/julianstephens/nixie/internal/storage/postgres"
	"github.com/julianstephens/nixie/internal/storage/sqlite"
	"github.com/julianstephens/nixie/internal/timefmt"
)

const (
	memoryScheme = "memory:"
	i2cScheme    = "i2c:"
)

type Context struct {
	Store     storage.Provider
	Settings  *storage.ConfigStore
	ConfigDir string
	// Assume yes for confirmation prompts.
	Yes bool
}

// NewContext wraps a provider.
func NewContext(store storage.Provider, configDir string) *Context {
	return &Context{
		Store:     store,
		Settings:  storage.NewConfigStore(store),
		ConfigDir: configDir,
	}
}

// IsFileBacked reports whether the store lives in a local file that can be
// backed up.
func (c *Context) IsFileBacked() bool {
	switch c.Store.(type) {
	case *sqlite.Store, *eeprom.Store:
		return true
	}
	return false
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsFileBacked() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on the terminal. It returns true without
// asking when Yes is set.
func (c *Context) Confirm(title, description string) (bool, error) {
	if c.Yes {
		return true, nil
	}
	confirmed := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation aborted: %w", err)
	}
	return confirmed, nil
}

// I2COpener opens an I²C EEPROM store from a bus name and address. It is
// installed by the hardware build so that the storage factory does not
// depend on periph host drivers.
type I2COpener func(bus string, addr uint16) (storage.Provider, error)

// OpenStore picks a provider from the --config value:
//
//	postgres://..., host=...   PostgreSQL (credentials from env or keyring)
//	i2c:<bus>[@<addr>]         24Cxx EEPROM on an I²C bus
//	memory:                    volatile, for trying things out
//	*.bin, *.eep, *.img        file-backed EEPROM image
//	anything else              SQLite database
func OpenStore(config string, openI2C I2COpener) (storage.Provider, error) {
	switch {
	case config == keyringConfig:
		connStr, source, err := keyring.ResolveConnectionString()
		if err != nil {
			return nil, fmt.Errorf("no connection string in %s or the keyring: %w", constants.ConnectionEnvVar, err)
		}
		logger.Debug("Using PostgreSQL connection string", "source", source)
		return openPostgres(connStr)
	case postgres.IsConnString(config):
		return openPostgres(config)
	case strings.HasPrefix(config, i2cScheme):
		bus, addr, err := ParseI2C(strings.TrimPrefix(config, i2cScheme))
		if err != nil {
			return nil, err
		}
		if openI2C == nil {
			return nil, errors.New("i2c storage is not available in this build")
		}
		return openI2C(bus, addr)
	case config == memoryScheme:
		return memory.New(), nil
	}

	path := kong.ExpandPath(config)
	if backup.KindOf(path) == backup.KindImage {
		return eeprom.NewStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// keyringConfig selects PostgreSQL with the stored connection string.
const keyringConfig = "keyring:"

func openPostgres(connStr string) (storage.Provider, error) {
	if ok, err := postgres.ValidateConnString(connStr); !ok {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("%w: use %s, the OS keyring ('%s keyring set') or .pgpass",
				err, constants.ConnectionEnvVar, constants.AppName)
		}
		return nil, err
	}
	return postgres.New(connStr), nil
}

// ParseI2C parses "<bus>[@<addr>]". The address defaults to 0x57.
func ParseI2C(spec string) (string, uint16, error) {
	bus, addrText, found := strings.Cut(spec, "@")
	addr := uint64(0x57)
	if found {
		var err error
		addr, err = strconv.ParseUint(addrText, 0, 16)
		if err != nil || addr > 0x7F {
			return "", 0, fmt.Errorf("invalid i2c address %q", addrText)
		}
	}
	return bus, uint16(addr), nil
}

// DefaultConfigDir is where logs and the instance lock live.
func DefaultConfigDir() string {
	return filepath.Dir(kong.ExpandPath(constants.DefaultConfigPath))
}

// ConfigDirFor returns the directory of a file-backed store, or the default
// config directory otherwise.
func ConfigDirFor(store storage.Provider) string {
	switch store.(type) {
	case *sqlite.Store, *eeprom.Store:
		return filepath.Dir(store.GetConfigPath())
	}
	return DefaultConfigDir()
}

var weekdayNames = map[string]models.Weekday{
	"sun": models.Sunday, "sunday": models.Sunday,
	"mon": models.Monday, "monday": models.Monday,
	"tue": models.Tuesday, "tuesday": models.Tuesday,
	"wed": models.Wednesday, "wednesday": models.Wednesday,
	"thu": models.Thursday, "thursday": models.Thursday,
	"fri": models.Friday, "friday": models.Friday,
	"sat": models.Saturday, "saturday": models.Saturday,
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (1=Sunday .. 7=Saturday). "none" yields an empty mask; "all", "weekdays"
// and "weekends" are shorthands.
func ParseWeekdays(s string) (models.DayMask, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return 0, nil
	case "all", "daily":
		return models.MaskOf(models.Sunday, models.Monday, models.Tuesday, models.Wednesday,
			models.Thursday, models.Friday, models.Saturday), nil
	case "weekdays":
		return models.MaskOf(models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday), nil
	case "weekends":
		return models.MaskOf(models.Saturday, models.Sunday), nil
	}

	var mask models.DayMask
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := weekdayNames[part]; ok {
			mask = mask.With(wd, true)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || !models.Weekday(num).Valid() {
			return 0, fmt.Errorf("invalid weekday: %s", part)
		}
		mask = mask.With(models.Weekday(num), true)
	}
	return mask, nil
}

// ParseWeekday parses a single weekday.
func ParseWeekday(s string) (models.Weekday, error) {
	mask, err := ParseWeekdays(s)
	if err != nil {
		return 0, err
	}
	days := mask.Weekdays()
	if len(days) != 1 {
		return 0, fmt.Errorf("expected exactly one weekday, got %q", s)
	}
	return days[0], nil
}

// ParseTimeOfDay parses HH:MM or HH:MM:SS into seconds since midnight.
func ParseTimeOfDay(s string) (uint32, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time format: %q (expected HH:MM[:SS])", s)
	}
	limits := []int{23, 59, 59}
	var fields [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("invalid time %q: field %d out of range", s, i+1)
		}
		fields[i] = uint8(v)
	}
	return timefmt.SecondsOfDay(fields[0], fields[1], fields[2]), nil
}

// FormatTimeOfDay renders seconds since midnight as HH:MM:SS.
func FormatTimeOfDay(seconds uint32) string {
	h, m, s := timefmt.SplitSecondsOfDay(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseBrightness accepts auto, min, max, l1..l6 or the numeric enum value.
func ParseBrightness(s string) (models.Brightness, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for b := models.BrightnessAuto; b <= models.BrightnessMax; b++ {
		if b.String() == s {
			return b, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < models.BrightnessCount {
		return models.Brightness(n), nil
	}
	return 0, fmt.Errorf("invalid brightness %q (auto, min, l1-l6, max)", s)
}
