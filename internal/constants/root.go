package constants

import "time"

const (
	AppName            = "nixie"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/nixie/nixie.db"
	Version            = "v0.3.2"

	// FirmwareVersion is shown on the info screen.
	FirmwareVersion = 10

	// DisplayCount is the number of tubes on the display.
	DisplayCount = 8

	// ConfigKey marks a persisted record as initialized.
	ConfigKey byte = '$'

	AlarmCount = 3

	// EEPROMSize is the size of the persistence device image in bytes.
	EEPROMSize = 1024

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "nixie-"

	// Instance lock
	LockfileName = "nixie.lock"

	// ConnectionEnvVar overrides the PostgreSQL connection string.
	ConnectionEnvVar = "NIXIE_DB_CONNECTION"
)

// TickPeriod is the duration of one scheduling tick. Prompt timeouts are
// expressed in ticks.
const TickPeriod = 20 * time.Millisecond

// TicksPerSecond is the number of scheduling ticks in one second.
const TicksPerSecond = int(time.Second / TickPeriod)

// Timeout budgets, in ticks.
const (
	TimeoutInfo   = 3 * TicksPerSecond
	TimeoutMenu   = 5 * TicksPerSecond
	TimeoutSelect = 10 * TicksPerSecond
	TimeoutValue  = 30 * TicksPerSecond
)
