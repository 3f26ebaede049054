package constants

const (
	// Photodiode calibration bounds
	GainMin   = 1
	GainMax   = 50
	OffsetMin = 0
	OffsetMax = 20

	// SecondsPerDay bounds the blanking window and alarm times.
	SecondsPerDay = 86400

	// Factory defaults
	DefaultGain       = 10
	DefaultOffset     = 10
	DefaultMusicTimer = 0
)
