package models

// RuntimeState holds transient flags derived each cycle. It is never persisted.
type RuntimeState struct {
	Voltage State // high-voltage supply
	Display State
	Alarm   State // an alarm is currently ringing
}
