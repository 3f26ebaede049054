package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/julianstephens/nixie/internal/constants"
)

// ErrShortRecord is returned when fewer than RecordSize bytes are decoded.
var ErrShortRecord = errors.New("record too short")

type alarmRecord struct {
	State uint8
	Music uint8
	Days  uint8
	Time  uint32
}

// record is the on-device layout. Field order and widths are fixed.
type record struct {
	Validate        uint8
	Noise           uint8
	AlarmState      uint8
	Brightness      uint8
	Gain            uint8
	Offset          uint8
	DateFormat      uint8
	TimeFormat      uint8
	TemperatureUnit uint8
	BlankBegin      uint32
	BlankEnd        uint32
	MusicTimer      uint8
	Alarms          [constants.AlarmCount]alarmRecord
}

// RecordSize is the encoded length of a Config in bytes.
var RecordSize = binary.Size(record{})

// MarshalBinary encodes the config into its fixed-size record.
func (c Config) MarshalBinary() ([]byte, error) {
	r := record{
		Validate:        c.Validate,
		Noise:           uint8(c.Noise),
		AlarmState:      c.AlarmState,
		Brightness:      uint8(c.Brightness),
		Gain:            c.Gain,
		Offset:          c.Offset,
		DateFormat:      uint8(c.DateFormat),
		TimeFormat:      uint8(c.TimeFormat),
		TemperatureUnit: uint8(c.TemperatureUnit),
		BlankBegin:      c.BlankBegin,
		BlankEnd:        c.BlankEnd,
		MusicTimer:      c.MusicTimer,
	}
	for i, a := range c.Alarms {
		r.Alarms[i] = alarmRecord{
			State: uint8(a.State),
			Music: a.Music,
			Days:  uint8(a.Days),
			Time:  a.Time,
		}
	}

	buf := bytes.NewBuffer(make([]byte, 0, RecordSize))
	if err := binary.Write(buf, binary.LittleEndian, &r); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a record and validates every field. On error the
// receiver is left untouched.
func (c *Config) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortRecord, len(data), RecordSize)
	}

	var r record
	if err := binary.Read(bytes.NewReader(data[:RecordSize]), binary.LittleEndian, &r); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}

	decoded := Config{
		Validate:        r.Validate,
		Noise:           State(r.Noise),
		AlarmState:      r.AlarmState,
		Brightness:      Brightness(r.Brightness),
		Gain:            r.Gain,
		Offset:          r.Offset,
		DateFormat:      DateFormat(r.DateFormat),
		TimeFormat:      TimeFormat(r.TimeFormat),
		TemperatureUnit: TemperatureUnit(r.TemperatureUnit),
		BlankBegin:      r.BlankBegin,
		BlankEnd:        r.BlankEnd,
		MusicTimer:      r.MusicTimer,
	}
	for i, a := range r.Alarms {
		decoded.Alarms[i] = Alarm{
			State: State(a.State),
			Music: a.Music,
			Days:  DayMask(a.Days),
			Time:  a.Time,
		}
	}

	if err := decoded.Check(); err != nil {
		return err
	}
	*c = decoded
	return nil
}
