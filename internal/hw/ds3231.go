package hw

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"

	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/timefmt"
)

// DS3231Addr is the fixed bus address of the DS3231.
const DS3231Addr = 0x68

const (
	regSeconds  = 0x00
	regWeekday  = 0x03
	regTempMSB  = 0x11
	hour12Mode  = 0x40
	hourPM      = 0x20
	centuryMask = 0x80
)

// DS3231 implements device.RTC. The chip always runs in 24 hour mode once
// written; readings taken in 12 hour mode are folded back.
type DS3231 struct {
	dev *i2c.Dev
}

func NewDS3231(bus i2c.Bus, addr uint16) *DS3231 {
	return &DS3231{dev: &i2c.Dev{Bus: bus, Addr: addr}}
}

func bcd(b byte) uint8 {
	return (b>>4)*10 + b&0x0F
}

func toBCD(v uint8) byte {
	return byte(v/10)<<4 | byte(v%10)
}

func (r *DS3231) read(reg byte, buf []byte) error {
	if err := r.dev.Tx([]byte{reg}, buf); err != nil {
		return fmt.Errorf("ds3231 read %#02x: %w", reg, err)
	}
	return nil
}

func (r *DS3231) write(reg byte, data ...byte) error {
	if err := r.dev.Tx(append([]byte{reg}, data...), nil); err != nil {
		return fmt.Errorf("ds3231 write %#02x: %w", reg, err)
	}
	return nil
}

func (r *DS3231) ReadClock() (timefmt.Reading, error) {
	var buf [7]byte
	if err := r.read(regSeconds, buf[:]); err != nil {
		return timefmt.Reading{}, err
	}

	hour := buf[2]
	var hour24 uint8
	if hour&hour12Mode != 0 {
		cycle := timefmt.AM
		if hour&hourPM != 0 {
			cycle = timefmt.PM
		}
		hour24 = timefmt.FromDisplayHour(bcd(hour&0x1F), cycle)
	} else {
		hour24 = bcd(hour & 0x3F)
	}

	return timefmt.Reading{
		Second:  bcd(buf[0] & 0x7F),
		Minute:  bcd(buf[1] & 0x7F),
		Hour:    hour24,
		Weekday: models.Weekday(buf[3] & 0x07),
		Day:     bcd(buf[4] & 0x3F),
		Month:   bcd(buf[5] &^ centuryMask),
		Year:    bcd(buf[6]),
	}, nil
}

func (r *DS3231) WriteTime(hour, minute, second uint8) error {
	return r.write(regSeconds, toBCD(second), toBCD(minute), toBCD(hour))
}

// WriteDate sets the calendar and recomputes the weekday register, which
// counts Sunday as 1.
func (r *DS3231) WriteDate(day, month, year uint8) error {
	wd := time.Date(2000+int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC).Weekday()
	return r.write(regWeekday, byte(wd)+1, toBCD(day), toBCD(month), toBCD(year))
}

// ReadTemperature returns the die temperature in quarter degrees Celsius.
func (r *DS3231) ReadTemperature() (float64, error) {
	var buf [2]byte
	if err := r.read(regTempMSB, buf[:]); err != nil {
		return 0, err
	}
	return float64(int8(buf[0])) + float64(buf[1]>>6)*0.25, nil
}
