// Package i2ceeprom stores the config record on a 24C32-class serial EEPROM:
// 16-bit word addressing, 32-byte write pages and a self-timed write cycle
// after each page.
package i2ceeprom

import (
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage"
)

const (
	DefaultAddr = 0x57
	PageSize    = 32
	WriteCycle  = 5 * time.Millisecond

	busSpeed = 400 * physic.KiloHertz
)

type Store struct {
	bus   i2c.Bus
	dev   *i2c.Dev
	base  uint16
	sleep func(time.Duration)
}

// New binds a store to the device at addr. The record lives at offset base.
func New(bus i2c.Bus, addr, base uint16) *Store {
	return &Store{
		bus:   bus,
		dev:   &i2c.Dev{Bus: bus, Addr: addr},
		base:  base,
		sleep: time.Sleep,
	}
}

// Init probes the device. A blank EEPROM needs no formatting.
func (s *Store) Init() error {
	if err := s.bus.SetSpeed(busSpeed); err != nil {
		return fmt.Errorf("failed to set i2c speed: %w", err)
	}
	return s.Load()
}

func (s *Store) Load() error {
	if _, err := s.read(s.base, 1); err != nil {
		return fmt.Errorf("eeprom not responding at %s: %w", s.dev, err)
	}
	return nil
}

func (s *Store) Close() error {
	if c, ok := s.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) read(addr uint16, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := s.dev.Tx([]byte{byte(addr >> 8), byte(addr)}, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Store) ReadRecord() ([]byte, error) {
	data, err := s.read(s.base, models.RecordSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read eeprom: %w", err)
	}
	for _, b := range data {
		if b != 0xFF {
			return data, nil
		}
	}
	return nil, storage.ErrNoRecord
}

// WriteRecord writes page by page. A write never crosses a page boundary
// because the device wraps within the page.
func (s *Store) WriteRecord(data []byte) error {
	addr := s.base
	for len(data) > 0 {
		n := PageSize - int(addr%PageSize)
		if n > len(data) {
			n = len(data)
		}
		frame := make([]byte, 0, 2+n)
		frame = append(frame, byte(addr>>8), byte(addr))
		frame = append(frame, data[:n]...)
		if _, err := s.dev.Write(frame); err != nil {
			return fmt.Errorf("failed to write eeprom page at %#04x: %w", addr, err)
		}
		s.sleep(WriteCycle)
		addr += uint16(n)
		data = data[n:]
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return fmt.Sprintf("i2c:%s@%#02x", s.bus, s.dev.Addr)
}
