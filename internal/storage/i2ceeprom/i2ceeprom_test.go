package i2ceeprom

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage"
)

// fakeBus emulates a 4 KiB EEPROM with page wrap.
type fakeBus struct {
	mem    [4096]byte
	addr   uint16
	writes [][]byte
	speed  physic.Frequency
	fail   bool
}

func newFakeBus() *fakeBus {
	b := &fakeBus{}
	for i := range b.mem {
		b.mem[i] = 0xFF
	}
	return b
}

func (b *fakeBus) String() string { return "fake" }

func (b *fakeBus) SetSpeed(f physic.Frequency) error {
	b.speed = f
	return nil
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if b.fail || addr != DefaultAddr {
		return errors.New("nack")
	}
	if len(w) < 2 {
		return errors.New("short address")
	}
	at := uint16(w[0])<<8 | uint16(w[1])
	if payload := w[2:]; len(payload) > 0 {
		b.writes = append(b.writes, append([]byte(nil), payload...))
		page := at &^ (PageSize - 1)
		for i, c := range payload {
			b.mem[page+(at+uint16(i))%PageSize] = c
		}
	}
	for i := range r {
		r[i] = b.mem[(int(at)+i)%len(b.mem)]
	}
	return nil
}

func newStore(bus *fakeBus, base uint16) *Store {
	s := New(bus, DefaultAddr, base)
	s.sleep = func(time.Duration) {}
	return s
}

func TestStore_BlankDevice(t *testing.T) {
	bus := newFakeBus()
	s := newStore(bus, 0)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if bus.speed != busSpeed {
		t.Errorf("bus speed = %v", bus.speed)
	}
	if _, err := s.ReadRecord(); !errors.Is(err, storage.ErrNoRecord) {
		t.Errorf("expected ErrNoRecord, got %v", err)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		base      uint16
		wantPages int
	}{
		{"aligned", 0, 2},
		{"unaligned", 60, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeBus()
			s := newStore(bus, tt.base)

			cfg := models.DefaultConfig()
			cfg.Gain = 42
			cfg.Alarms[2].Time = 86399
			data, err := cfg.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}
			if err := s.WriteRecord(data); err != nil {
				t.Fatalf("WriteRecord() error = %v", err)
			}
			if len(bus.writes) != tt.wantPages {
				t.Errorf("expected %d page writes, got %d", tt.wantPages, len(bus.writes))
			}
			for _, w := range bus.writes {
				if len(w) > PageSize {
					t.Errorf("page write of %d bytes", len(w))
				}
			}

			got, err := s.ReadRecord()
			if err != nil {
				t.Fatalf("ReadRecord() error = %v", err)
			}
			var back models.Config
			if err := back.UnmarshalBinary(got); err != nil {
				t.Fatalf("UnmarshalBinary() error = %v", err)
			}
			if back != cfg {
				t.Errorf("round trip mismatch: %+v", back)
			}
		})
	}
}

func TestStore_NotResponding(t *testing.T) {
	bus := newFakeBus()
	bus.fail = true
	if err := newStore(bus, 0).Load(); err == nil {
		t.Error("expected error from a silent device")
	}
}

func TestStore_ConfigPath(t *testing.T) {
	if got := newStore(newFakeBus(), 0).GetConfigPath(); got != "i2c:fake@0x57" {
		t.Errorf("GetConfigPath() = %q", got)
	}
}
