package storage_test

import (
	"errors"
	"testing"

	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage"
	"github.com/julianstephens/nixie/internal/storage/memory"
)

type failingProvider struct {
	*memory.Store
}

func (failingProvider) ReadRecord() ([]byte, error) {
	return nil, errors.New("bus error")
}

func (failingProvider) WriteRecord([]byte) error {
	return errors.New("bus error")
}

func TestConfigStore_LoadEmpty(t *testing.T) {
	store := storage.NewConfigStore(memory.New())
	if got := store.Load(); got != models.DefaultConfig() {
		t.Errorf("expected factory defaults, got %+v", got)
	}
	if _, err := store.Read(); !errors.Is(err, storage.ErrNoRecord) {
		t.Errorf("Read() error = %v, want ErrNoRecord", err)
	}
}

func TestConfigStore_SaveLoad(t *testing.T) {
	device := memory.New()
	store := storage.NewConfigStore(device)

	cfg := models.DefaultConfig()
	cfg.Brightness = models.BrightnessL3
	cfg.TimeFormat = models.TimeH12
	cfg.Alarms[1] = models.Alarm{State: models.StateEnable, Music: 2, Days: models.MaskOf(models.Monday), Time: 7 * 3600}

	if err := store.Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := store.Load(); got != cfg {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
	if device.Writes() != 1 {
		t.Errorf("expected one write, got %d", device.Writes())
	}
}

func TestConfigStore_CorruptRecord(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b []byte) []byte
	}{
		{"wrong marker", func(b []byte) []byte { b[0] = '#'; return b }},
		{"brightness out of range", func(b []byte) []byte { b[3] = 200; return b }},
		{"truncated", func(b []byte) []byte { return b[:10] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultConfig()
			cfg.Gain = 33
			data, err := cfg.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}

			device := memory.New()
			if err := device.WriteRecord(tt.mutate(data)); err != nil {
				t.Fatal(err)
			}
			store := storage.NewConfigStore(device)
			if got := store.Load(); got != models.DefaultConfig() {
				t.Errorf("expected exactly the factory defaults, got %+v", got)
			}
			if _, err := store.Read(); err == nil {
				t.Error("Read() should report the rejected record")
			}
		})
	}
}

func TestConfigStore_ProviderErrors(t *testing.T) {
	store := storage.NewConfigStore(failingProvider{memory.New()})
	if got := store.Load(); got != models.DefaultConfig() {
		t.Errorf("expected defaults on read failure, got %+v", got)
	}
	if err := store.Save(models.DefaultConfig()); err == nil {
		t.Error("expected Save() to surface write failure")
	}
}

func TestConfigStore_RestoreFactoryDefaults(t *testing.T) {
	device := memory.New()
	store := storage.NewConfigStore(device)

	cfg := models.DefaultConfig()
	cfg.Offset = 3
	if err := store.Save(cfg); err != nil {
		t.Fatal(err)
	}

	if got := store.RestoreFactoryDefaults(); got != models.DefaultConfig() {
		t.Errorf("RestoreFactoryDefaults() = %+v", got)
	}
	if got := store.Load(); got != models.DefaultConfig() {
		t.Errorf("defaults were not persisted: %+v", got)
	}
}
