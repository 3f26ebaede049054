package storage

import (
	"errors"
	"fmt"

	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/models"
)

// ConfigStore owns the persisted settings record. Load never fails: an
// unreadable, uninitialized or corrupt record yields factory defaults.
type ConfigStore struct {
	provider Provider
}

func NewConfigStore(provider Provider) *ConfigStore {
	return &ConfigStore{provider: provider}
}

// Provider returns the underlying persistence device.
func (s *ConfigStore) Provider() Provider {
	return s.provider
}

// Load reads and validates the stored record.
func (s *ConfigStore) Load() models.Config {
	cfg, err := s.Read()
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			logger.Info("No stored config record, using factory defaults")
		} else {
			logger.Warn("Stored config record rejected, using factory defaults", "error", err)
		}
		return models.DefaultConfig()
	}
	return cfg
}

// Read is Load without the fallback, for callers that need to know why a
// record was rejected.
func (s *ConfigStore) Read() (models.Config, error) {
	data, err := s.provider.ReadRecord()
	if err != nil {
		return models.Config{}, err
	}

	var cfg models.Config
	if err := cfg.UnmarshalBinary(data); err != nil {
		return models.Config{}, fmt.Errorf("invalid record: %w", err)
	}
	return cfg, nil
}

// Save writes the full record.
func (s *ConfigStore) Save(cfg models.Config) error {
	data, err := cfg.MarshalBinary()
	if err != nil {
		return err
	}
	if err := s.provider.WriteRecord(data); err != nil {
		return fmt.Errorf("failed to write config record: %w", err)
	}
	logger.Debug("Config record saved", "bytes", len(data))
	return nil
}

// RestoreFactoryDefaults persists the factory defaults and returns the
// record as read back from the device.
func (s *ConfigStore) RestoreFactoryDefaults() models.Config {
	if err := s.Save(models.DefaultConfig()); err != nil {
		logger.Error("Failed to persist factory defaults", "error", err)
	}
	return s.Load()
}
