// Package eeprom stores the config record in a file-backed EEPROM image.
// The image is EEPROMSize bytes, erased to 0xFF, with the record at offset 0.
package eeprom

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage"
)

const erased = 0xFF

// ErrNotInitialized is returned by Load when the image file is missing.
var ErrNotInitialized = errors.New("storage not initialized, run 'nixie init' first")

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init creates an erased image if none exists.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}
	image := bytes.Repeat([]byte{erased}, constants.EEPROMSize)
	if err := os.WriteFile(s.path, image, 0600); err != nil {
		return fmt.Errorf("failed to create eeprom image: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return ErrNotInitialized
	}
	if err != nil {
		return fmt.Errorf("failed to stat eeprom image: %w", err)
	}
	if info.Size() != constants.EEPROMSize {
		return fmt.Errorf("eeprom image %s is %d bytes, want %d", s.path, info.Size(), constants.EEPROMSize)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) ReadRecord() ([]byte, error) {
	image, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read eeprom image: %w", err)
	}
	if len(image) < models.RecordSize {
		return nil, models.ErrShortRecord
	}
	record := image[:models.RecordSize]
	if isErased(record) {
		return nil, storage.ErrNoRecord
	}
	return record, nil
}

// WriteRecord rewrites the image through a temporary file so a crash never
// leaves a torn record.
func (s *Store) WriteRecord(data []byte) error {
	image, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read eeprom image: %w", err)
	}
	if len(data) > len(image) {
		return fmt.Errorf("record of %d bytes does not fit a %d byte device", len(data), len(image))
	}
	copy(image, data)

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, image, 0600); err != nil {
		return fmt.Errorf("failed to write eeprom image: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace eeprom image: %w", err)
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func isErased(b []byte) bool {
	for _, c := range b {
		if c != erased {
			return false
		}
	}
	return true
}
