// Package memory is an in-process persistence device for tests and the
// simulator.
package memory

import (
	"sync"

	"github.com/julianstephens/nixie/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

func New() *Store {
	return &Store{}
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) ReadRecord() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, storage.ErrNoRecord
	}
	return append([]byte(nil), s.data...), nil
}

func (s *Store) WriteRecord(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.writes++
	return nil
}

// Writes returns how many records have been written.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) GetConfigPath() string {
	return "memory"
}
