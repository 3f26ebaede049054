package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/migration"
	"github.com/julianstephens/nixie/internal/storage"
	"github.com/julianstephens/nixie/internal/storage/sqlrecord"
	"github.com/julianstephens/nixie/migrations"
)

type Store struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'nixie init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ReadRecord() ([]byte, error) {
	return sqlrecord.Read(s.db, migration.SQLite)
}

func (s *Store) WriteRecord(data []byte) error {
	revision, err := sqlrecord.Write(s.db, migration.SQLite, data, s.now())
	if err != nil {
		return err
	}
	logger.Debug("Config record revision written", "revision", revision)
	return nil
}

func (s *Store) History(limit int) ([]storage.Revision, error) {
	return sqlrecord.History(s.db, migration.SQLite, limit)
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init or
// Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
