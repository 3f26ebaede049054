// Package backup keeps rotating snapshots of a file-backed persistence
// device. SQLite databases are copied with VACUUM INTO; EEPROM images are
// copied byte for byte.
package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/logger"
)

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// Kind is the format of the backed up file.
type Kind int

const (
	KindSQLite Kind = iota
	KindImage
)

func (k Kind) String() string {
	if k == KindSQLite {
		return "sqlite"
	}
	return "eeprom image"
}

// KindOf infers the format from the file extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	}
	return KindImage
}

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations for one device file.
type Manager struct {
	path      string
	backupDir string
	suffix    string
	kind      Kind
	now       func() time.Time
}

func NewManager(path string) *Manager {
	suffix := filepath.Ext(path)
	if suffix == "" {
		suffix = ".bin"
	}
	return &Manager{
		path:      path,
		backupDir: filepath.Join(filepath.Dir(path), constants.BackupDirName),
		suffix:    suffix,
		kind:      KindOf(path),
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

func (m *Manager) Kind() Kind {
	return m.kind
}

// Create snapshots the device file and rotates old backups.
func (m *Manager) Create() (string, error) {
	return m.create(false)
}

func (m *Manager) create(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.path); os.IsNotExist(err) {
		return "", fmt.Errorf("device file does not exist: %s", m.path)
	}

	dest, err := m.uniqueName()
	if err != nil {
		return "", err
	}

	if err := m.snapshot(dest); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", m.kind, err)
	}
	logger.Info("Backup created", "path", dest, "kind", m.kind)

	if !skipRotation {
		if err := m.rotate(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}
	return dest, nil
}

// uniqueName picks minute precision, then seconds, then a counter.
func (m *Manager) uniqueName() (string, error) {
	now := m.now()
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+m.suffix)
	}

	path := name(now.Format(minuteLayout))
	if !exists(path) {
		return path, nil
	}
	stamp := now.Format(secondLayout)
	if path = name(stamp); !exists(path) {
		return path, nil
	}
	for counter := 1; counter <= 100; counter++ {
		if path = name(fmt.Sprintf("%s-%d", stamp, counter)); !exists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (m *Manager) snapshot(dest string) error {
	if m.kind == KindImage {
		return copyFile(m.path, dest)
	}

	src, err := sql.Open("sqlite", m.path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		src.Close()
		return copyFile(m.path, dest)
	}
	return nil
}

// parseStamp reads the timestamp out of a backup name, ignoring any
// collision counter.
func (m *Manager) parseStamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{minuteLayout, secondLayout} {
		if t, err := time.Parse(layout, stamp); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// List returns the backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := m.parseStamp(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the device file with a backup. The current file is
// backed up first; its path is returned, empty when there was nothing to
// save.
func (m *Manager) Restore(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.Verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var saved string
	if exists(m.path) {
		var err error
		if saved, err = m.create(true); err != nil {
			return "", fmt.Errorf("failed to back up current device before restore: %w", err)
		}
	}

	tmp := m.path + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return saved, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return saved, fmt.Errorf("failed to restore device file: %w", err)
	}
	logger.Info("Backup restored", "from", backupPath, "saved", saved)
	return saved, nil
}

// Verify checks that a backup is usable for this device.
func (m *Manager) Verify(path string) error {
	if m.kind == KindImage {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() != constants.EEPROMSize {
			return fmt.Errorf("image is %d bytes, want %d", info.Size(), constants.EEPROMSize)
		}
		return nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
