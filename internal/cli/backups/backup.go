package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/nixie/internal/backup"
	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/lock"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup of the config store."`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the config store from a backup."`
}

var errNotFileBacked = errors.New("backups are only supported for SQLite and EEPROM image stores")

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if !ctx.IsFileBacked() {
		return nil, errNotFileBacked
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		fmt.Printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	if pid, running := lock.Owner(ctx.ConfigDir); running {
		return fmt.Errorf("%w (pid %d); stop it before restoring", lock.ErrHeld, pid)
	}

	backupPath, err := c.resolve(mgr)
	if err != nil {
		return err
	}

	ok, err := ctx.Confirm(
		"Replace the config store with this backup?",
		fmt.Sprintf("Restore from: %s\nThe current store is backed up first.", backupPath),
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Restore cancelled.")
		return nil
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}

	saved, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Config store restored successfully!")
	if saved != "" {
		fmt.Printf("  Previous store saved as %s\n", filepath.Base(saved))
	}
	return nil
}

// resolve accepts an absolute path, a path relative to the working
// directory, or a file name inside the backup directory.
func (c *BackupRestoreCmd) resolve(mgr *backup.Manager) (string, error) {
	if filepath.IsAbs(c.BackupFile) {
		if _, err := os.Stat(c.BackupFile); err != nil {
			return "", fmt.Errorf("backup file not found: %s", c.BackupFile)
		}
		return c.BackupFile, nil
	}
	if _, err := os.Stat(c.BackupFile); err == nil {
		abs, err := filepath.Abs(c.BackupFile)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return abs, nil
	}
	candidate := filepath.Join(mgr.Dir(), c.BackupFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.Dir())
}
