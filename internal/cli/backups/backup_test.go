package backups

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/nixie/internal/backup"
	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage/eeprom"
	"github.com/julianstephens/nixie/internal/storage/memory"
)

func setupImage(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()
	store := eeprom.NewStore(filepath.Join(dir, "nixie.bin"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	ctx := cli.NewContext(store, dir)
	ctx.Yes = true
	if err := ctx.Settings.Save(models.DefaultConfig()); err != nil {
		t.Fatalf("failed to seed defaults: %v", err)
	}
	return ctx
}

func TestBackupCreateAndList(t *testing.T) {
	ctx := setupImage(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list on empty dir failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx := setupImage(t)
	mgr := backup.NewManager(ctx.Store.GetConfigPath())

	saved, err := mgr.Create()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	cfg := models.DefaultConfig()
	cfg.Brightness = models.BrightnessMax
	if err := ctx.Settings.Save(cfg); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(saved)}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	restored := cli.NewContext(eeprom.NewStore(ctx.Store.GetConfigPath()), ctx.ConfigDir)
	if err := restored.Store.Load(); err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	got, err := restored.Settings.Read()
	if err != nil {
		t.Fatalf("failed to read restored record: %v", err)
	}
	if got.Brightness != models.BrightnessAuto {
		t.Errorf("expected restored brightness auto, got %v", got.Brightness)
	}
}

func TestBackupRestore_NotFound(t *testing.T) {
	ctx := setupImage(t)
	if err := (&BackupRestoreCmd{BackupFile: "nixie-20000101-0000.bin"}).Run(ctx); err == nil {
		t.Error("expected error for missing backup")
	}
}

func TestBackupRestore_Invalid(t *testing.T) {
	ctx := setupImage(t)
	bad := filepath.Join(t.TempDir(), "bad.bin")
	if err := os.WriteFile(bad, []byte("short"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := (&BackupRestoreCmd{BackupFile: bad}).Run(ctx); err == nil {
		t.Error("expected error for an image of the wrong size")
	}
}

func TestBackup_NotFileBacked(t *testing.T) {
	ctx := cli.NewContext(memory.New(), t.TempDir())
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected error for memory store")
	}
	if err := (&BackupListCmd{}).Run(ctx); err == nil {
		t.Error("expected error for memory store")
	}
}
