package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage/eeprom"
	"github.com/julianstephens/nixie/internal/storage/memory"
	"github.com/julianstephens/nixie/internal/storage/sqlite"
)

func setupTestDoctorDB(t *testing.T) (*cli.Context, func()) {
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "nixie.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	ctx := cli.NewContext(store, dir)
	return ctx, func() { store.Close() }
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	if err := ctx.Settings.Save(models.DefaultConfig()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	// Missing backups only warn.
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a healthy store: %v", err)
	}
}

func TestDoctorCmd_EmptyRecord(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to report the missing record")
	}
}

func TestDoctorCmd_Unreachable(t *testing.T) {
	dir := t.TempDir()
	ctx := cli.NewContext(eeprom.NewStore(filepath.Join(dir, "missing.bin")), dir)
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected failure for a missing image")
	}
}

func TestDoctorCmd_CorruptImage(t *testing.T) {
	dir := t.TempDir()
	store := eeprom.NewStore(filepath.Join(dir, "nixie.bin"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init: %v", err)
	}
	image, err := os.ReadFile(store.GetConfigPath())
	if err != nil {
		t.Fatalf("failed to read image: %v", err)
	}
	copy(image, []byte{'X', 1, 2, 3})
	if err := os.WriteFile(store.GetConfigPath(), image, 0o600); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	if err := (&DoctorCmd{}).Run(cli.NewContext(store, dir)); err == nil {
		t.Error("expected failure for a corrupt record")
	}
}

func TestCheckBackupsPresent(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	if err := checkBackupsPresent(ctx); err == nil {
		t.Error("expected a warning without backups")
	}
	ctx.PerformAutomaticBackup()
	if err := checkBackupsPresent(ctx); err != nil {
		t.Errorf("expected backups to be found: %v", err)
	}

	if err := checkBackupsPresent(cli.NewContext(memory.New(), t.TempDir())); err != nil {
		t.Errorf("memory store should skip the backup check: %v", err)
	}
}

func TestCheckLock(t *testing.T) {
	if err := checkLock(cli.NewContext(memory.New(), t.TempDir())); err != nil {
		t.Errorf("expected no lock owner: %v", err)
	}
}
