package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage/eeprom"
	"github.com/julianstephens/nixie/internal/storage/sqlite"
)

func TestInitCmd_SQLite(t *testing.T) {
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "nixie.db"))
	defer store.Close()
	ctx := cli.NewContext(store, dir)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	cfg, err := ctx.Settings.Read()
	if err != nil {
		t.Fatalf("expected a record after init: %v", err)
	}
	if cfg != models.DefaultConfig() {
		t.Errorf("expected factory defaults, got %+v", cfg)
	}
}

func TestInitCmd_KeepsExistingRecord(t *testing.T) {
	dir := t.TempDir()
	ctx := cli.NewContext(eeprom.NewStore(filepath.Join(dir, "nixie.bin")), dir)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	cfg := models.DefaultConfig()
	cfg.Brightness = models.BrightnessL2
	if err := ctx.Settings.Save(cfg); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	got, _ := ctx.Settings.Read()
	if got.Brightness != models.BrightnessL2 {
		t.Errorf("init without --force overwrote the record")
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	got, _ = ctx.Settings.Read()
	if got.Brightness != models.BrightnessAuto {
		t.Errorf("forced init should restore defaults, got %v", got.Brightness)
	}
}
