package system

import (
	"testing"

	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/storage/memory"
)

func TestDebugPathCmd(t *testing.T) {
	ctx := cli.NewContext(memory.New(), t.TempDir())
	if err := (&DebugPathCmd{}).Run(ctx); err != nil {
		t.Errorf("debug path failed: %v", err)
	}
}

func TestDebugDumpCmd(t *testing.T) {
	ctx := cli.NewContext(memory.New(), t.TempDir())

	if err := (&DebugDumpCmd{}).Run(ctx); err == nil {
		t.Error("expected error dumping an empty store")
	}

	if err := ctx.Settings.Save(models.DefaultConfig()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := (&DebugDumpCmd{}).Run(ctx); err != nil {
		t.Errorf("debug dump failed: %v", err)
	}

	if err := ctx.Store.WriteRecord([]byte("garbage record")); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := (&DebugDumpCmd{}).Run(ctx); err != nil {
		t.Errorf("dump of an invalid record should still succeed: %v", err)
	}
}
