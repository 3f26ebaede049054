package system

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/models"
)

type DebugCmd struct {
	Path DebugPathCmd `cmd:"" help:"Show storage path."`
	Dump DebugDumpCmd `cmd:"" help:"Dump the raw config record as JSON."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path":      ctx.Store.GetConfigPath(),
		"configDir": ctx.ConfigDir,
	})
}

type DebugDumpCmd struct{}

type recordDump struct {
	Size    int            `json:"size"`
	Hex     string         `json:"hex"`
	Valid   bool           `json:"valid"`
	Error   string         `json:"error,omitempty"`
	Decoded *models.Config `json:"decoded,omitempty"`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	raw, err := ctx.Store.ReadRecord()
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	dump := recordDump{Size: len(raw), Hex: hex.EncodeToString(raw)}
	var cfg models.Config
	if err := cfg.UnmarshalBinary(raw); err != nil {
		dump.Error = err.Error()
	} else {
		dump.Valid = true
		dump.Decoded = &cfg
	}
	return printJSON(dump)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
