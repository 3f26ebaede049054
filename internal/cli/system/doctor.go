package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/nixie/internal/backup"
	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/lock"
	"github.com/julianstephens/nixie/internal/storage"
	"github.com/julianstephens/nixie/internal/storage/postgres"
	"github.com/julianstephens/nixie/internal/storage/sqlite"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(*cli.Context) error
	warning bool
}

var checks = []check{
	{name: "Storage reachable", run: checkStoreReachable},
	{name: "Config record", run: checkRecord},
	{name: "Backups present", run: checkBackupsPresent, warning: true},
	{name: "Instance lock", run: checkLock, warning: true},
	{name: "Clock", run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	reachable := true
	for _, c := range checks {
		if !reachable && c.name == "Config record" {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Storage reachable" {
				reachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	switch s := ctx.Store.(type) {
	case *sqlite.Store:
		var result int
		if err := s.GetDB().QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	case *postgres.Store:
		if _, err := s.History(1); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkRecord(ctx *cli.Context) error {
	_, err := ctx.Settings.Read()
	if errors.Is(err, storage.ErrNoRecord) {
		return fmt.Errorf("no record stored yet; the appliance will start from factory defaults")
	}
	if err != nil {
		return fmt.Errorf("stored record is invalid and will be replaced by factory defaults: %w", err)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsFileBacked() {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.Dir())
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkLock(ctx *cli.Context) error {
	if pid, ok := lock.Owner(ctx.ConfigDir); ok {
		return fmt.Errorf("an appliance is running (pid %d); writes from this command race with it", pid)
	}
	return nil
}

func checkClock(*cli.Context) error {
	now := time.Now()
	if now.Year() < 2000 || now.Year() > 2099 {
		return fmt.Errorf("system year %d cannot be stored in a two digit clock", now.Year())
	}
	return nil
}
