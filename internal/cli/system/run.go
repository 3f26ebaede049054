package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/nixie/internal/appliance"
	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/core"
	"github.com/julianstephens/nixie/internal/hw"
	"github.com/julianstephens/nixie/internal/lock"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/models"
	"github.com/julianstephens/nixie/internal/sim"
	"github.com/julianstephens/nixie/internal/tui"
)

type RunCmd struct {
	Hardware bool   `help:"Drive the periph hardware board instead of the terminal simulator."`
	Bus      string `help:"I2C bus name for --hardware. Empty picks the first bus."`
	NoBackup bool   `help:"Skip the automatic backup on startup."`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	l, err := lock.Acquire(ctx.ConfigDir)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			return fmt.Errorf("%w; stop it first or remove %s", err, lock.Path(ctx.ConfigDir))
		}
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}()

	if !c.NoBackup {
		ctx.PerformAutomaticBackup()
	}

	cfg := ctx.Settings.Load()
	logger.Info("Starting appliance", "store", ctx.Store.GetConfigPath(), "hardware", c.Hardware)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Hardware {
		return c.runHardware(sigCtx, ctx, &cfg)
	}
	return c.runSimulator(sigCtx, ctx, &cfg)
}

func (c *RunCmd) runSimulator(sigCtx context.Context, ctx *cli.Context, cfg *models.Config) error {
	s := sim.New()
	defer s.Close()

	app := appliance.New(core.New(cfg, ctx.Settings, s.Drivers()))
	return tui.Run(sigCtx, app, tui.NewModel(s, ctx.Store.GetConfigPath()))
}

func (c *RunCmd) runHardware(sigCtx context.Context, ctx *cli.Context, cfg *models.Config) error {
	board := hw.DefaultBoard
	board.Bus = c.Bus

	b, err := hw.Open(board)
	if err != nil {
		return fmt.Errorf("failed to open hardware: %w", err)
	}
	defer b.Close()

	fmt.Println("Appliance running, press Ctrl+C to stop.")
	app := appliance.New(core.New(cfg, ctx.Settings, b.Drivers()))
	if err := app.Run(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
