package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/models"
)

type InitCmd struct {
	Force bool `help:"Delete an existing database or image and start from factory defaults."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force && ctx.IsFileBacked() {
		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized nixie storage at: %s\n", ctx.Store.GetConfigPath())

	if _, err := ctx.Settings.Read(); err != nil || c.Force {
		if err := ctx.Settings.Save(models.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to write factory defaults: %w", err)
		}
		fmt.Println("Wrote factory default settings.")
	}
	return nil
}
