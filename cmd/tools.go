package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/autohost/internal/dependency"
	"github.com/crystaldolphin/autohost/internal/eventlog"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Connect the configured MCP servers and list their tools",
	RunE:  runTools,
}

func runTools(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr := dependency.NewMCPManager(cfg, eventlog.Discard())
	defer mgr.Close()
	mgr.Start(ctx)

	renderer{w: os.Stdout}.catalog(mgr.Catalog(ctx))
	return nil
}
