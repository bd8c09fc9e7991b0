package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/autohost/internal/eventlog"
	"github.com/crystaldolphin/autohost/internal/host"
)

var logsCmd = &cobra.Command{
	Use:   "logs [N]",
	Short: "Show the last N event log entries",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogs,
}

func runLogs(_ *cobra.Command, args []string) error {
	n := host.DefaultLogLines
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("N must be a positive number, got %q", args[0])
		}
		n = v
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	recs, err := eventlog.Tail(cfg.Logging.EventLog, n)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No logs yet.")
		return nil
	}
	renderer{w: os.Stdout}.logs(recs)
	return nil
}
