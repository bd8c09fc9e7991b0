package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/crystaldolphin/autohost/internal/dependency"
	"github.com/crystaldolphin/autohost/internal/host"
)

var (
	agentMessage string
	metricsAddr  string
	showRaw      bool
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Chat with the host; tool requests are routed to MCP servers",
	RunE:  runAgent,
}

func init() {
	agentCmd.Flags().StringVarP(&agentMessage, "message", "m", "", "Send a single message and exit")
	agentCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	agentCmd.Flags().BoolVar(&showRaw, "raw", true, "Print the raw tool result under the summary")
}

func runAgent(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if metricsAddr != "" {
		srv := serveMetrics(metricsAddr)
		defer shutdown(srv)
	}

	container.MCP().Start(ctx)

	out := renderer{w: os.Stdout, showRaw: showRaw}
	h := container.Host()

	if agentMessage != "" {
		out.reply(h.Handle(ctx, agentMessage))
		return nil
	}

	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(colorAssistant).Render("autohost"))
	fmt.Printf("%s %s   %s %d\n\n",
		titleStyle.Render("Model:"), container.Completion().Model(),
		titleStyle.Render("Servers:"), len(container.MCP().Servers()))
	out.help()

	return repl(ctx, h, out)
}

// repl reads one line per turn until /exit, EOF or a signal.
func repl(ctx context.Context, h *host.Host, out renderer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	prompt := lipgloss.NewStyle().Bold(true).Foreground(colorTool).Render("> ")
	for {
		fmt.Print("\n" + prompt)
		select {
		case <-ctx.Done():
			fmt.Println("\nClosing…")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Println("\nClosing…")
				return nil
			}
			rep := h.Handle(ctx, line)
			out.reply(rep)
			if rep.Kind == host.KindExit {
				return nil
			}
		}
	}
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "addr", addr, "err", err)
		}
	}()
	slog.Info("Serving metrics", "addr", addr)
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
