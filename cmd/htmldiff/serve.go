package main

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/htmldiff/internal/config"
	"github.com/vango-dev/htmldiff/internal/livereload"
)

func serveCmd() *cobra.Command {
	var (
		port        int
		host        string
		openBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Run the live-reload server over a static HTML tree",
		Long: `serve watches a directory of .html files, and on every change
re-renders each known route, diffs it against the last HTML served for
that route, and pushes the result (patches, or a full reload) to every
browser connected over /_htmldiff/reload.

Examples:
  htmldiff serve .
  htmldiff serve ./public --port=8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runServe(dir, port, host, openBrowser)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from htmldiff.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from htmldiff.json)")
	cmd.Flags().BoolVarP(&openBrowser, "open", "o", false, "Open browser on start")

	return cmd
}

func runServe(dir string, port int, host string, openBrowser bool) error {
	cfg, err := config.Load(dir)
	if err != nil {
		cfg = config.New()
		cfg.Root = dir
	}

	if port > 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if openBrowser {
		cfg.Server.OpenBrowser = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	info("serving %s at %s", cfg.RootPath(), cfg.URL())

	server := livereload.NewServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		info("shutting down...")
		cancel()
		server.Stop()
	}()

	if cfg.Server.OpenBrowser {
		go openURL(cfg.URL())
	}

	return server.Start(ctx)
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd

	switch {
	case commandExists("xdg-open"):
		cmd = exec.Command("xdg-open", url)
	case commandExists("open"):
		cmd = exec.Command("open", url)
	case commandExists("start"):
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	cmd.Start()
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
