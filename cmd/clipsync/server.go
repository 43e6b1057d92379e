package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mkraev/clipsync/internal/api"
	"github.com/mkraev/clipsync/internal/automation"
	"github.com/mkraev/clipsync/internal/config"
	"github.com/mkraev/clipsync/internal/connection"
	"github.com/mkraev/clipsync/internal/hotkey"
	"github.com/mkraev/clipsync/internal/preview"
	"github.com/mkraev/clipsync/internal/query"
	"github.com/mkraev/clipsync/internal/settings"
	"github.com/mkraev/clipsync/internal/storage"
	"github.com/mkraev/clipsync/internal/store"
)

var startCmd = &cobra.Command{
	Use:     "start",
	Aliases: []string{"serve"},
	Short:   "Start the clipsync server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running clipsync server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show clipsync system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "clipsync.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "clipsync version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Log.Level)})))

	// Write PID file. Check if server is already running via health endpoint.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("clipsync is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("clipsync is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the item mirror and the settings store.
	db, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("closing storage", "error", err)
		}
	}()

	set, err := settings.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	defer func() {
		if err := set.Close(); err != nil {
			slog.Warn("closing settings", "error", err)
		}
	}()

	// Rebuild the in-memory library from the SQLite mirror.
	items := store.New(store.WithBackend(db), store.WithHistoryLimit(cfg.History.Limit))
	persisted, err := db.LoadItems()
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	items.Load(persisted)
	slog.Info("item library loaded", "items", len(persisted))

	// Workflows, hotkeys, and connections live in the settings store.
	workflows := automation.New(items, set)
	wfs, err := set.LoadWorkflows()
	if err != nil {
		return fmt.Errorf("loading workflows: %w", err)
	}
	workflows.Load(wfs)
	if err := automation.SeedDefaults(workflows); err != nil {
		return fmt.Errorf("seeding workflows: %w", err)
	}

	hotkeys := hotkey.New(set)
	hks, err := set.LoadHotkeys()
	if err != nil {
		return fmt.Errorf("loading hotkeys: %w", err)
	}
	hotkeys.Load(hks)
	if err := hotkey.SeedDefaults(hotkeys); err != nil {
		return fmt.Errorf("seeding hotkeys: %w", err)
	}

	conns := connection.New(set)
	cs, err := set.LoadConnections()
	if err != nil {
		return fmt.Errorf("loading connections: %w", err)
	}
	conns.Load(cs)

	deps := api.AppDeps{
		Items:       items,
		Query:       query.New(items),
		Workflows:   workflows,
		Hotkeys:     hotkeys,
		Connections: conns,
		Preview:     preview.NewFetcher(&http.Client{Timeout: 10 * time.Second}),
		Token:       cfg.API.Token,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewAppHandler(deps),
	}

	mcpAddr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.MCPPort)
	mcpSrv := server.NewSSEServer(api.NewMCPServer(deps))

	interval, err := time.ParseDuration(cfg.Automation.TimerInterval)
	if err != nil {
		slog.Warn("invalid timer interval, using default 1m", "value", cfg.Automation.TimerInterval, "error", err)
		interval = time.Minute
	}
	sched := automation.NewScheduler(workflows, interval, func(res automation.Result) {
		for _, eff := range res.Effects {
			slog.Info("timer effect", "kind", eff.Kind)
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("clipsync listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("MCP server listening", "addr", mcpAddr)
		if err := mcpSrv.Start(mcpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mcp server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sched.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mcpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("mcp shutdown", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("clipsync is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop clipsync (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to clipsync (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	running := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			running = true
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	printStatus("MCP port", "%d", cfg.Server.MCPPort)

	if running {
		countsResp, err := apiGet(client, serverURL+"/counts", cfg.API.Token)
		if err == nil {
			var counts map[string]int
			if json.NewDecoder(countsResp.Body).Decode(&counts) == nil {
				printStatus("Items", "%d (%d in recycle bin)", counts["all"], counts["recycle"])
			}
			countsResp.Body.Close()
		}
	}

	printStatus("History limit", "%d", cfg.History.Limit)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

func apiGet(client *http.Client, url, token string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return client.Do(req)
}
