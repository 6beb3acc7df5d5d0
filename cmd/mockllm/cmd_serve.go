package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mockllm/mockllm/internal/config"
	"github.com/mockllm/mockllm/internal/logger"
	"github.com/mockllm/mockllm/internal/resolve"
	"github.com/mockllm/mockllm/internal/server"
)

var (
	flagConfig   string
	flagModule   string
	flagHost     string
	flagPort     int
	flagNoReload bool
)

func init() {
	serveCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to response config YAML file")
	serveCmd.Flags().StringVarP(&flagModule, "response-module", "m", "", "path to compiled response module plugin (.so)")
	serveCmd.Flags().StringVar(&flagHost, "host", "", "host to bind to")
	serveCmd.Flags().IntVarP(&flagPort, "port", "p", 0, "port to bind to")
	serveCmd.Flags().BoolVar(&flagNoReload, "no-reload", false, "disable config hot reload")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock LLM server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if flagConfig != "" {
		cfg.ConfigFile = flagConfig
	}
	if flagModule != "" {
		cfg.ResponseModule = flagModule
	}
	if flagHost != "" {
		cfg.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}
	if flagNoReload {
		cfg.Reload = false
	}

	logger.Init(cfg.Profile)
	defer logger.Sync()

	// Fall back to responses.yml in the working directory when nothing is
	// configured, matching the documented default.
	if cfg.ConfigFile == "" && cfg.ResponseModule == "" {
		if _, err := os.Stat("responses.yml"); err == nil {
			cfg.ConfigFile = "responses.yml"
		}
	}

	snap := config.DefaultSnapshot()
	if cfg.ConfigFile != "" && cfg.ResponseModule == "" {
		if snap, err = config.Load(cfg.ConfigFile); err != nil {
			return err
		}
	}
	store := config.NewStore(snap)

	var resolver resolve.Resolver
	if cfg.ResponseModule != "" {
		if cfg.ConfigFile != "" {
			logger.Log.Warnw("response module overrides config file", "module", cfg.ResponseModule, "config", cfg.ConfigFile)
		}
		resolver, err = resolve.LoadPlugin(cfg.ResponseModule)
		if err != nil {
			return err
		}
		logger.Log.Infow("using response module", "path", cfg.ResponseModule)
	} else {
		resolver = resolve.NewTableResolver(store)
		logger.Log.Infow("using response config", "path", cfg.ConfigFile, "responses", len(snap.Responses))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Reload && cfg.ConfigFile != "" && cfg.ResponseModule == "" {
		go func() {
			if err := store.Watch(ctx, cfg.ConfigFile); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.Errorw("[config] watcher stopped", "err", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(store, resolver),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Handle SIGINT/SIGTERM for a clean shutdown in local dev / docker.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Log.Info("[mockllm] shutting down...")
		cancel()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Log.Infow("starting server",
		"addr", addr,
		"lagEnabled", snap.LagEnabled,
		"lagFactor", snap.LagFactor,
		"reload", cfg.Reload,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Log.Info("[mockllm] server stopped gracefully")
	return nil
}
