// File path: cmd/studybuddy/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/studybuddy-ai/studybuddy/internal/api"
	"github.com/studybuddy-ai/studybuddy/internal/chunker"
	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/config"
	"github.com/studybuddy-ai/studybuddy/internal/docstore"
	"github.com/studybuddy-ai/studybuddy/internal/llm"
	"github.com/studybuddy-ai/studybuddy/internal/session"
	"github.com/studybuddy-ai/studybuddy/internal/sqlite"
	"github.com/studybuddy-ai/studybuddy/internal/vector"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("studybuddy: .env file not loaded", "error", err)
	} else {
		logger.Info("studybuddy: environment loaded from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("studybuddy: config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Addr, "listen address")
	backendName := flag.String("vector-backend", cfg.Vector.Backend, "vector backend (memory or chromem)")
	vectorPath := flag.String("vector-path", cfg.Vector.Path, "directory for persistent chromem vectors")
	catalogPath := flag.String("catalog", cfg.Catalog.Path, "path to the SQLite document catalog")
	flag.Parse()

	cfg.Addr = strings.TrimSpace(*addr)
	cfg.Vector.Backend = strings.ToLower(strings.TrimSpace(*backendName))
	cfg.Vector.Path = strings.TrimSpace(*vectorPath)
	cfg.Catalog.Path = strings.TrimSpace(*catalogPath)
	if err := cfg.Validate(); err != nil {
		logger.Error("studybuddy: invalid configuration", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}

	logger.Info("studybuddy: startup initiated", "addr", cfg.Addr, "vector_backend", cfg.Vector.Backend)

	var backend vector.Backend
	switch cfg.Vector.Backend {
	case "chromem":
		chromemBackend, err := vector.NewChromemBackend(cfg.Vector.Path)
		if err != nil {
			logger.Error("studybuddy: chromem backend init failed", "path", cfg.Vector.Path, "error", err)
			fmt.Println("vector backend error:", err)
			os.Exit(1)
		}
		backend = chromemBackend
	default:
		backend = vector.NewMemoryBackend()
	}
	logger.Info("studybuddy: vector backend ready", "backend", backend.Name())

	catalogCfg, err := sqlite.LoadConfig()
	if err != nil {
		logger.Error("studybuddy: catalog config load failed", "error", err)
		fmt.Println("catalog config error:", err)
		os.Exit(1)
	}
	catalogCfg.Path = cfg.Catalog.Path
	catalog, err := sqlite.OpenWithConfig(ctx, catalogCfg)
	if err != nil {
		logger.Error("studybuddy: catalog open failed", "path", catalogCfg.Path, "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	defer catalog.Close()

	provider := llm.NewProvider()
	logger.Info("studybuddy: llm provider ready", "provider", provider.Name())

	docs := docstore.New(chunker.New(cfg.Chunker.Size, cfg.Chunker.Overlap), provider, backend)
	server := api.NewServer(api.Options{
		Docs:     docs,
		Sessions: session.NewStore(),
		Provider: provider,
		Catalog:  catalog,
		Config:   cfg,
		Backend:  backend.Name(),
	})

	reachable := cfg.Addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("studybuddy: server listening", "addr", cfg.Addr, "health", fmt.Sprintf("http://%s/api/v1/health", reachable))
	fmt.Printf("Serving on %s\n", cfg.Addr)

	httpServer := &http.Server{Addr: cfg.Addr, Handler: server}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info("studybuddy: shutdown requested", "signal", sig.String())
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("studybuddy: shutdown incomplete", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("studybuddy: server stopped", "error", err)
			fmt.Println("server stopped:", err)
		}
	}
}
