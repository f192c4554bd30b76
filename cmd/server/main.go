package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/newtown/billsplitter/internal/config"
	"github.com/newtown/billsplitter/internal/extraction"
	"github.com/newtown/billsplitter/internal/imagestore"
	"github.com/newtown/billsplitter/internal/ledger"
	"github.com/newtown/billsplitter/internal/server"
	"github.com/newtown/billsplitter/internal/storage/sqlite"
	"github.com/newtown/billsplitter/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()
	ctx := context.Background()

	// Settings store: the member list survives restarts.
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize settings store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Settings store initialized", "database", cfg.DBPath)

	bill, err := ledger.New(ctx, store)
	if err != nil {
		slog.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}
	slog.Info("Ledger initialized", "members", len(bill.Members()))

	var extractor extraction.Extractor = extraction.Disabled{}
	if cfg.GeminiAPIKey != "" {
		extractor = extraction.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		slog.Info("Receipt extraction enabled")
	} else {
		slog.Warn("GEMINI_API_KEY not set, receipt extraction disabled")
	}

	var images *imagestore.Client
	if cfg.Images.Enabled() {
		images, err = imagestore.New(ctx, cfg.Images)
		if err != nil {
			slog.Error("Failed to initialize image store", "error", err)
			os.Exit(1)
		}
		slog.Info("Receipt image archive enabled", "bucket", cfg.Images.Bucket)
	}

	router := server.New(bill, extractor, images).Router()

	// h2c allows HTTP/2 without TLS for clients that want multiplexing.
	handler := h2c.NewHandler(router, &http2.Server{})

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
