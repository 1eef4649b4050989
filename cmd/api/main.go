package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dataqueryai/dataquery/internal/config"
	"github.com/dataqueryai/dataquery/internal/dataset"
	"github.com/dataqueryai/dataquery/internal/db"
	"github.com/dataqueryai/dataquery/internal/janitor"
	"github.com/dataqueryai/dataquery/internal/qa"
	"github.com/dataqueryai/dataquery/internal/session"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.JWTSecret == config.DefaultJWTSecret {
		slog.Error("JWT_SECRET must be set in prod")
		os.Exit(1)
	}

	// Degraded rather than dead: when the store cannot be opened or
	// initialized the process stays up so /health and /metrics answer,
	// and auth calls surface backend errors instead.
	database, err := db.Open(cfg.DBPath)
	if database == nil {
		slog.Error("sqlite driver unavailable", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	if err != nil {
		slog.Error("credential store unavailable, continuing degraded",
			"path", cfg.DBPath, "error", err)
	} else if err := db.Init(context.Background(), database); err != nil {
		slog.Error("credential store init failed, continuing degraded", "error", err)
	} else {
		slog.Info("credential store ready", "path", cfg.DBPath)
	}

	sessions := session.NewManager([]byte(cfg.JWTSecret),
		time.Duration(cfg.JWTExpireHours)*time.Hour)
	datasets := dataset.NewStore(time.Duration(cfg.DatasetTTLMinutes) * time.Minute)

	var model qa.Answerer
	if cfg.QAMock {
		slog.Info("QA bridge in mock mode")
		model = qa.Mock{}
	} else {
		model = qa.NewClient(cfg.QAAPIURL, cfg.QAModel, cfg.QAAPIToken)
	}

	jan, err := janitor.Run(datasets, sessions,
		time.Duration(cfg.CleanupIntervalMinutes)*time.Minute)
	if err != nil {
		slog.Error("failed to start janitor", "error", err)
		os.Exit(1)
	}
	defer jan.Stop()

	r := newRouter(database, cfg, sessions, datasets, model)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("API listening", "addr", addr, "tls", true)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("API listening", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
