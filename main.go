package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/wfunc/improvbattle/config"
	"github.com/wfunc/improvbattle/logger"
	"github.com/wfunc/improvbattle/persistence"
	"github.com/wfunc/improvbattle/server"
	"github.com/wfunc/improvbattle/widget"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	db, err := persistence.Open(cfg.Database)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	if db != nil {
		defer db.Close()
		logger.Log.Infof("Visit store ready (%s).", cfg.Database.Driver)
	} else {
		logger.Log.Info("Visit store disabled; visits are counted only.")
	}

	agent := widget.NewEmbed(cfg.Widget.ScriptURL, cfg.Widget.Element)

	gameServer, err := server.NewGameServer(cfg, db, agent)
	if err != nil {
		logger.Log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start Server
	logger.Log.Infof("Starting improv battle on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(ctx); err != nil {
		logger.Log.Errorf("Server stopped: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Log.Info("Server stopped.")
}
