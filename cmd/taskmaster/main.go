package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"taskmaster/internal/config"
	"taskmaster/internal/logging"
	"taskmaster/internal/storage"
	"taskmaster/internal/task"
	"taskmaster/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("config loaded", zap.String("path", configPath), zap.String("db", cfg.DBPath))

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error("open database", zap.Error(err))
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	adapter := storage.NewAdapter(db.Blob(cfg.BlobKey), log.Named("storage"))
	tasks, loadErr := adapter.Load()
	store := task.NewStore(tasks, adapter)

	if err := ui.Run(store, cfg, log.Named("ui"), loadErr); err != nil {
		log.Error("ui exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}
