package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tuannm99/pagedb/internal"
	"github.com/tuannm99/pagedb/internal/bufferpool"
	"github.com/tuannm99/pagedb/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to yaml config file")
	workDir := flag.String("data-dir", "./data", "Working directory for database files")
	flag.Parse()

	capacity := bufferpool.DefaultCapacity
	debug := false

	if *configPath != "" {
		cfg, err := internal.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if cfg.Storage.Workdir != "" {
			*workDir = cfg.Storage.Workdir
		}
		if cfg.Buffer.Capacity > 0 {
			capacity = cfg.Buffer.Capacity
		}
		debug = cfg.Debug
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	if err := os.MkdirAll(*workDir, storage.FileMode0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	file, err := storage.Open(*workDir, "demo")
	if err != nil {
		log.Fatalf("Failed to open data file: %v", err)
	}

	mgr := bufferpool.NewManager(capacity)
	slog.Info("buffer pool ready", "capacity", mgr.Capacity(), "file", file.Key())

	// Allocate a fresh page, populate it, and release it dirty.
	pageID, frame, err := mgr.AllocPage(file)
	if err != nil {
		log.Fatalf("Failed to allocate page: %v", err)
	}
	copy(frame, []byte("hello from pagedb"))
	if err := mgr.UnpinPage(file, pageID, true); err != nil {
		log.Fatalf("Failed to unpin page: %v", err)
	}
	slog.Info("allocated and wrote page", "page", pageID)

	// Fetch it back; the hit serves the same frame.
	frame, err = mgr.FetchPage(file, pageID)
	if err != nil {
		log.Fatalf("Failed to fetch page: %v", err)
	}
	slog.Info("fetched page", "page", pageID, "prefix", string(frame[:17]))
	if err := mgr.UnpinPage(file, pageID, false); err != nil {
		log.Fatalf("Failed to unpin page: %v", err)
	}

	// Write everything back and drop the file from the pool.
	if err := mgr.FlushFile(file); err != nil {
		log.Fatalf("Failed to flush file: %v", err)
	}
	slog.Info("flushed file", "file", file.Key(), "pages", file.PageCount())

	fmt.Print(mgr.DescribeState())
}
