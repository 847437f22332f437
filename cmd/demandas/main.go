package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Igorofyeshu4/keepgoing/internal/config"
	"github.com/Igorofyeshu4/keepgoing/internal/importer"
	"github.com/Igorofyeshu4/keepgoing/internal/server"
	"github.com/Igorofyeshu4/keepgoing/internal/source"
)

var (
	port    = flag.Int("port", 0, "server port (overrides config.toml)")
	devMode = flag.Bool("dev", false, "development mode")
	dataDir = flag.String("dataDir", "", "data directory (overrides config.toml)")
	load    = flag.String("load", "", "comma-separated input files to load at startup (overrides config.toml)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Demandas - Painel de Metricas Diarias")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("load config failed, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *load != "" {
		cfg.Data.InputFiles = strings.Split(*load, ",")
	}

	if err := os.MkdirAll(cfg.Data.DataDir, 0o755); err != nil {
		log.Printf("create data directory: %v", err)
	} else {
		fmt.Printf("data directory: %s\n", cfg.Data.DataDir)
	}

	srv := server.NewServer(cfg)
	defer srv.Close()

	if len(cfg.Data.InputFiles) > 0 {
		startupLoad(srv, cfg.Data.InputFiles)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		fmt.Printf("listening on port %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	fmt.Println("\npress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nshutting down...")
}

// startupLoad runs the pipeline over the configured inputs before the API
// starts serving, so dashboards see data right away.
func startupLoad(srv *server.Server, files []string) {
	var (
		sources []source.Source
		cleanup []func() error
	)
	for _, path := range files {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx", ".xlsm":
			wb, err := source.OpenWorkbook(path)
			if err != nil {
				log.Printf("startup load: %v", err)
				continue
			}
			cleanup = append(cleanup, wb.Close)
			sheets, err := wb.Sources()
			if err != nil {
				log.Printf("startup load: %v", err)
				continue
			}
			sources = append(sources, sheets...)
		default:
			s, err := source.OpenDelimited(path, 0)
			if err != nil {
				log.Printf("startup load: %v", err)
				continue
			}
			sources = append(sources, s)
		}
	}
	defer func() {
		for _, fn := range cleanup {
			if err := fn(); err != nil {
				log.Printf("startup load: close: %v", err)
			}
		}
	}()

	if len(sources) == 0 {
		return
	}

	progress := make(chan importer.ProgressEvent, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range progress {
			if ev.Type == "source_done" || ev.Type == "done" {
				fmt.Printf("[load] %s: %s\n", ev.Type, ev.Message)
			}
		}
	}()

	report := srv.Coordinator().Load(sources, progress)
	close(progress)
	<-done

	fmt.Printf("startup load: %d rows from %d sources in %s\n",
		report.TotalRows, len(report.Sources), report.Duration)

	if st := srv.Store(); st != nil {
		if err := st.ReplaceDailyMetrics(srv.Metrics().GetDailyRows()); err != nil {
			log.Printf("startup load: persist snapshot: %v", err)
		}
		if err := st.InsertLoadLog(report); err != nil {
			log.Printf("startup load: persist load log: %v", err)
		}
	}
}
