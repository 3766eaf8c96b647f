package main

import (
	"flag"
	"log"
	"runtime"

	"prism/internal/logger"
	"prism/pkg/config"
	"prism/pkg/engine"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log", "", "Override log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("%v", err)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logg := logger.New(cfg.LogLevel)
	logg.Infof("starting prism %dx%d, vsync=%v", cfg.Graphics.Width, cfg.Graphics.Height, cfg.Graphics.VSync)

	e, err := engine.NewEngine(cfg, logg)
	if err != nil {
		logg.Fatalf("failed to initialize engine: %v", err)
	}

	logg.Infof("engine initialized, entering frame loop")
	e.Run()
}
