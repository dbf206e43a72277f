package main

import (
	"log"
	"os"

	"github.com/getlantern/systray"

	"github.com/ducpham-dev/xpilot/internal/app"
	"github.com/ducpham-dev/xpilot/internal/browser"
	"github.com/ducpham-dev/xpilot/internal/config"
	"github.com/ducpham-dev/xpilot/internal/events"
	"github.com/ducpham-dev/xpilot/internal/store"
	"github.com/ducpham-dev/xpilot/internal/tray"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load or create configuration
	cfg, err := config.Load()
	if err != nil {
		if os.IsNotExist(err) {
			// First run - create default config
			cfg = config.Default()
			if err := cfg.Save(); err != nil {
				log.Printf("Warning: could not save default config: %v", err)
			} else {
				path, _ := config.ConfigPath()
				log.Printf("Created default config at: %s", path)
			}
		} else {
			log.Printf("Warning: could not load config: %v (using defaults)", err)
			cfg = config.Default()
		}
	}

	st, err := store.New(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	reporter := events.NewReporter(st)
	control := browser.NewControlClient(cfg.Control.Endpoint)

	a := app.New(cfg, st, reporter, control)

	log.Println("xpilot starting...")

	// Run systray (blocks until Quit)
	systray.Run(tray.OnReady(a), tray.OnExit(a))
}
