package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/pixelcanvas/assetcache"
	"github.com/milk9111/pixelcanvas/config"
)

func main() {
	configPath := flag.String("config", "pixelcanvas.yaml", "path to the editor config file")
	projectPath := flag.String("open", "", "project file to open at startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	cache := assetcache.New(cfg.Workers)
	defer cache.Close()
	loaders := assetcache.NewLoaders(cfg.CellSize, time.Duration(cfg.RemoteTimeoutSeconds)*time.Second)

	watcher, err := assetcache.NewWatcher()
	if err != nil {
		log.Printf("asset watcher unavailable: %v", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	clipboardOK := true
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
		clipboardOK = false
	}

	app := newApp(cfg, cache, loaders, watcher, clipboardOK)
	if *projectPath != "" {
		if status, err := app.ctrl.LoadFrom(*projectPath); err != nil {
			log.Printf("open %s: %v", *projectPath, err)
		} else {
			app.setStatus(status)
			app.watchGridAssets()
		}
	}

	ebiten.SetWindowSize(app.windowW, app.windowH)
	ebiten.SetWindowTitle("Pixel Canvas")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
