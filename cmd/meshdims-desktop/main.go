//go:build desktop

// Command meshdims-desktop is the windowed front end. Build it with the
// desktop tag (wails build -tags desktop) since it needs the system webview.
package main

import (
	"embed"
	"flag"
	"log"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/chazu/meshdims/pkg/app"
	"github.com/chazu/meshdims/pkg/config"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfgFile := flag.String("config", "", "config file (default is $HOME/.meshdims/meshdims.yaml)")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	a := app.NewApp(cfg)
	if path := flag.Arg(0); path != "" {
		if res := a.Open(path); res.Error != "" {
			log.Printf("open %s: %s", path, res.Error)
		}
	}

	err = wails.Run(&options.App{
		Title:  "meshdims",
		Width:  1024,
		Height: 720,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:  a.Startup,
		OnShutdown: a.Shutdown,
		Bind: []interface{}{
			a,
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
