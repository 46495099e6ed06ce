// Command fundx-web serves the extraction API over HTTP.
//
//	fundx-web [-config fundx.yaml] [-port 8080] [-version]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fundx/internal/app"
	"fundx/internal/config"
	"fundx/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "YAML configuration file (defaults to fundx.yaml when present)")
	port := flag.Int("port", 0, "listen port (overrides server.port)")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	application, err := app.NewApplication(*configFile, func(cfg *config.Config) {
		if *port > 0 {
			cfg.Server.Port = *port
		}
	})
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
