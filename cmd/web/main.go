// Command web serves the LogisticSmart HTTP API. Configuration comes from
// config.yaml (or LOGISTIC_CONFIG_FILE) and LOGISTIC_* variables.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"logisticsmart/internal/app"
	"logisticsmart/pkg/contracts"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	application, err := app.NewApplication()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return application.Run()
}
