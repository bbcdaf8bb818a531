package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/pagediff-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagediff-cli/internal/adapters/driven/export/html"
	"github.com/custodia-labs/pagediff-cli/internal/adapters/driven/render"
	"github.com/custodia-labs/pagediff-cli/internal/adapters/driven/render/imagedir"
	"github.com/custodia-labs/pagediff-cli/internal/adapters/driven/render/pdf"
	"github.com/custodia-labs/pagediff-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pagediff-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/pagediff-cli/internal/core/services"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising storage: %w", err)
	}
	defer store.Close()
	cacheStore := store.CacheStore()

	dpi := pdf.DefaultDPI
	if v := configStore.GetFloat("render.dpi"); v > 0 {
		dpi = v
	}
	renderer := render.NewRegistry(
		pdf.NewRenderer(dpi),
		imagedir.NewRenderer(),
	)

	cli.SetVersion(version)
	cli.Initialize(cli.Deps{
		Comparer: services.NewComparisonService(cacheStore),
		Renderer: renderer,
		Config:   configStore,
		Cache:    cacheStore,
		Sessions: store.SessionStore(),
		Exporter: html.NewExporter(),
	})
	return cli.Execute()
}
