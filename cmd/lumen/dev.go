package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/config"
	"github.com/lumen-dev/lumen/internal/devtools"
	"github.com/lumen-dev/lumen/pkg/assets"
)

func devCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the devtools server",
		Long: `Start the devtools server for the project in the working directory.

The server watches the project's asset directories, invalidates the
asset cache on change, and serves:

  /api/tree     live component tree
  /api/windows  open window geometry
  /metrics      Prometheus metrics
  /ws           flush and asset event stream

Examples:
  lumen dev
  lumen dev --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from lumen.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from lumen.json)")

	return cmd
}

func runDev(port int, host string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Devtools.Port = port
	}
	if host != "" {
		cfg.Devtools.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	printBanner()
	fmt.Println("  dev")
	fmt.Println()

	store := assets.NewDirStore(cfg.AssetsPath())
	var resolverOpts []assets.ResolverOption
	if path := cfg.ManifestPath(); path != "" {
		manifest, err := assets.LoadManifest(path)
		if err != nil {
			return err
		}
		resolverOpts = append(resolverOpts, assets.WithManifest(manifest))
	}
	if cfg.Assets.CacheBudget > 0 {
		resolverOpts = append(resolverOpts, assets.WithCacheBudget(cfg.Assets.CacheBudget))
	}
	resolver := assets.NewResolver(store, resolverOpts...)

	watcher := devtools.NewWatcher(devtools.WatcherConfig{
		Paths:  cfg.WatchPaths(),
		Ignore: cfg.Devtools.Ignore,
	})

	server := devtools.NewServer(devtools.ServerConfig{
		Addr:     cfg.DevtoolsAddress(),
		Resolver: resolver,
		Watcher:  watcher,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
	}()

	success("Devtools at %s", cfg.DevtoolsURL())
	return server.Run(ctx)
}
