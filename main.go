package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", ".env", "Path to config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()

	args := flag.Args()
	if *help || len(args) == 0 {
		showHelp()
		os.Exit(0)
	}

	command := args[0]

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if command == "build" {
		cmdBuild(args[1:], configPath)
	} else if command == "merge" {
		cmdMerge(args[1:], configPath)
	} else if command == "verify" {
		cmdVerify(args[1:], configPath)
	} else if command == "serve" {
		cmdServe(args[1:], configPath)
	} else {
		slog.Error("unknown command", "command", command)
		showHelp()
		os.Exit(1)
	}
}

// cmdBuild runs extraction, the containment DAG, gap repair, and
// polygon assembly, optionally persisting and printing the result.
func cmdBuild(args []string, configPath *string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	persist := fs.Bool("persist", false, "Upsert the result into the output store")
	printTree := fs.Bool("print-tree", false, "Print the boundary forest as a tree")
	fetchKey := fs.String("fetch-key", "", "Fetch a pre-staged dump from S3/R2 under this key before building")
	fs.Parse(args)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if *fetchKey != "" {
		dumpSource, err := NewDumpSource(cfg.S3)
		if err != nil {
			slog.Error("failed to initialize dump source", "error", err)
			os.Exit(1)
		}
		if _, err := dumpSource.FetchDump(ctx, *fetchKey, cfg.OSM.DumpPath); err != nil {
			slog.Error("failed to fetch staged dump", "error", err)
			os.Exit(1)
		}
	}

	var store *Store
	if *persist {
		store, err = NewStore(ctx, cfg.Store)
		if err != nil {
			slog.Error("failed to connect to store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	pipeline := NewPipeline(cfg, store)

	tree, err := pipeline.Build(ctx)
	if err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}
	tree.Diagnostics.Print()

	if *printTree {
		os.Stdout.WriteString(tree.Sprint())
	}

	summary := tree.Summary()
	slog.Info("build complete", "boundaries", summary.TotalBoundaries, "roots", summary.RootCount)

	if *persist {
		count, err := pipeline.Persist(ctx, tree)
		if err != nil {
			slog.Error("persist failed", "error", err)
			os.Exit(1)
		}
		slog.Info("persisted boundaries", "count", count)
	}
}

// cmdMerge builds the primary dump, grafts a second dump's parse onto
// a chosen root relation, then optionally persists the merged result.
func cmdMerge(args []string, configPath *string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	otherDump := fs.String("other-dump", "", "Path to the dump to graft onto the primary dump")
	persist := fs.Bool("persist", false, "Upsert the merged result into the output store")
	fs.Parse(args)

	if *otherDump == "" {
		slog.Error("-other-dump is required")
		os.Exit(1)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.OSM.RootRelationID == 0 {
		slog.Error("OSM_ROOT_RELATION_ID must be set for merge")
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	var store *Store
	if *persist {
		store, err = NewStore(ctx, cfg.Store)
		if err != nil {
			slog.Error("failed to connect to store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	pipeline := NewPipeline(cfg, store)

	tree, err := pipeline.Build(ctx)
	if err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}

	if err := pipeline.Merge(ctx, tree, cfg.OSM.RootRelationID, *otherDump); err != nil {
		slog.Error("merge failed", "error", err)
		os.Exit(1)
	}
	tree.Diagnostics.Print()

	if *persist {
		count, err := pipeline.Persist(ctx, tree)
		if err != nil {
			slog.Error("persist failed", "error", err)
			os.Exit(1)
		}
		slog.Info("persisted boundaries", "count", count)
	}
}

// cmdVerify runs the full pipeline and checks the result against every
// documented consistency invariant.
func cmdVerify(args []string, configPath *string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.Parse(args)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	pipeline := NewPipeline(cfg, nil)
	tree, err := pipeline.Build(ctx)
	if err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}

	report := VerifyConsistency(tree, cfg.OSM.MaxAdminLevel)
	report.Print()
	if !report.OK {
		os.Exit(1)
	}
}

// cmdServe starts the thin HTTP status surface.
func cmdServe(args []string, configPath *string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	fs.Parse(args)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting boundary graph API server", "port", *port)

	store, err := NewStore(context.Background(), cfg.Store)
	if err != nil {
		slog.Warn("failed to connect to store (continuing without persistence)", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	pipeline := NewPipeline(cfg, store)
	server := NewAPIServer(pipeline)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(*port); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		slog.Error("server failed to start", "error", err)
		os.Exit(1)
	case sig := <-sigChan:
		slog.Info("received shutdown signal, stopping server", "signal", sig)
		os.Exit(0)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()
	return ctx, cancel
}

func showHelp() {
	help := `boundarygraph - builds an administrative boundary containment graph from an OSM dump

Usage:
  boundarygraph [global options] <command> [command options]

Global Options:
  -config string   Path to .env configuration file (default ".env")
  -debug           Enable debug logging
  -help            Show this help message

Commands:
  build    Extract boundary relations, build the containment DAG, repair gaps, assemble polygons
  merge    Build the primary dump then graft a second dump's parse onto one of its roots
  verify   Run the pipeline and check the result against the documented invariants
  serve    Start the HTTP status surface

Build Command:
  Usage: boundarygraph build [options]

  Options:
    -persist         Upsert the result into the output store
    -print-tree      Print the resulting boundary forest
    -fetch-key string  Fetch a pre-staged dump from S3/R2 under this key first

Merge Command:
  Usage: boundarygraph merge -other-dump <path> [options]

  Options:
    -other-dump string  Path to the dump whose parse is grafted onto OSM_ROOT_RELATION_ID
    -persist            Upsert the merged result into the output store

Verify Command:
  Usage: boundarygraph verify

  Description:
    Exits 0 if every documented invariant holds, 1 otherwise.

Serve Command:
  Usage: boundarygraph serve [options]

  Options:
    -port int   Port to listen on (default 8080)

  Description:
    Starts the HTTP status server.

    Endpoints:
      GET   /health   - Health check endpoint
      GET   /status   - Last build summary and diagnostics
      POST  /build    - Trigger a build asynchronously

Examples:
  # Build from the configured dump and print the resulting forest
  ./boundarygraph build -print-tree

  # Build and persist into the output store
  ./boundarygraph build -persist

  # Graft a second dump onto a root relation
  ./boundarygraph merge -other-dump ./data/extra.osm.pbf -persist

  # Run a fresh build and check it against documented invariants
  ./boundarygraph verify

  # Start the status server
  ./boundarygraph serve -port 3000

  # Debug mode
  ./boundarygraph -debug build
`
	os.Stdout.WriteString(help)
}
