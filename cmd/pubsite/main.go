package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/pubsite"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(ctx, os.Args[2:])
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "index":
		err = runIndex(ctx, os.Args[2:])
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: pubsite new <project-name>")
			os.Exit(1)
		}
		err = runNew(os.Args[2])
	case "version":
		fmt.Printf("pubsite %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pubsite - A static blog generator built with Go, Echo, and templ

Usage:
  pubsite <command> [arguments]

Commands:
  build         Render the site into the output directory
  serve         Run the preview server
  index         Store rendered posts in the SQLite content index
  new <name>    Create a new pubsite project
  version       Print the pubsite version
  help          Show this help message

Examples:
  pubsite new myblog
  pubsite build -config pubsite.yaml -clean
  pubsite build -watch
  pubsite serve -drafts -watch`)
}

// common holds the flags shared by build, serve and index.
type common struct {
	config  string
	drafts  bool
	verbose bool
	source  string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "pubsite.yaml", "path to the site config file")
	fs.BoolVar(&c.drafts, "drafts", false, "include draft posts")
	fs.BoolVar(&c.verbose, "verbose", false, "log debug output")
	fs.StringVar(&c.source, "source", "dir", `where posts are read from: "dir" or "index"`)
}

// app loads the config and creates the App. The returned cleanup closes the
// content index when one was opened.
func (c *common) app(opts ...pubsite.Option) (*pubsite.App, func(), error) {
	cfg, err := loadConfig(c.config)
	if err != nil {
		return nil, nil, err
	}
	if c.drafts {
		cfg.IncludeDrafts = true
	}
	logger, err := newLogger(c.verbose)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = logger.Sync() }
	opts = append(opts, pubsite.WithLogger(logger))

	switch c.source {
	case "dir":
	case "index":
		store, err := pubsite.NewStore(cfg.IndexPath)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, pubsite.WithSource(store))
		cleanup = func() {
			store.Close()
			_ = logger.Sync()
		}
	default:
		return nil, nil, fmt.Errorf("unknown source %q", c.source)
	}
	return pubsite.New(cfg, opts...), cleanup, nil
}

// loadConfig tolerates a missing default config file so a bare directory with
// content/ can be built without any setup.
func loadConfig(path string) (pubsite.SiteConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && path == "pubsite.yaml" {
		path = ""
	}
	return pubsite.LoadConfig(path)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func runBuild(ctx context.Context, args []string) error {
	var c common
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	c.register(fs)
	clean := fs.Bool("clean", false, "remove the output directory first")
	watch := fs.Bool("watch", false, "rebuild when the content dir changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, cleanup, err := c.app()
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := app.Build(ctx, *clean)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d posts into %d pages in %s\n", stats.Posts, stats.Pages, stats.Duration.Round(time.Millisecond))
	if !*watch {
		return nil
	}

	logger := app.Logger
	return pubsite.WatchContent(ctx, app.Config.ContentDir, 500*time.Millisecond, logger, func() {
		if _, err := app.Build(ctx, false); err != nil {
			logger.Error("rebuild failed", zap.Error(err))
		}
	})
}

func runServe(ctx context.Context, args []string) error {
	var c common
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	c.register(fs)
	addr := fs.String("addr", "", "listen address (overrides the config)")
	watch := fs.Bool("watch", false, "reload posts when the content dir changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, cleanup, err := c.app()
	if err != nil {
		return err
	}
	defer cleanup()
	if *addr != "" {
		app.Config.Addr = *addr
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.Start(ctx) })
	if *watch && c.source == "dir" {
		g.Go(func() error { return app.Watch(ctx) })
	}
	return g.Wait()
}

func runIndex(ctx context.Context, args []string) error {
	var c common
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	// The index is always filled from the content dir.
	c.source = "dir"

	app, cleanup, err := c.app()
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := pubsite.NewStore(app.Config.IndexPath)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := app.IndexContent(ctx, store)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d posts into %s\n", n, app.Config.IndexPath)
	return nil
}
