package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/allegro/techsite/pkg/config"
	"github.com/allegro/techsite/pkg/content"
	"github.com/allegro/techsite/pkg/emit"
	"github.com/allegro/techsite/pkg/events"
	"github.com/allegro/techsite/pkg/feed"
	"github.com/allegro/techsite/pkg/jobs"
	"github.com/allegro/techsite/pkg/landing"
	"github.com/allegro/techsite/pkg/opensource"
	"github.com/allegro/techsite/pkg/remote"
	"github.com/allegro/techsite/pkg/scheduler"
	"github.com/allegro/techsite/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults are used when empty"`

	Build             struct{} `command:"build" description:"aggregate all sources and write the landing page snapshot"`
	RefreshJobs       struct{} `command:"refresh-jobs" description:"write job postings"`
	RefreshOpenSource struct{} `command:"refresh-opensource" description:"write the repositories catalog"`
	RefreshEvents     struct {
		Token string `long:"token" env:"EVENTBRITE_TOKEN" description:"eventbrite api token"`
	} `command:"refresh-events" description:"write one page per meetup event"`
	Serve struct{} `command:"serve" description:"serve the latest landing page snapshot"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// commands
const (
	cmdBuild             = "build"
	cmdRefreshJobs       = "refresh-jobs"
	cmdRefreshOpenSource = "refresh-opensource"
	cmdRefreshEvents     = "refresh-events"
	cmdServe             = "serve"
)

var revision = "unknown"

var errMissingToken = errors.New("eventbrite api token is required, set --token or EVENTBRITE_TOKEN")

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	setupLog(opts.Debug, opts.NoColor, opts.RefreshEvents.Token)
	lgr.Printf("[DEBUG] techsite %s, command %s", revision, parser.Active.Name)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, parser.Active.Name, opts)
	cancel()

	if err != nil {
		lgr.Printf("[ERROR] %s failed: %v", parser.Active.Name, err)
		os.Exit(1)
	}
}

// run executes a single command
func run(ctx context.Context, command string, opts Opts) error {
	// token is checked before any work is done
	if command == cmdRefreshEvents && opts.RefreshEvents.Token == "" {
		return errMissingToken
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := remote.New(remote.Options{
		Timeout:    cfg.HTTP.Timeout,
		UserAgent:  cfg.HTTP.UserAgent,
		Retries:    cfg.HTTP.Retries,
		RetryDelay: cfg.HTTP.RetryDelay,
	})

	switch command {
	case cmdBuild:
		page := newBuilder(cfg, client).Build(ctx)
		return emit.Writer{Dir: cfg.Output.Dir}.WriteJSON(cfg.Output.Landing, page)
	case cmdRefreshJobs:
		listing, err := jobs.NewService(client, cfg.Sources.Jobs, cfg.Cities).Fetch(ctx)
		if err != nil {
			return err
		}
		return emit.Writer{Dir: cfg.Output.Dir}.WriteJSON(cfg.Output.Jobs, listing)
	case cmdRefreshOpenSource:
		catalog, err := opensource.NewService(client, cfg.Sources.GitHub, cfg.OpenSource).Fetch(ctx)
		if err != nil {
			return err
		}
		return emit.Writer{Dir: cfg.Output.Dir}.WriteJSON(cfg.Output.Repositories, catalog)
	case cmdRefreshEvents:
		return refreshEvents(ctx, cfg, client, opts.RefreshEvents.Token)
	case cmdServe:
		return serve(ctx, cfg, client, opts.Debug)
	}
	return fmt.Errorf("unknown command %q", command)
}

// refreshEvents writes a markdown page per event, a page failing to render or write does not stop the rest
func refreshEvents(ctx context.Context, cfg *config.Config, client *remote.Client, token string) error {
	list, err := events.NewService(client, cfg.Sources.Events, token).Fetch(ctx)
	if err != nil {
		return err
	}

	var errs []error
	names := events.FileNames(list)
	files := make([]emit.File, 0, len(list))
	for i, e := range list {
		data, err := events.Render(e)
		if err != nil {
			lgr.Printf("[ERROR] %v", err)
			errs = append(errs, err)
			continue
		}
		files = append(files, emit.File{Name: names[i], Data: data})
	}
	if _, err := (emit.Writer{Dir: cfg.Output.EventsDir}).WriteFiles(files); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// serve runs the preview server with a periodically rebuilt landing page
func serve(ctx context.Context, cfg *config.Config, client *remote.Client, debug bool) error {
	sched := scheduler.NewScheduler(scheduler.Params{
		Builder:        newBuilder(cfg, client),
		UpdateInterval: cfg.Server.RefreshInterval,
	})
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, sched, revision, debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	lgr.Print("[INFO] shutdown complete")
	return nil
}

// newBuilder wires all landing page sources, registration links are only added by refresh-events
func newBuilder(cfg *config.Config, client *remote.Client) *landing.Builder {
	params := landing.Params{
		Parser:            feed.NewParser(client),
		Jobs:              jobs.NewService(client, cfg.Sources.Jobs, cfg.Cities),
		Events:            events.NewService(client, cfg.Sources.Events, ""),
		Repos:             opensource.NewService(client, cfg.Sources.GitHub, cfg.OpenSource),
		Blog:              cfg.Sources.Blog,
		Podcast:           cfg.Sources.Podcast,
		Authors:           cfg.Authors,
		ExtractionTimeout: cfg.Extraction.Timeout,
	}
	if cfg.Extraction.Enabled {
		params.Extractor = content.NewArticleExtractor(client, cfg.Extraction.MinTextLength)
	}
	return landing.NewBuilder(params)
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
