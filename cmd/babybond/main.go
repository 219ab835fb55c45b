package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/alexanderramin/babybond/internal/catalog"
	"github.com/alexanderramin/babybond/internal/cli"
	"github.com/alexanderramin/babybond/internal/clock"
	"github.com/alexanderramin/babybond/internal/config"
	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/remote"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/service"
	"github.com/alexanderramin/babybond/internal/syncqueue"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()
	clk := clock.SystemClock{}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	// Wire repositories
	profileRepo := repository.NewSQLiteUserProfileRepo(database)
	planRepo := repository.NewSQLiteWeeklyPlanRepo(database)
	scheduledRepo := repository.NewSQLiteScheduledActivityRepo(database)
	historyRepo := repository.NewSQLiteHistoryRepo(database)
	contentRepo := repository.NewSQLiteGeneratedContentRepo(database)

	cat := catalog.New(repository.NewSQLiteTemplateRepo(database), uow,
		catalog.WithClock(clk), catalog.WithLogger(logger))
	if err := cat.Load(ctx); err != nil {
		return fmt.Errorf("loading activity catalog: %w", err)
	}

	// Wire the sync remote and queue
	endpoint, closeRemote, err := remote.Open(ctx, remote.Options{
		Target:      cfg.Sync.Target,
		URL:         cfg.Sync.URL,
		Token:       cfg.Sync.Token,
		Timeout:     cfg.Sync.Timeout,
		Brokers:     cfg.Sync.KafkaBrokers,
		Topic:       cfg.Sync.KafkaTopic,
		PostgresURL: cfg.Sync.PostgresURL,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("opening sync remote: %w", err)
	}
	defer func() {
		if err := closeRemote(); err != nil {
			logger.Warn("closing sync remote", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	queue := syncqueue.New(
		repository.NewSQLiteSyncQueueRepo(database),
		repository.NewSQLiteSyncEvictionRepo(database),
		uow,
		endpoint,
		syncqueue.WithClock(clk),
		syncqueue.WithLogger(logger),
		syncqueue.WithMetrics(syncqueue.NewMetrics(reg)),
		syncqueue.WithWorkers(cfg.Sync.Workers),
		syncqueue.WithMaxRetries(cfg.Sync.MaxRetries),
	)
	monitor := syncqueue.NewMonitor(queue, endpoint, cfg.Sync.ProbeInterval, logger)

	// Wire services
	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	app := &cli.App{
		Profiles: service.NewProfileService(profileRepo, uow, queue, clk, observers...),
		Plans: service.NewPlanService(planRepo, profileRepo, cat, uow, queue, clk, service.PlanConfig{
			FirstDay: cfg.WeekStart,
			Location: loc,
			Rand:     rand.New(rand.NewPCG(seed, seed)),
		}, observers...),
		Activities: service.NewActivityService(scheduledRepo, historyRepo, uow, queue, clk, loc, observers...),
		Content: service.NewContentService(contentRepo, profileRepo, cat, clk, service.ContentConfig{
			TTL:  cfg.ContentTTL,
			Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		}, observers...),
		Catalog:     cat,
		Sync:        queue,
		Monitor:     monitor,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		MetricsAddr: cfg.MetricsAddr,
		Clock:       clk,
		Location:    loc,
	}

	// Detect interactive terminal for the profile questionnaire.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
