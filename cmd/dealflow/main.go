package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/dealflow/internal/cli"
	"github.com/alexanderramin/dealflow/internal/config"
	"github.com/alexanderramin/dealflow/internal/db"
	"github.com/alexanderramin/dealflow/internal/intelligence"
	"github.com/alexanderramin/dealflow/internal/llm"
	"github.com/alexanderramin/dealflow/internal/logging"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, os.Stderr)

	dialect, err := cfg.Database.Dialect()
	if err != nil {
		return err
	}
	database, err := db.Open(dialect, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := service.NewStore(database, dialect)
	observer := service.NewSlogUseCaseObserver(logger)

	deals := service.NewDealService(store, observer)
	app := &cli.App{
		Deals:       deals,
		Checklists:  service.NewChecklistService(store, observer),
		ActionPlans: service.NewActionPlanService(store, observer),
		Portfolio:   service.NewPortfolioService(store, observer),
		Documents:   service.NewDocumentService(store, observer),
		Logger:      logger,
		HTTPAddr:    cfg.HTTP.Addr,
		Now:         func() time.Time { return time.Now().UTC() },
	}

	// Detect interactive terminal for forms, spinners and the board.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Intelligence services are only wired when a provider has credentials.
	llmCfg := llm.LoadConfig()
	if providers := llm.ProvidersFromConfig(llmCfg); len(providers) > 0 {
		var llmObserver llm.Observer = llm.NewSlogObserver(logger)
		if llmCfg.LogCalls {
			llmObserver = llm.NewLogObserver(os.Stderr)
		}
		router := llm.NewRouter(llmCfg, llmObserver, providers...)
		app.Analysis = intelligence.NewAnalysisService(deals, router)
		app.Extractor = intelligence.NewProfileExtractor(router)
		logger.Debug("llm providers configured", "providers", router.Providers())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
