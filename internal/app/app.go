package app

import (
	"context"
	"sync"

	"github.com/maheshd/pricely/internal/config"
	"github.com/maheshd/pricely/internal/delivery/telegram"
	"github.com/maheshd/pricely/internal/infra/db"
	"github.com/maheshd/pricely/internal/infra/fetch"
	"github.com/maheshd/pricely/internal/infra/links"
	"github.com/maheshd/pricely/internal/infra/log"
	"github.com/maheshd/pricely/internal/infra/ratelimit"
	"github.com/maheshd/pricely/internal/usecase"
	"go.uber.org/zap"
)

type App struct {
	bot       *telegram.Bot
	scheduler *usecase.Scheduler
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	userRepo := db.NewUserRepository(dbConn)
	productRepo := db.NewProductRepository(dbConn)
	subscriptionRepo := db.NewSubscriptionRepository(dbConn)

	fetchClient := fetch.NewClient(cfg.FetchTimeout, cfg.HTTPUserAgent, logger)
	fetchers := fetch.NewSelector(fetchClient)
	expander := links.NewExpander(cfg.LinkTimeout, logger)
	converter := links.NewEarnKaroConverter(cfg.EarnKaroAPIURL, cfg.EarnKaroAPIToken, cfg.LinkTimeout, logger)
	limiter := ratelimit.NewPerHost(cfg.RatePerHost)

	userUC := usecase.NewUserUsecase(userRepo)
	trackingUC := usecase.NewTrackingUsecase(userRepo, productRepo, subscriptionRepo, fetchers, expander, converter, logger)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	notifier := telegram.NewNotifier(api, logger)
	reconciler := usecase.NewReconciler(productRepo, subscriptionRepo, userRepo, fetchers, notifier, limiter, cfg.FetchConcurrency, logger)
	scheduler := usecase.NewScheduler(reconciler, cfg.CheckInterval, logger)

	handlers := telegram.NewHandlers(userUC, trackingUC, cfg.AdminIDs, cfg.LogChannelID, logger)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{bot: bot, scheduler: scheduler, logger: logger, cleanupFn: cleanup}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("pricely service starting")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.scheduler.Run(ctx)
	}()

	a.logger.Info("pricely service started")
	err := a.bot.Start(ctx)
	wg.Wait()
	return err
}

func (a *App) Shutdown() {
	a.logger.Info("pricely service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
