package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"internship-tracker/backend/config"
	"internship-tracker/backend/internal/api/handler"
	"internship-tracker/backend/internal/api/router"
	"internship-tracker/backend/internal/notify"
	"internship-tracker/backend/internal/repository"
	"internship-tracker/backend/internal/scheduler"
	"internship-tracker/backend/internal/service"
	"internship-tracker/backend/pkg/database"
	"internship-tracker/backend/pkg/jwt"
	applogger "internship-tracker/backend/pkg/logger"
	"internship-tracker/backend/pkg/mail"
	"internship-tracker/backend/pkg/queue"
	"internship-tracker/backend/pkg/redis"
	"internship-tracker/backend/pkg/storage"
	"internship-tracker/backend/pkg/telegram"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("INTERN_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting internship tracker",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. redis is optional: without it logout revocation, rate limiting and
	// the cross-instance allocation lock are disabled
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without blacklist, rate limit and allocation lock", zap.Error(err))
		rdb = nil
	}

	// 5. document storage
	store, err := storage.NewCloudinary(&cfg.Storage, logger)
	if err != nil {
		logger.Fatal("document storage init failed", zap.Error(err))
	}

	// 6. notifications
	deliverer, err := newDeliverer(cfg, logger)
	if err != nil {
		logger.Fatal("notification transport init failed", zap.Error(err))
	}
	policy := notify.RetryPolicy{Attempts: cfg.Queue.MaxAttempts, Backoff: cfg.Queue.RetryBackoff}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	var (
		dispatcher notify.Dispatcher
		producer   *queue.Producer
		consumer   *queue.Consumer
		async      *notify.AsyncDispatcher
	)
	if cfg.Queue.Enabled() {
		producer = queue.NewProducer(&cfg.Queue)
		consumer = queue.NewConsumer(&cfg.Queue, logger)
		dispatcher = notify.NewQueueDispatcher(producer)

		worker := notify.NewWorker(consumer, deliverer, policy, logger)
		go func() {
			defer close(workerDone)
			if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("notification worker exited", zap.Error(err))
			}
		}()
	} else {
		logger.Info("no queue brokers configured, delivering notifications in-process")
		async = notify.NewAsyncDispatcher(deliverer, policy, logger)
		dispatcher = async
		close(workerDone)
	}

	// 7. Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)

	infra := service.Infra{Store: store, Notifier: dispatcher}
	if rdb != nil {
		infra.Locker = rdb
		infra.Blacklist = rdb
	}
	svc := service.NewService(cfg, repo, infra, jwtMgr, logger)

	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("register validators", zap.Error(err))
	}
	h := handler.NewHandler(svc)

	// 8. router
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. allocation schedule
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(&cfg.Scheduler, cfg.Internship.Location(), svc.Allocation, logger)
		if err != nil {
			logger.Fatal("scheduler init failed", zap.Error(err))
		}
		sched.Start()
	}

	// 10. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
	if sched != nil {
		sched.Stop(ctx)
	}

	// drain notifications before closing their transports
	if async != nil {
		async.Close(ctx)
	}
	stopWorker()
	<-workerDone
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Warn("close kafka consumer", zap.Error(err))
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("close kafka producer", zap.Error(err))
		}
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server stopped")
}

// newDeliverer wires the configured transports; absent credentials leave the
// channel nil so messages are only logged
func newDeliverer(cfg *config.Config, logger *zap.Logger) (*notify.Deliverer, error) {
	var email notify.EmailSender
	if sg := mail.NewSendGrid(&cfg.Mail); sg != nil {
		email = sg
	} else {
		logger.Warn("sendgrid key not set; emails will be logged only")
	}

	var tg notify.TelegramSender
	bot, err := telegram.NewBot(&cfg.Telegram)
	if err != nil {
		return nil, err
	}
	if bot != nil {
		tg = bot
	} else {
		logger.Warn("telegram bot token not set; telegram messages will be logged only")
	}

	return notify.NewDeliverer(email, tg, logger), nil
}
