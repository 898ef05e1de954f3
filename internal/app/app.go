package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	config "github.com/Sidharth-Chirathazha/order-app-backend/internal/cfg"
	v1Http "github.com/Sidharth-Chirathazha/order-app-backend/internal/delivery/v1/http"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/infrastructure/classifier"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/infrastructure/kafka"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/infrastructure/mailbox"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/infrastructure/mailer"
	minioRepo "github.com/Sidharth-Chirathazha/order-app-backend/internal/repository/minio"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/repository/pgdb"
	pgdbConv "github.com/Sidharth-Chirathazha/order-app-backend/internal/repository/pgdb/converter/generated"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/repository/redis"
	redisConv "github.com/Sidharth-Chirathazha/order-app-backend/internal/repository/redis/converter/generated"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/usecase"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/clients"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/closer"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/robfig/cron/v3"
)

// App собирает все компоненты приложения и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	db           *postgres.PgDatabase
	redisClient  *clients.RedisClient
	producer     *kafka.Producer
	outboxWorker *kafka.OutboxWorker
	httpSrv      *v1Http.Server
	scheduler    *cron.Cron
	closer       *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(5 * time.Second),
	}

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	app.db = db
	app.closer.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	orConv := pgdbConv.NewOrderConverterImpl()
	outboxConv := pgdbConv.NewOutboxEventConverterImpl()
	infoConv := redisConv.NewProductInfoConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	orderRepo := pgdb.NewOrderRepo(db.Pool, orConv, prConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	app.redisClient = redisClient
	app.closer.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})
	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, cfg.Redis, log)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	archiveRepo := minioRepo.NewMailArchiveRepo(minioClient, cfg.Minio)

	mailSender, err := mailer.NewMailer(cfg.Smtp, cfg.App.AdminEmail, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	mbox := mailbox.NewMailbox(cfg.Imap, cfg.Smtp.User, log)
	textClassifier := classifier.NewClassifier(cfg.Classifier.URL, cfg.Classifier.Token, cfg.Classifier.MaxRetries, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	app.producer = producer
	app.closer.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	app.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	productUC := usecase.NewProductUC(productRepo, cacheRepo, log)
	orderUC := usecase.NewOrderUC(
		orderRepo,
		productRepo,
		outboxRepo,
		db.Pool,
		mailSender,
		log,
		cfg.App.FrontendURL,
		cfg.App.OrderCodeMaxAttempts,
	)
	watcherUC := usecase.NewWatcherUC(
		mbox,
		textClassifier,
		orderRepo,
		outboxRepo,
		archiveRepo,
		db.Pool,
		mailSender,
		log,
		cfg.Watcher.Threshold,
	)

	scheduler, err := initScheduler(cfg.Watcher.Schedule, watcherUC, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	app.scheduler = scheduler

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(productUC, orderUC)

	app.httpSrv = v1Http.NewServer(r, cfg.Http)

	return app, nil
}

// Run запускает outbox-воркер, планировщик watcher'а и HTTP-сервер,
// затем блокируется до сигнала завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	a.outboxWorker.Start(workerCtx)
	a.closer.Add(func(ctx context.Context) error {
		workerCancel()
		a.outboxWorker.Stop()
		return nil
	})

	a.scheduler.Start()
	a.closer.Add(func(ctx context.Context) error {
		stopCtx := a.scheduler.Stop()
		select {
		case <-stopCtx.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource close error: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// initScheduler настраивает периодический прогон watcher'а.
// Прогоны не реентерабельны: пока предыдущий не завершился, новый пропускается.
func initScheduler(schedule string, watcherUC usecase.WatcherUC, log logger.Logger) (*cron.Cron, error) {
	scheduler := cron.New()

	var running sync.Mutex
	_, err := scheduler.AddFunc(schedule, func() {
		if !running.TryLock() {
			log.Warnf("previous mailbox run still in progress, skipping")
			return
		}
		defer running.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := watcherUC.ProcessConfirmationEmails(ctx); err != nil {
			log.Warnf("mailbox run failed: %v", err)
		}
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return scheduler, nil
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
