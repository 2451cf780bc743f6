package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/cfg"
	v1Http "github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/delivery/v1/http"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/infrastructure/encoder"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/infrastructure/kafka"
	minioInfra "github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/infrastructure/minio"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/memory"
	s3Repo "github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/minio"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/pgdb"
	pgdbConv "github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/pgdb/converter/generated"
	qdrantRepo "github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/qdrant"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/redis"
	redisConv "github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/redis/converter/generated"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/usecase"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/clients"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/closer"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/postgres"
)

const (
	shutdownTimeout  = 10 * time.Second
	bootstrapTimeout = 10 * time.Second
)

// App собирает все подсистемы сервиса рекомендаций.
// Опциональные подсистемы (Qdrant, Kafka, MinIO) подключаются по feature-флагам,
// выключенные заменяются no-op реализациями на этапе сборки.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server

	outboxWorker *kafka.OutboxWorker

	// runCtx живет от старта до начала shutdown, на нем висят фоновые воркеры
	runCtx    context.Context
	runCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	runCtx, runCancel := context.WithCancel(context.Background())

	app := &App{
		cfg:       cfg,
		logger:    log,
		closer:    closer.NewCloser(2 * time.Second),
		runCtx:    runCtx,
		runCancel: runCancel,
	}

	db, err := initPGDB(log, cfg)
	if err != nil {
		runCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	app.closer.Add(func(_ context.Context) error {
		db.Close()
		return nil
	})

	cache, err := app.initEmbeddingCache()
	if err != nil {
		runCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	encoderInfra := encoder.NewHTTPEncoder(cfg.Encoder, log)
	builder := usecase.NewEmbeddingBuilder(encoderInfra, cache, cfg.Encoder.Dim, log)
	ranker := usecase.NewRankingEngine(builder, cache, log)

	vectorIndex, err := app.initVectorIndex()
	if err != nil {
		runCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	outboxRepo, err := app.initOutbox(db)
	if err != nil {
		runCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	imagesInfra, err := app.initImagesInfra()
	if err != nil {
		runCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	prConv := pgdbConv.NewProductConverterImpl()
	catConv := pgdbConv.NewCategoryConverterImpl()
	purchaseConv := pgdbConv.NewPurchaseConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, catConv)
	purchaseRepo := pgdb.NewPurchaseRepo(db.Pool, purchaseConv)

	recUC := usecase.NewRecommendationUC(
		purchaseRepo,
		productRepo,
		builder,
		ranker,
		cache,
		vectorIndex,
		outboxRepo,
		db.Pool,
		cfg.Recs.DefaultLimit,
		cfg.Recs.CandidatePool,
		log,
	)

	catalogUC := usecase.NewCatalogUC(
		productRepo,
		categoryRepo,
		purchaseRepo,
		db.Pool,
		builder,
		imagesInfra,
		cache,
		vectorIndex,
		outboxRepo,
		recUC,
		log,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(recUC, catalogUC)

	app.httpSrv = v1Http.NewServer(r, cfg.Http)

	return app, nil
}

// Run запускает HTTP-сервер и фоновые воркеры, блокируется до сигнала
// завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	if a.outboxWorker != nil {
		a.outboxWorker.Start(a.runCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
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

	a.stop()

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// stop гасит сервер и закрывает ресурсы в порядке, обратном инициализации.
func (a *App) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	// Останавливаем фоновые воркеры до закрытия их зависимостей
	a.runCancel()
	if a.outboxWorker != nil {
		a.outboxWorker.Stop()
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource shutdown: %v", err)
	}
}

// initEmbeddingCache выбирает реализацию кэша эмбеддингов по конфигурации.
func (a *App) initEmbeddingCache() (usecase.EmbeddingCacheRepository, error) {
	if a.cfg.Features.CacheKind == config.CacheKindMemory {
		a.logger.Infof("embedding cache: in-memory, ttl %s", a.cfg.Redis.EmbeddingTTL)
		return memory.NewEmbeddingCacheRepo(a.cfg.Redis.EmbeddingTTL), nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx); err != nil {
		return nil, e.Wrap("redis ping", err)
	}
	a.closer.Add(func(_ context.Context) error {
		return redisClient.Client.Close()
	})

	a.logger.Infof("embedding cache: redis at %s", a.cfg.Redis.Addr)
	return redis.NewEmbeddingCacheRepo(redisClient, redisConv.NewEmbeddingConverterImpl(), a.cfg.Redis, a.logger), nil
}

// initVectorIndex подключает Qdrant либо возвращает no-op, если индекс выключен.
func (a *App) initVectorIndex() (usecase.VectorIndexRepository, error) {
	if !a.cfg.Features.VectorIndex {
		a.logger.Infof("vector index disabled")
		return usecase.NewNoopVectorIndex(), nil
	}

	qdrantClient, err := clients.NewQdrantClient(a.cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap("qdrant client", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()
	if err := clients.EnsureCollection(ctx, qdrantClient); err != nil {
		return nil, e.Wrap("qdrant collection", err)
	}

	a.closer.Add(func(_ context.Context) error {
		return qdrantClient.Client.Close()
	})

	a.logger.Infof("vector index: qdrant collection %q", a.cfg.Qdrant.CollectionName)
	return qdrantRepo.NewEmbeddingRepo(qdrantClient.Client, a.cfg.Qdrant), nil
}

// initOutbox собирает цепочку outbox: репозиторий, Kafka-продюсер и воркер.
func (a *App) initOutbox(db *postgres.PgDatabase) (usecase.OutboxRepository, error) {
	if !a.cfg.Features.Outbox {
		a.logger.Infof("outbox disabled")
		return usecase.NewNoopOutbox(), nil
	}

	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverterImpl())

	producer, err := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err != nil {
		return nil, e.Wrap("kafka producer", err)
	}
	if err := producer.EnsureTopic(bootstrapTimeout); err != nil {
		return nil, e.Wrap("kafka topic", err)
	}
	a.closer.Add(func(_ context.Context) error {
		return producer.Close()
	})

	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn)

	a.logger.Infof("outbox enabled, topic %q", a.cfg.Kafka.Topic)
	return outboxRepo, nil
}

// initImagesInfra подключает MinIO либо возвращает no-op, если хранилище изображений выключено.
func (a *App) initImagesInfra() (usecase.ImagesInfra, error) {
	if !a.cfg.Features.ImageStore {
		a.logger.Infof("image store disabled")
		return usecase.NewNoopImagesInfra(), nil
	}

	minioClient, err := clients.NewMinIOClient(a.cfg)
	if err != nil {
		return nil, e.Wrap("minio client", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap("minio bucket", err)
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	infra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, a.runCtx)

	// Дожидаемся фоновой очистки недозагруженных объектов перед выходом
	a.closer.Add(func(ctx context.Context) error {
		return infra.WaitForCleanup(ctx)
	})

	a.logger.Infof("image store: minio bucket %q", a.cfg.Minio.BucketName)
	return infra, nil
}

func initPGDB(log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log); err != nil {
		log.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		log.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
