package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cache_adapter "github.com/Edmond40/afari-real-estate-sub000/internal/adapters/cache"
	"github.com/Edmond40/afari-real-estate-sub000/internal/adapters/listing_api_client"
	logger_adapter "github.com/Edmond40/afari-real-estate-sub000/internal/adapters/logger"
	metrics_adapter "github.com/Edmond40/afari-real-estate-sub000/internal/adapters/metrics"
	postgres_adapter "github.com/Edmond40/afari-real-estate-sub000/internal/adapters/postgres"
	rabbitmq_adapter "github.com/Edmond40/afari-real-estate-sub000/internal/adapters/rabbitmq"
	"github.com/Edmond40/afari-real-estate-sub000/internal/adapters/rest"
	"github.com/Edmond40/afari-real-estate-sub000/internal/configs"
	"github.com/Edmond40/afari-real-estate-sub000/internal/constants"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contracts"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/usecase"
	fluentlogger "github.com/Edmond40/afari-real-estate-sub000/pkg/fluent_logger"
	"github.com/Edmond40/afari-real-estate-sub000/pkg/postgres"
	"github.com/Edmond40/afari-real-estate-sub000/pkg/rabbitmq/rabbitmq_common"
	"github.com/Edmond40/afari-real-estate-sub000/pkg/rabbitmq/rabbitmq_consumer"
)

const cacheJanitorInterval = time.Minute

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	resultCache  port.ResultCachePort
	cacheCloser  io.Closer
	memoryCache  *cache_adapter.MemoryCache
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	connManager            *rabbitmq_common.ConnectionManager
	listingChangedListener port.EventListenerPort
}

// NewApp - composition root: здесь создаются и связываются все зависимости.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiLoggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	// --- 2. МЕТРИКИ ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics_adapter.NewRecorder(registry)

	// --- 3. ИСТОЧНИК ОБЪЯВЛЕНИЙ ---
	var source port.ListingRepositoryPort
	switch appConfig.Source.Kind {
	case configs.SourcePostgres:
		dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Source.DatabaseURL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		application.dbPool = dbPool
		source = postgres_adapter.NewListingRepository(dbPool)
		appLogger.Info("Listing source: PostgreSQL", nil)
	default:
		apiClient, err := listing_api_client.NewClient(listing_api_client.Config{
			BaseURL: appConfig.Source.APIURL,
			Timeout: appConfig.Source.APITimeout,
			RPS:     appConfig.Source.APIRPS,
			Burst:   appConfig.Source.APIBurst,
		})
		if err != nil {
			appLogger.Error("Failed to create listing API client", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create listing API client: %w", err)
		}
		source = apiClient
		appLogger.Info("Listing source: upstream API", port.Fields{"base_url": appConfig.Source.APIURL})
	}

	// --- 4. КЭШ ---
	switch appConfig.Cache.Backend {
	case configs.CacheRedis:
		redisCache, err := cache_adapter.NewRedisCache(context.Background(), cache_adapter.RedisConfig{
			Addr:      appConfig.Cache.RedisAddr,
			Password:  appConfig.Cache.RedisPassword,
			DB:        appConfig.Cache.RedisDB,
			KeyPrefix: appConfig.AppName + ":",
		})
		if err != nil {
			appLogger.Error("Failed to connect to Redis", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		application.resultCache = redisCache
		application.cacheCloser = redisCache
	default:
		memoryCache := cache_adapter.NewMemoryCache()
		application.resultCache = memoryCache
		application.cacheCloser = memoryCache
		application.memoryCache = memoryCache
	}
	appLogger.Info("Result cache initialized", port.Fields{"backend": appConfig.Cache.Backend})

	sourceVersion := usecase.NewSourceVersion()
	repository := cache_adapter.NewCachedListingRepository(source, application.resultCache, sourceVersion, recorder, appConfig.Cache.TTL)

	// --- 5. USE CASES ---
	browseUseCase := usecase.NewBrowseListingsUseCase(
		repository,
		application.resultCache,
		sourceVersion,
		usecase.NewRequestGuard(),
		recorder,
		usecase.BrowseConfig{
			DefaultPageSize: appConfig.Browse.DefaultPageSize,
			MaxPageSize:     appConfig.Browse.MaxPageSize,
			MemoTTL:         appConfig.Cache.SnapshotTTL,
		},
	)
	getListingUseCase := usecase.NewGetListingUseCase(repository, recorder)
	statsUseCase := usecase.NewListingStatsUseCase(repository, recorder, appConfig.Browse.StatsMaxPages)
	snapshotUseCase := usecase.NewCreateSearchSnapshotUseCase(repository, application.resultCache, appConfig.Cache.SnapshotTTL, appConfig.Browse.SnapshotMaxSize)
	invalidateUseCase := usecase.NewInvalidateListingsUseCase(sourceVersion)

	appLogger.Info("All use cases initialized.", nil)

	// --- 6. ВХОДЯЩИЕ АДАПТЕРЫ ---
	if appConfig.RabbitMQ.Enabled {
		registryContracts, err := contracts.NewRegistry()
		if err != nil {
			appLogger.Error("Failed to compile event contracts", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to compile event contracts: %w", err)
		}

		connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
		connManager, err := rabbitmq_common.NewConnectionManager(
			rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger),
		)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		application.connManager = connManager
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		listener, err := rabbitmq_adapter.NewListingChangedConsumerAdapter(rabbitmq_consumer.ConsumerConfig{
			Config:          rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			QueueName:       constants.QueueListingChanged,
			DurableQueue:    true,
			ExchangeName:    constants.ExchangeListings,
			ExchangeType:    "topic",
			DurableExchange: true,
			RoutingKey:      constants.RoutingKeyListingChanged,
			PrefetchCount:   10,
			ConsumerTag:     constants.ConsumerTag,
		}, invalidateUseCase, registryContracts, baseLogger, connManager)
		if err != nil {
			appLogger.Error("Failed to create listing changes listener", err, nil)
			application.closeResources()
			return nil, err
		}
		application.listingChangedListener = listener
		appLogger.Info("Listing changes listener initialized.", nil)
	}

	handlers := rest.Handlers{
		Listings: rest.NewListingHandler(browseUseCase, getListingUseCase, appConfig.Browse.SnapshotMaxSize),
		Search:   rest.NewSearchHandler(snapshotUseCase, browseUseCase),
		Stats:    rest.NewStatsHandler(statsUseCase),
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	application.apiServer = rest.NewServer(appConfig.Rest.Port, handlers, appConfig.Rest.CORSAllowedOrigins, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 2)

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	if a.listingChangedListener != nil {
		wg.Add(1)
		go startListener("Listing Changed Events Listener", a.listingChangedListener)
	}

	if a.memoryCache != nil {
		a.memoryCache.StartJanitor(appCtx, cacheJanitorInterval)
	}

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.Port})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()

	return runErr
}

// closeResources закрывает все, что успели создать. Fluent закрывается последним.
func (a *App) closeResources() {
	if a.listingChangedListener != nil {
		if err := a.listingChangedListener.Close(); err != nil {
			a.logger.Error("Error closing listing changes listener", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.cacheCloser != nil {
		if err := a.cacheCloser.Close(); err != nil {
			a.logger.Error("Error closing result cache", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
