package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"leadconversion/internal/app/router"
	"leadconversion/internal/pkg/cleanup"
	"leadconversion/internal/pkg/config"
	mongodb "leadconversion/internal/pkg/db/mongo"
	redisdb "leadconversion/internal/pkg/db/redis"
	"leadconversion/internal/pkg/downstream"
	"leadconversion/internal/pkg/gcs"
	"leadconversion/internal/pkg/kafka"
	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/pkg/otel"
	"leadconversion/internal/pkg/pubsub"
	"leadconversion/internal/pkg/store/impl/conversion_audit"
	"leadconversion/internal/pkg/store/impl/conversion_in_progress"
	"leadconversion/internal/pkg/store/repository"
	"leadconversion/internal/service"
)

// application holds everything that has to be released on shutdown.
type application struct {
	cfg      *config.AppConfig
	service  *service.LeadConversionService
	session  *downstream.HTTPSession
	consumer *pubsub.PubSubConsumer
	closers  []cleanup.NamedCloser
}

// setupServices loads configuration and connects every configured backend.
// nolint: funlen
func setupServices(ctx context.Context) (*application, error) {
	cfg, err := config.LoadFromConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel, cfg.Server.ServiceName)
	logger.CtxInfo(ctx, log_messages.ConfigLoaded, zap.String("service", cfg.Server.ServiceName))

	app := &application{cfg: cfg}

	shutdownTracing, err := otel.Setup(ctx, cfg.Server.ServiceName, cfg.Otel.CollectorURL)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, cleanup.NamedCloser{Name: "tracer provider", Close: shutdownTracing})

	deps := service.Dependencies{}

	if cfg.Redis.Addr != "" {
		redisClient, err := redisdb.ConnectToRedis(ctx, cfg.Redis, nil)
		if err != nil {
			app.close(ctx)
			return nil, err
		}
		app.closers = append(app.closers, cleanup.NamedCloser{
			Name:  "redis client",
			Close: func(context.Context) error { return redisClient.Close() },
		})
		deps.InProgress = conversion_in_progress.NewConversionInProgressRepository(
			repository.NewRedisStoreAdapter(redisClient.Client), cfg.Redis.LockTTL())
	}

	if cfg.Mongo.URI != "" {
		mongoClient, err := mongodb.ConnectToMongoDB(ctx, cfg.Mongo)
		if err != nil {
			app.close(ctx)
			return nil, err
		}
		app.closers = append(app.closers, cleanup.NamedCloser{Name: "mongo client", Close: mongoClient.Disconnect})
		deps.Audit = conversion_audit.NewConversionAuditRepository(
			mongoClient.Database.Collection(cfg.Mongo.AuditCollection))
	}

	if cfg.Kafka.Server != "" {
		producer, err := kafka.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			app.close(ctx)
			return nil, err
		}
		app.closers = append(app.closers, cleanup.NamedCloser{
			Name: "kafka producer",
			Close: func(context.Context) error {
				producer.Close()
				return nil
			},
		})
		deps.Publisher = producer
	}

	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewGCSClient(ctx, cfg.GCS.BucketName, cfg.GCS.ObjectPrefix)
		if err != nil {
			app.close(ctx)
			return nil, err
		}
		app.closers = append(app.closers, cleanup.NamedCloser{
			Name: "gcs client",
			Close: func(ctx context.Context) error {
				gcsClient.Close(ctx)
				return nil
			},
		})
		deps.Archiver = gcsClient
	}

	app.session = downstream.NewHTTPSession(cfg.Salesforce.HTTPTimeout(), cfg.Salesforce.Proxies)
	app.service = service.NewLeadConversionService(cfg.Salesforce, downstream.NewConvertLeadClient(app.session), deps)

	if cfg.PubSub.Subscription != "" {
		consumer, err := pubsub.NewPubSubConsumer(ctx, cfg.PubSub)
		if err != nil {
			logger.CtxError(ctx, log_messages.FailureInPubsubConsumerCreation, err)
			app.close(ctx)
			return nil, err
		}
		app.consumer = consumer
	}

	return app, nil
}

// close releases backends in reverse order of creation.
func (a *application) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(ctx); err != nil {
			logger.CtxError(ctx, "Failed to close "+a.closers[i].Name, err)
		}
	}
	a.closers = nil
}

// startHTTPServer starts the HTTP server in a goroutine
func startHTTPServer(ctx context.Context, port int, engine http.Handler) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.CtxInfo(ctx, log_messages.ServerStarting, zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.CtxError(ctx, log_messages.ServerStartFailure, err)
		}
	}()

	return srv
}

// waitForShutdownSignal waits for shutdown signals and returns when received
func waitForShutdownSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

// gracefulShutdown stops intake first, then the server, then the backends.
func gracefulShutdown(ctx context.Context, app *application, server *http.Server) {
	logger.CtxInfo(ctx, log_messages.ServerShutdown)

	closers := make([]cleanup.NamedCloser, 0, len(app.closers)+1)
	closers = append(closers, cleanup.NamedCloser{
		Name: "salesforce session",
		Close: func(context.Context) error {
			app.session.CloseIdleConnections()
			return nil
		},
	})
	for i := len(app.closers) - 1; i >= 0; i-- {
		closers = append(closers, app.closers[i])
	}

	res := cleanup.Resources{
		Server:          server,
		ShutdownTimeout: time.Duration(app.cfg.Server.ShutdownTimeoutSeconds) * time.Second,
		Closers:         closers,
	}
	if app.consumer != nil {
		res.Consumer = app.consumer
	}
	cleanup.CleanupResources(ctx, res)
	app.closers = nil
}

func main() {
	ctx := context.Background()
	defer logger.Sync()

	app, err := setupServices(ctx)
	if err != nil {
		return
	}

	if app.consumer != nil {
		app.consumer.StartConsumer(app.service.HandleMessage)
	}

	engine := router.SetupRouter(app.cfg.Server.ServiceName, app.service)
	server := startHTTPServer(ctx, app.cfg.Server.Port, engine)

	waitForShutdownSignal()

	gracefulShutdown(ctx, app, server)

	logger.CtxInfo(ctx, log_messages.ServerExiting)
}
