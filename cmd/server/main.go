package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/ai/openai"
	natsAdapter "github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/ops"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/storage/awss3"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/storage/gcs"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/storage/s3"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/handler"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/router"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/salespost"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/shell"

	// Platform
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const (
	healthCheckInterval = 15 * time.Second
	shutdownTimeout     = 10 * time.Second
)

func main() {
	os.Exit(run())
}

// run wires and serves the service. It returns the process exit code once every deferred
// cleanup has run.
func run() int {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Error("Failed to load configuration", zap.Error(err))
		return 1
	}
	serviceName := cfg.ServiceName
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	var tp *sdktrace.TracerProvider
	if cfg.OTExporterOTLPEndpoint != "" {
		tp, err = tracer.InitTracer(ctx, serviceName, cfg.OTExporterOTLPEndpoint, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize tracer", zap.Error(err))
			return 1
		}
		defer func() {
			ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctxShutdown); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	metricsManager := metrics.NewMetricsManager(serviceName)

	// MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Error("Failed to connect to MongoDB", zap.Error(err))
		return 1
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	ctxPing, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	err = mongoClient.Ping(ctxPing, nil)
	cancelPing()
	if err != nil {
		appLogger.Error("Failed to ping MongoDB", zap.Error(err))
		return 1
	}
	db := mongoClient.Database(cfg.MongoDatabase)
	listingRepo := mongoRepo.NewListingRepository(db, appLogger)
	userRepo := mongoRepo.NewUserRepository(db, appLogger)

	// Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		appLogger.Error("Failed to connect to Redis", zap.Error(err))
		return 1
	}
	defer redisClient.Close()
	listingCache := cache.NewListingCache(redisClient, appLogger)
	sessionStore := cache.NewSessionStore(redisClient)

	// NATS
	publisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Error("Failed to initialize NATS publisher", zap.Error(err))
		return 1
	}
	defer publisher.Close()

	// Blob storage
	blobStore, closeStore, err := openBlobStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize blob storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
		return 1
	}
	defer closeStore()
	images := usecase.NewImageManager(blobStore, appLogger, metricsManager)

	// Listings
	listingOpts := []usecase.Option{
		usecase.WithCache(listingCache, cfg.CacheTTL),
		usecase.WithPublisher(publisher),
		usecase.WithMetrics(metricsManager),
	}
	if cfg.SMTPEnabled() {
		smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize SMTP mailer", zap.Error(err))
			return 1
		}
		listingOpts = append(listingOpts, usecase.WithNotifier(smtpMailer))
	} else {
		appLogger.Info("SMTP not configured, listing notifications disabled.")
	}
	listings := usecase.NewListingUsecase(listingRepo, images, appLogger, listingOpts...)

	// Auth
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL, serviceName)
	gateway := auth.NewGateway(userRepo, sessionStore, tokens, appLogger)
	unsubscribers := []func(){
		gateway.Subscribe(auth.SessionGauge(metricsManager)),
		gateway.Subscribe(publisher.AuthListener()),
	}
	defer func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}()

	// Sales posts
	models := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIVisionModel, cfg.OpenAITextModel, appLogger)
	generator := salespost.NewGenerator(models, appLogger, metricsManager)
	salesPostLimit := middleware.NewRateLimiter(cfg.SalesPostRate, cfg.SalesPostBurst, appLogger)
	defer salesPostLimit.Stop()

	// HTTP
	renderer, err := shell.NewRenderer()
	if err != nil {
		appLogger.Error("Failed to parse page templates", zap.Error(err))
		return 1
	}
	httpHandler := router.New(router.Deps{
		Listings:       handler.NewListingHandler(listings, images, appLogger),
		Auth:           handler.NewAuthHandler(gateway, appLogger),
		SalesPosts:     handler.NewSalesPostHandler(generator, appLogger),
		Shell:          handler.NewShellHandler(listings, gateway, renderer, cfg.DisableAnonymous, appLogger),
		Users:          gateway,
		SalesPostLimit: salesPostLimit,
		Metrics:        metricsManager,
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         appLogger,
	})
	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC ops
	opsSrv := ops.NewOpsServer(serviceName, appLogger)
	deps := map[string]ops.Pinger{
		"mongo": listingRepo,
		"redis": ops.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
	}
	if p, ok := blobStore.(ops.Pinger); ok {
		deps["storage"] = p
	}
	grpcLis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		appLogger.Error("Failed to listen for gRPC", zap.String("port", cfg.GRPCPort), zap.Error(err))
		return 1
	}

	metricsSrv := metrics.NewMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		appLogger.Info("Starting gRPC ops server", zap.String("port", cfg.GRPCPort))
		if err := opsSrv.Server.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		opsSrv.Watch(gctx, healthCheckInterval, deps)
		return nil
	})
	if metricsSrv != nil {
		g.Go(func() error {
			appLogger.Info("Starting Prometheus metrics server", zap.String("port", cfg.PrometheusMetricsPort))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		opsSrv.GracefulStop()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server shutdown failed", zap.Error(err))
		}
		if metricsSrv != nil {
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				appLogger.Error("Metrics server shutdown failed", zap.Error(err))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return 1
	}
	appLogger.Info("Application shut down.")
	return 0
}

// openBlobStore picks the object storage backend named by STORAGE_DRIVER.
func openBlobStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (domain.BlobStore, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case config.StorageS3:
		store, err := awss3.New(awss3.Config{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
			Endpoint:        cfg.AWSEndpoint,
			Bucket:          cfg.AWSBucket,
		}, log)
		return store, noop, err
	case config.StorageGCS:
		store, err := gcs.New(ctx, cfg.GCSBucket, cfg.GCSCredentials, log)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error("Failed to close GCS client", zap.Error(err))
			}
		}, nil
	default:
		store, err := s3.NewS3Storage(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, log)
		return store, noop, err
	}
}
