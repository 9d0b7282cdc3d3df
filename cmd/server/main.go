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

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/api"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/api/handlers"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/configuration"
	natsroutes "github.com/File-Sharing-BondBridg/Slide-Service/internal/nats"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/services"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := configuration.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := configuration.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *configuration.Config, logger zerolog.Logger) error {
	if cfg.TraceEnabled {
		tracer.Start(tracer.WithService("slide-service"))
		defer tracer.Stop()
	}

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	blobs, err := openBlobs(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var inviteOpts []services.InviteStoreOption
	if cfg.RedisAddr != "" {
		client, err := services.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		inviteOpts = append(inviteOpts, services.WithInviteCache(services.NewRedisInviteCache(client, "invite:", cfg.InviteCacheTTL)))
		logger.Info().Str("addr", cfg.RedisAddr).Msg("invite cache enabled")
	}

	var publisher services.Publisher = services.NopPublisher{}
	var events *services.NATSService
	if cfg.NATSURL != "" {
		events, err = services.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			return fmt.Errorf("connect NATS: %w", err)
		}
		defer events.Close()
		publisher = events
	}

	invites := services.NewInviteStore(st, services.NewCodec(nil), logger, inviteOpts...)
	files := services.NewFileStore(st, publisher, logger)

	if events != nil && cfg.CLAMAVURL != "" {
		scanner := services.NewUploadScanner(blobs, services.NewClamd(cfg.CLAMAVURL), publisher, logger)
		if _, err := natsroutes.SubscribeAll(events, natsroutes.Routes(scanner, logger), logger); err != nil {
			return err
		}
	}

	router := newRouter(cfg, handlers.New(invites, files, blobs, st, cfg.Server.PublicBaseURL, logger), invites, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(cfg *configuration.Config, h *handlers.Handler, invites *services.InviteStore, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	api.RegisterRoutes(r, h, api.Options{
		Logger:  logger,
		Invites: invites,
		Tracing: cfg.TraceEnabled,
	})
	return r
}

func openStorage(ctx context.Context, cfg *configuration.Config, logger zerolog.Logger) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case configuration.DriverMemory:
		logger.Warn().Msg("using in-memory storage; records are lost on restart")
		return storage.NewLocalStorage(), nil
	default:
		return storage.NewPostgresStorage(ctx, cfg.Database.ConnectionString(), logger)
	}
}

func openBlobs(ctx context.Context, cfg *configuration.Config, logger zerolog.Logger) (services.BlobStore, error) {
	switch cfg.BlobDriver {
	case configuration.DriverMemory:
		logger.Warn().Msg("using in-memory blob store")
		return services.NewMemoryBlobStore(), nil
	default:
		return services.NewMinioService(ctx, services.MinioConfig{
			Endpoint:      cfg.MinIO.Endpoint,
			AccessKey:     cfg.MinIO.AccessKey,
			SecretKey:     cfg.MinIO.SecretKey,
			Bucket:        cfg.MinIO.BucketName,
			UseSSL:        cfg.MinIO.UseSSL,
			PresignExpiry: cfg.MinIO.PresignExpiry,
		}, logger)
	}
}
