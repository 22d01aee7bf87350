package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careline/internal/attachment"
	complainthandler "careline/internal/complaint/handler"
	complaintservice "careline/internal/complaint/service"
	complaintstore "careline/internal/complaint/store"
	"careline/internal/filestore"
	"careline/internal/history"
	"careline/internal/identity"
	"careline/internal/identity/revocation"
	"careline/internal/lookup"
	"careline/internal/patient"
	"careline/internal/platform/config"
	"careline/internal/platform/httpserver"
	"careline/internal/platform/logger"
	"careline/internal/platform/metrics"
	"careline/internal/platform/middleware"
	"careline/internal/platform/postgres"
	"careline/internal/platform/redis"
	httptransport "careline/internal/transport/http"
	"careline/pkg/platform/audit"
)

// main wires dependencies and owns the process lifecycle. Business rules live
// in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	caps, err := postgres.ProbeCapabilities(ctx, db)
	if err != nil {
		log.Error("capability probe failed", "error", err)
		os.Exit(1)
	}
	log.Info("optional relations probed",
		"history", caps.History,
		"attachments", caps.Attachments,
	)

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		log.Error("kafka unavailable", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		publisher.Close(flushCtx)
	}()

	m := metrics.New()

	stager, err := filestore.NewDiskStager(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		log.Error("upload directory unusable", "error", err)
		os.Exit(1)
	}

	tokens := identity.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)
	identityService := identity.NewService(identity.NewPostgresEmployeeStore(db), tokens, log)

	var revoker identity.Revoker
	var revocationChecker middleware.RevocationChecker
	if redisClient != nil {
		store := revocation.NewRedisStore(redisClient.Client, cfg.TokenTTL)
		revoker = store
		revocationChecker = store
	}

	patientStore := patient.NewPostgres(db)
	ledger := history.NewLedger(history.NewPostgres(db), caps.History, log, m)
	attachments := attachment.NewAdapter(attachment.NewPostgres(db), caps.Attachments, log, m)

	complaintSvc := complaintservice.New(
		complaintstore.NewPostgres(db),
		complaintstore.NewSQLTxRunner(db),
		patient.NewResolver(patientStore),
		patientStore,
		ledger,
		attachments,
		publisher,
		m,
		log,
	)

	routerCfg := httptransport.Config{
		Logger:     log,
		Metrics:    m,
		Validator:  tokens,
		Revocation: revocationChecker,
		Auth:       identity.NewHandler(identityService, tokens, revoker, log),
		Catalog:    lookup.NewHandler(lookup.NewService(lookup.NewPostgres(db)), log),
		Complaints: complainthandler.New(complaintSvc, stager, log),
		Health: map[string]httptransport.HealthChecker{
			"database": func() error { return db.PingContext(context.Background()) },
		},
	}
	if redisClient != nil {
		routerCfg.Health["redis"] = func() error { return redisClient.Health(context.Background()) }
	}

	srv := httpserver.New(cfg.Addr, httptransport.New(routerCfg))

	go func() {
		log.Info("careline listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
