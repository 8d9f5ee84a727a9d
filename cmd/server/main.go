package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pacificpro/internal/config"
	"pacificpro/internal/handler"
	"pacificpro/internal/infrastructure/cache"
	"pacificpro/internal/infrastructure/database"
	"pacificpro/internal/infrastructure/mq"
	"pacificpro/internal/job"
	"pacificpro/internal/repository"
	"pacificpro/internal/service"
	"pacificpro/pkg/idgen"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env opsional, untuk pengembangan lokal.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg := config.LoadConfig(configPath)

	idgen.Init(1)

	db, err := database.InitMySQL(&cfg.MySQL)
	if err != nil {
		log.Fatal().Err(err).Msg("inisialisasi database gagal")
	}

	redisClient, err := cache.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("inisialisasi redis gagal")
	}

	producer, err := mq.NewProducer(&cfg.Kafka)
	if err != nil {
		log.Fatal().Err(err).Msg("inisialisasi kafka producer gagal")
	}

	invoiceRepo := repository.NewInvoiceRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	userRepo := repository.NewUserRepository(db)

	invoiceService := service.NewInvoiceService(
		db, invoiceRepo, journalRepo, customerRepo, outboxRepo, activityRepo,
		redisClient, cfg.Kafka.Topic.InvoiceSync, cfg.Business.ActivityLogCap)
	transactionService := service.NewTransactionService(
		db, transactionRepo, journalRepo, activityRepo, cfg.Business.ActivityLogCap)
	backupService := service.NewBackupService(db)
	authService := service.NewAuthService(
		userRepo, activityRepo, redisClient,
		cfg.Auth.JWTSecret, cfg.Auth.SessionTimeoutMin,
		cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutMinutes,
		cfg.Business.SessionLogCap)

	router := handler.NewRouter(
		authService,
		handler.NewTransaksiHandler(invoiceService, transactionService),
		handler.NewBackupHandler(backupService),
		handler.NewAuthHandler(authService),
	)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	go job.NewOutboxSender(outboxRepo, producer, cfg.Business.MaxRetryCount).Start(jobCtx)
	go job.NewSyncReconciler(outboxRepo).Start(jobCtx)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server berjalan")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server berhenti tidak normal")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinyal berhenti diterima, mematikan server")
	stopJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server tidak mulus")
	}

	if err := producer.Close(); err != nil {
		log.Error().Err(err).Msg("gagal menutup kafka producer")
	}
	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("gagal menutup koneksi redis")
	}

	log.Info().Msg("server berhenti")
}
