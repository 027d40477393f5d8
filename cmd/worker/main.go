package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/meridianfcu/stmtdelivery/internal/app"
	"github.com/meridianfcu/stmtdelivery/internal/delivery"
	jobmetrics "github.com/meridianfcu/stmtdelivery/internal/jobs"
	"github.com/meridianfcu/stmtdelivery/jobs"
)

func main() {
	_ = godotenv.Load()

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	metrics := jobmetrics.NewMetrics(nil)
	defaults := delivery.Params{
		ServiceName:    cfg.DeliveryServiceName,
		ConfigFilePath: cfg.DeliveryConfigFile,
		OutputFilePath: cfg.DeliveryOutputDir,
		SendEmail:      cfg.DeliverySendEmail,
		Recipients:     splitRecipients(cfg.DeliveryRecipients),
		FromAddr:       cfg.DeliveryFromAddr,
	}
	updateJob := jobs.NewDeliveryUpdateJob(cfg, defaults, logger, metrics)

	cronTask, err := jobs.NewDeliveryUpdateTask(jobs.DeliveryUpdatePayload{})
	if err != nil {
		logger.Error("build cron task", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeDeliveryUpdate, Handler: updateJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.DeliveryUpdateCron, Task: cronTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	jobs.NewHandler(inspector, logger).MountRoutes(router)

	httpServer := &http.Server{Addr: cfg.WorkerAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker http server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", slog.Any("error", err))
		}
	}()

	logger.Info("worker starting",
		slog.String("addr", cfg.WorkerAddr),
		slog.String("cron", cfg.DeliveryUpdateCron))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func splitRecipients(list string) []string {
	var out []string
	for _, addr := range strings.Split(list, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
