package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbook/config"
	"github.com/Domenick1991/travelbook/internal/email"
	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/Domenick1991/travelbook/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl := logger.NewLogger()
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zl.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	bookingRepo := repository.NewBookingRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.NotificationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				zl.Warn("decode notification event", "error", err)
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			zl.Warn("consumer stopped", "error", err)
		}
	}()

	// Bookings stuck in PENDING (crashed orchestrations) are swept to
	// FAILED so they do not linger indefinitely.
	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.PendingSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	maxAge := time.Duration(cfg.Worker.PendingMaxAgeMin) * time.Minute

	for {
		select {
		case <-sweepTicker.C:
			failed, err := bookingRepo.FailPendingBefore(ctx, time.Now().Add(-maxAge))
			if err != nil {
				zl.Error("sweep pending bookings", "error", err)
				continue
			}
			if len(failed) > 0 {
				zl.Info("swept stuck bookings to FAILED", "count", len(failed))
			}
		case <-ctx.Done():
			zl.Info("shutting down worker")
			return
		}
	}
}
