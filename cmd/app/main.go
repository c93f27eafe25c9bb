package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbook/config"
	"github.com/Domenick1991/travelbook/internal/analytics"
	"github.com/Domenick1991/travelbook/internal/bootstrap"
	"github.com/Domenick1991/travelbook/internal/cache"
	"github.com/Domenick1991/travelbook/internal/dedup"
	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/internal/payment"
	"github.com/Domenick1991/travelbook/internal/pricing"
	"github.com/Domenick1991/travelbook/internal/ratecache"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/Domenick1991/travelbook/internal/service/booking"
	"github.com/Domenick1991/travelbook/internal/supplier"
	"github.com/Domenick1991/travelbook/pkg/logger"
	"github.com/Domenick1991/travelbook/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
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

	store := cache.NewRedisStore(cfg.Redis)
	defer store.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	m := metrics.NewMetrics("travelbook")

	locks := dedup.NewManager(store,
		dedup.WithTTLs(
			time.Duration(cfg.Booking.LockRequestTTLSeconds)*time.Second,
			time.Duration(cfg.Booking.LockResponseTTLSecs)*time.Second,
		),
		dedup.WithWait(500*time.Millisecond, time.Duration(cfg.Booking.LockWaitSeconds)*time.Second),
	)
	rates := ratecache.New(store, time.Duration(cfg.Booking.RateCacheTTLMinutes)*time.Minute)

	registry := supplier.NewRegistry()
	for _, sc := range cfg.Suppliers {
		adapter := supplier.NewRESTAdapter(sc.Name, sc.BaseURL, sc.APIKey, time.Duration(sc.TimeoutSeconds)*time.Second)
		for _, product := range sc.Products {
			switch product {
			case "hotel":
				registry.RegisterHotel(sc.Name, adapter)
			case "activity":
				registry.RegisterActivity(sc.Name, supplier.ActivityView{RESTAdapter: adapter})
			default:
				zl.Warn("unknown supplier product", "supplier", sc.Name, "product", product)
			}
		}
	}

	verifier := pricing.NewVerifier(registry, pricing.NoIncreasePolicy{})
	gateway := payment.NewRESTGateway(cfg.Payment.BaseURL, cfg.Payment.APIKey, time.Duration(cfg.Payment.TimeoutSeconds)*time.Second)

	recorder := analytics.NewRecorder(producer, cfg.Kafka.AnalyticsTopic, cfg.Booking.AnalyticsQueueSize, zl, func() {
		m.AnalyticsDropped.Inc()
	})
	recorder.Start()
	defer recorder.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	policyRepo := repository.NewPolicyRepository(pool)

	bookingService := booking.NewService(
		bookingRepo,
		paymentRepo,
		reservationRepo,
		policyRepo,
		locks,
		rates,
		verifier,
		registry,
		gateway,
		producer,
		zl,
		m,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithAnalytics(recorder),
		booking.WithOrganization(cfg.Booking.Organization),
	)

	if err := bootstrap.Run(ctx, cfg, bookingService); err != nil {
		zl.Fatal("server error", "error", err)
	}
}
