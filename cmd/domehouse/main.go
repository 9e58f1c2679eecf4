package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	availabilityapp "domehouse/internal/app/handlers/availability"
	checkoutapp "domehouse/internal/app/handlers/checkout"
	"domehouse/internal/app/policies"
	domainbooking "domehouse/internal/domain/booking"
	"domehouse/internal/domain/calendar"
	"domehouse/internal/infra/broker/kafka"
	"domehouse/internal/infra/config"
	mongodb "domehouse/internal/infra/db/mongo"
	ginserver "domehouse/internal/infra/http/gin"
	"domehouse/internal/infra/obs"
	stripeinfra "domehouse/internal/infra/payments/stripe"
	"domehouse/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	rates, blocked, err := config.LoadCalendarConfig(cfg.CalendarConfigPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("calendar config missing, using built-in rates", "path", cfg.CalendarConfigPath)
		rates, blocked = config.DefaultCalendar()
	case err != nil:
		logger.Error("calendar config invalid", "path", cfg.CalendarConfigPath, "error", err)
		os.Exit(1)
	}

	// Pricing and selectability must agree on which nights are weekend.
	weekend := calendar.DefaultWeekend
	rates.Weekend = weekend

	rules := calendar.Rules{
		Blocked:     blocked,
		Weekend:     weekend,
		HorizonDays: cfg.BookingHorizonDays,
		Location:    loc,
		Now:         time.Now,
	}

	bookings, ready := buildBookingStore(ctx, cfg, logger)

	var events policies.EventsPort = policies.NoopEvents{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
		if err != nil {
			logger.Warn("kafka unavailable, booking events disabled", "error", err)
		} else {
			defer publisher.Close()
			events = publisher
		}
	}

	payments := stripeinfra.New(cfg.StripeSecretKey)

	startSession := &checkoutapp.StartSessionHandler{
		Bookings:  bookings,
		Rules:     rules,
		Rates:     rates,
		Payments:  payments,
		Events:    events,
		Locks:     domainbooking.NewRangeLock(),
		PublicKey: cfg.StripePublicKey,
		BaseURL:   cfg.BaseURL,
		Currency:  cfg.Currency,
		Logger:    logger,
	}
	confirmPayment := &checkoutapp.ConfirmPaymentHandler{
		Bookings: bookings,
		Verifier: stripeinfra.WebhookVerifier{Secret: cfg.StripeWebhookSecret},
		Events:   events,
		Logger:   logger,
	}
	monthView := &availabilityapp.MonthViewHandler{Bookings: bookings, Rules: rules, Rates: rates}
	selection := &availabilityapp.SelectionHandler{Bookings: bookings, Rules: rules, Rates: rates}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: ready}, ginserver.Handlers{
		Checkout:     ginserver.CheckoutHandler{StartSession: startSession},
		Webhook:      ginserver.WebhookHandler{ConfirmPayment: confirmPayment},
		Availability: ginserver.AvailabilityHandler{MonthView: monthView, Select: selection},
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// buildBookingStore picks mongo when configured and falls back to the
// in-memory repository for local runs.
func buildBookingStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (domainbooking.Repository, func() error) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI not set, bookings held in memory")
		return memory.NewBookingRepository(), nil
	}
	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connect failed, bookings held in memory", "error", err)
		return memory.NewBookingRepository(), nil
	}
	return client.Bookings(), func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
