package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	bookSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/book_slot"
	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getUserBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/health"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/ratelimit"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	slotsService "github.com/m04kA/SMC-AppointmentService/internal/service/slots"
	bookSlotUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
	cancelBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_booking"
	ensureHorizonUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/ensure_horizon"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/migrations"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const startupTimeout = 30 * time.Second

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")

	location, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid schedule timezone: %v", err)
	}
	log.Info("Schedule timezone: %s", location)

	// Метрики (nil, если выключены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	if err := db.PingContext(startupCtx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if err := migrations.Up(startupCtx, db); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Обёртка с метриками; при выключенных метриках работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории и сервисы
	slotRepository := slotRepo.NewRepository(wrappedDB)
	slotsSvc := slotsService.NewService(slotRepository, log)

	// Use cases
	ensureHorizonUseCase := ensureHorizonUC.NewUseCase(slotRepository, metricsCollector, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slotRepository, ensureHorizonUseCase, location, log)
	bookSlotUseCase := bookSlotUC.NewUseCase(slotRepository, txMgr, metricsCollector, location, log)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(slotRepository, metricsCollector, location, log)

	if cfg.Schedule.WarmupOnStart {
		today := time.Now().In(location)
		resp, err := ensureHorizonUseCase.Execute(startupCtx, today)
		if err != nil {
			log.Error("Slot warm-up failed, slots will be generated on first read: %v", err)
		} else {
			log.Info("Slot warm-up done: from=%s, to=%s, inserted=%d",
				resp.From.Format(domain.DateFormat), resp.To.Format(domain.DateFormat), resp.Inserted)
		}
	}

	// Лимитер запросов (опционально)
	var limiter middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rdb, err := ratelimit.NewRedisClient(startupCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, rate limiting disabled: %v", err)
		} else {
			defer rdb.Close()
			l, err := ratelimit.NewLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window(), cfg.RateLimit.Prefix)
			if err != nil {
				log.Fatal("Failed to create rate limiter: %v", err)
			}
			limiter = l
			log.Info("Rate limiting enabled: %d requests per %ds", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
		}
	}

	auth, err := middleware.NewAuth(cfg.Auth.Mode, cfg.Auth.JWTSecret, cfg.Auth.UserIDHeader, log)
	if err != nil {
		log.Fatal("Failed to configure auth: %v", err)
	}
	log.Info("Auth mode: %s", cfg.Auth.Mode)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	bookSlot := bookSlotHandler.NewHandler(bookSlotUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getUserBookings := getUserBookingsHandler.NewHandler(slotsSvc, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1/appointments").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/available", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth)

	protected.HandleFunc("/my-appointments", getUserBookings.Handle).Methods(http.MethodGet)

	// Изменяющие запросы дополнительно ограничены по частоте
	limited := protected.PathPrefix("").Subrouter()
	limited.Use(middleware.RateLimit(limiter, log))

	limited.HandleFunc("/book", bookSlot.Handle).Methods(http.MethodPost)
	limited.HandleFunc("/{id}/cancel", cancelBooking.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор статистики пула
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
