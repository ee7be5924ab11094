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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	applyBookingActionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/apply_booking_action"
	cancelBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	createBookingSessionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking_session"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getBookingSessionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_booking_session"
	getBusinessHoursHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_business_hours"
	listAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_appointments"
	listServicesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_services"
	rescheduleBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/reschedule_booking"
	searchAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/search_appointments"
	updateBusinessHoursHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_business_hours"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	hoursRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/hours"
	sessionStore "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/session"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-SalonBooking/internal/service/catalog"
	hoursService "github.com/m04kA/SMC-SalonBooking/internal/service/hours"
	sessionsService "github.com/m04kA/SMC-SalonBooking/internal/service/sessions"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/wizard"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/migrations"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

// eventPublisher издатель событий, который нужно закрыть при остановке
type eventPublisher interface {
	Publish(ctx context.Context, eventType events.EventType, appt domain.Appointment) error
	Close() error
}

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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Booking.Timezone, err)
	}
	clock := &wizard.RealTimeProvider{Location: location}
	log.Info("Booking timezone: %s", location)

	// Инициализируем метрики (если включены).
	// С nil-коллектором все вызовы метрик ничего не делают.
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if err := migrations.Up(db, log); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	hoursRepository := hoursRepo.NewRepository(wrappedDB)

	// Хранилище сессий мастера записи
	var store sessionsService.SessionStore
	switch cfg.Sessions.Backend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Sessions.Redis.Addr,
			Password: cfg.Sessions.Redis.Password,
			DB:       cfg.Sessions.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Sessions.Redis.Addr, err)
		}

		store = sessionStore.NewRedisStore(redisClient, cfg.Sessions.TTLDuration())
		log.Info("Booking sessions stored in redis (addr=%s, ttl=%s)", cfg.Sessions.Redis.Addr, cfg.Sessions.TTLDuration())
	default:
		memoryStore := sessionStore.NewMemoryStore(cfg.Sessions.TTLDuration())
		if err := memoryStore.StartJanitor(cfg.Sessions.CleanupSpec, log); err != nil {
			log.Fatal("Failed to start session janitor: %v", err)
		}
		defer memoryStore.Close()

		store = memoryStore
		log.Info("Booking sessions stored in memory (ttl=%s, cleanup=%s)", cfg.Sessions.TTLDuration(), cfg.Sessions.CleanupSpec)
	}

	// Издатель событий о записях
	var publisher eventPublisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, log)
		log.Info("Appointment events published to kafka (brokers=%v, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	}
	defer publisher.Close()

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(catalogRepository, log)
	hoursSvc := hoursService.NewService(hoursRepository, log)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, publisher, txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		hoursRepository,
		publisher,
		metricsCollector,
		txMgr,
		clock,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		hoursRepository,
		publisher,
		metricsCollector,
		txMgr,
		clock,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		hoursRepository,
		metricsCollector,
		clock,
		log,
	)

	// Мастер записи
	gateway := sessionsService.NewGateway(
		catalogSvc,
		hoursSvc,
		appointmentRepository,
		appointmentsSvc,
		createBookingUseCase,
		rescheduleBookingUseCase,
		clock,
	)
	sessionsSvc := sessionsService.NewService(
		store,
		gateway,
		wizard.Options{
			IdentityLabel: cfg.Booking.IdentityLabel,
			SubmitTimeout: cfg.Booking.SubmitTimeoutDuration(),
		},
		metricsCollector,
		clock,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(appointmentsSvc, log)
	searchAppointments := searchAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(hoursSvc, log)
	updateBusinessHours := updateBusinessHoursHandler.NewHandler(hoursSvc, log)
	createBookingSession := createBookingSessionHandler.NewHandler(sessionsSvc, log)
	getBookingSession := getBookingSessionHandler.NewHandler(sessionsSvc, log)
	applyBookingAction := applyBookingActionHandler.NewHandler(sessionsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (X-User-ID не обязателен)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	// --- Публичная ссылка мастера ---
	public.HandleFunc("/owners/{ownerId}/services", listServices.Handle).Methods(http.MethodGet)
	public.HandleFunc("/owners/{ownerId}/business-hours", getBusinessHours.Handle).Methods(http.MethodGet)
	public.HandleFunc("/owners/{ownerId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Записи клиента ---
	public.HandleFunc("/owners/{ownerId}/appointments", createBooking.Handle).Methods(http.MethodPost)
	public.HandleFunc("/owners/{ownerId}/appointments/search", searchAppointments.Handle).Methods(http.MethodGet)
	public.HandleFunc("/owners/{ownerId}/appointments/{appointmentId}/reschedule",
		rescheduleBooking.Handle).Methods(http.MethodPatch)
	public.HandleFunc("/owners/{ownerId}/appointments/{appointmentId}/cancel",
		cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Мастер записи ---
	public.HandleFunc("/owners/{ownerId}/booking-sessions", createBookingSession.HandlePublic).Methods(http.MethodPost)
	public.HandleFunc("/booking-sessions/{sessionId}", getBookingSession.Handle).Methods(http.MethodGet)
	public.HandleFunc("/booking-sessions/{sessionId}/actions", applyBookingAction.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header, пользователь = мастер)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/business-hours", updateBusinessHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/booking-sessions", createBookingSession.HandleOperator).Methods(http.MethodPost)

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
