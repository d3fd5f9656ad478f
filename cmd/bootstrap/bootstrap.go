package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/delivery/dto"
	deliveryHttp "clinic-booking/internal/delivery/http"
	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/infrastructure/cache"
	"clinic-booking/internal/infrastructure/database"
	"clinic-booking/internal/repository"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/jwt"
	"clinic-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Sweeper     *service.NoShowSweeper
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if cfg.DB.AutoMigrate {
		if err := Migrate(cfg, func(m *database.Migrator) error { return m.Up() }); err != nil {
			return nil, err
		}
		logrus.Info("Database migrations applied")
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server, app.Sweeper = initializeServer(cfg, db, redisClient)

	return app, nil
}

// SetupLogger configures the logrus logger
func SetupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// Migrate opens the embedded migration source and runs fn against it.
func Migrate(cfg *config.Config, fn func(m *database.Migrator) error) error {
	migrator, err := database.NewMigrator(cfg.DB)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return fn(migrator)
}

// CreateAdmin inserts an admin account. Admins cannot self-register over HTTP.
func CreateAdmin(ctx context.Context, cfg *config.Config, req *dto.CreateAdminRequest) (*dto.UserResponse, error) {
	if err := validator.NewValidator().Validate(req); err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(cfg.DB, true)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	log := logrus.StandardLogger()
	authUsecase := usecase.NewAuthUsecase(
		db,
		repository.NewTransactor(db),
		log,
		repository.NewUserRepository(),
		repository.NewRoleRepository(),
		repository.NewDoctorProfileRepository(),
		repository.NewPatientProfileRepository(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
		jwt.NewJWTService(cfg.JWT),
		nil,
	)

	return authUsecase.CreateAdmin(ctx, req)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.NoShowSweeper) {
	log := logrus.StandardLogger()
	location := cfg.Clinic.Location

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Repositories
	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	availabilityRepo := repository.NewDoctorAvailabilityRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	invoiceRepo := repository.NewInvoiceRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	feedbackRepo := repository.NewFeedbackRepository()
	revenueCostRepo := repository.NewRevenueCostRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewTokenStore(redisClient)
	capacityService := service.NewCapacityService(redisClient, log)
	sweeper := service.NewNoShowSweeper(transactor, log, appointmentRepo, auditService, location, cfg.Clinic.NoShowGraceDays)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(db, transactor, log, userRepo, roleRepo, doctorProfileRepo, patientProfileRepo, auditService, jwtService, tokenStore)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, transactor, log, userRepo, doctorProfileRepo, auditService, tokenStore)
	doctorScheduleUsecase := usecase.NewDoctorScheduleUsecase(db, transactor, log, availabilityRepo, auditService, capacityService)
	patientProfileUsecase := usecase.NewPatientProfileUsecase(db, transactor, log, userRepo, patientProfileRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, transactor, log, appointmentRepo, doctorProfileRepo, invoiceRepo, auditService, capacityService, location)
	invoiceUsecase := usecase.NewInvoiceUsecase(db, transactor, log, invoiceRepo, auditService, location)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, transactor, log, prescriptionRepo, appointmentRepo, auditService)
	feedbackUsecase := usecase.NewFeedbackUsecase(db, transactor, log, feedbackRepo, appointmentRepo, auditService)
	revenueCostUsecase := usecase.NewRevenueCostUsecase(db, transactor, log, revenueCostRepo, auditService, location)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	handlers := deliveryHttp.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase, customValidator),
		Appointment:    handler.NewAppointmentHandler(appointmentUsecase, doctorProfileUsecase, customValidator),
		Doctor:         handler.NewDoctorHandler(doctorProfileUsecase, invoiceUsecase, customValidator),
		DoctorSchedule: handler.NewDoctorScheduleHandler(doctorScheduleUsecase, customValidator),
		Patient:        handler.NewPatientHandler(patientProfileUsecase, customValidator),
		Invoice:        handler.NewInvoiceHandler(invoiceUsecase),
		Prescription:   handler.NewPrescriptionHandler(prescriptionUsecase, customValidator),
		Feedback:       handler.NewFeedbackHandler(feedbackUsecase, customValidator),
		RevenueCost:    handler.NewRevenueCostHandler(revenueCostUsecase, customValidator),
		AuditLog:       handler.NewAuditLogHandler(auditLogUsecase),
	}

	router := deliveryHttp.NewRouter(
		handlers,
		middleware.NewAuthMiddleware(jwtService, tokenStore, log),
		middleware.NewCORSMiddleware(cfg.App.AllowedOrigins),
		middleware.NewLoggingMiddleware(log),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server, sweeper
}

// Run starts the HTTP server and the no-show job, then blocks until shutdown.
func (app *App) Run() error {
	if err := app.Sweeper.Start(app.Config.Clinic.NoShowCron); err != nil {
		app.Close()
		return fmt.Errorf("failed to start no-show job: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	return app.waitForShutdown(serverErr)
}

// waitForShutdown blocks until an interrupt signal is received or the server fails
func (app *App) waitForShutdown(serverErr <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-serverErr:
		logrus.Errorf("Server failed: %v", runErr)
	}

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Sweeper.Stop()
	app.Close()

	logrus.Info("Server shutdown complete")
	return runErr
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
