package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/httplog/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	appHTTP "github.com/cmlabs-hris/hris-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/cloud"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/geo"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-payroll-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-payroll-go/internal/service/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hris-payroll-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	recapService "github.com/cmlabs-hris/hris-payroll-go/internal/service/recap"
	sessionService "github.com/cmlabs-hris/hris-payroll-go/internal/service/session"
)

// repositories is one storage backend's set of repositories.
type repositories struct {
	transactor   database.Transactor
	employees    employee.EmployeeRepository
	attendances  attendance.AttendanceRepository
	leaves       leave.LeaveRequestRepository
	workSessions session.WorkSessionRepository
	realizations session.RealizationRepository
	recaps       recap.RecapRepository
	payrolls     payroll.PayrollRepository
	close        func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.Telemetry.ServiceName),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx := context.Background()

	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Error("failed to shut down tracer", "error", err)
			}
		}()
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	// AWS is only configured when something needs it
	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg == nil {
			c, err := cloud.NewAWSConfig(ctx, cloud.Options{Region: cfg.AWS.Region, Endpoint: cfg.AWS.Endpoint})
			if err != nil {
				return aws.Config{}, err
			}
			awsCfg = &c
		}
		return *awsCfg, nil
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("initializing local storage: %w", err)
		}
	case "s3":
		c, err := loadAWS()
		if err != nil {
			return err
		}
		fileStorage = storage.NewS3Storage(c, cfg.Storage.S3Bucket)
	}

	var publisher messaging.Publisher = messaging.NewLogPublisher(logger)
	if cfg.Messaging.SQSQueueURL != "" {
		c, err := loadAWS()
		if err != nil {
			return err
		}
		publisher = messaging.NewSQSPublisher(sqs.NewFromConfig(c), cfg.Messaging.SQSQueueURL)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	fileService := file.NewFileService(fileStorage)

	attendanceSvc := attendanceService.NewAttendanceService(
		repos.transactor,
		repos.attendances,
		repos.employees,
		fileService,
		attendanceService.Geofence{
			Reference: geo.Point{Latitude: cfg.Geofence.Latitude, Longitude: cfg.Geofence.Longitude},
			Band:      geo.Band{Min: cfg.Geofence.MinRadiusMeters, Max: cfg.Geofence.MaxRadiusMeters},
		},
	)
	leaveSvc := leaveService.NewLeaveService(repos.transactor, repos.leaves, repos.employees, attendanceSvc)
	sessionSvc := sessionService.NewSessionService(repos.transactor, repos.workSessions, repos.realizations, repos.employees)
	recapSvc := recapService.NewRecapService(
		repos.transactor,
		repos.recaps,
		repos.employees,
		repos.attendances,
		repos.leaves,
		repos.realizations,
	)
	payrollSvc := payrollService.NewPayrollService(
		repos.transactor,
		repos.payrolls,
		repos.recaps,
		repos.employees,
		publisher,
		payroll.Policy{StandardWorkingDays: cfg.Payroll.StandardWorkingDays, Currency: cfg.Payroll.Currency},
	)

	scheduler := cron.NewScheduler(logger)
	scheduler.AddJob("recap-refresh", cfg.Recap.RefreshInterval, cron.RecapRefreshJob(recapSvc, nil, logger))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, appHTTP.Handlers{
		Employee:   appHTTP.NewEmployeeHandler(employeeService.NewEmployeeService(repos.employees)),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Session:    appHTTP.NewSessionHandler(sessionSvc),
		Recap:      appHTTP.NewRecapHandler(recapSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc, fileService),
	})

	var handler http.Handler = router
	if cfg.Telemetry.OTLPEndpoint != "" {
		handler = otelhttp.NewHandler(router, "api")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.App.Port, "db_driver", cfg.Database.Driver, "storage", cfg.Storage.Type)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	if cfg.Database.Driver == "memory" {
		slog.Warn("using in-memory storage, data is lost on exit")
		store := memory.NewStore()
		return repositories{
			transactor:   store,
			employees:    memory.NewEmployeeRepository(store),
			attendances:  memory.NewAttendanceRepository(store),
			leaves:       memory.NewLeaveRequestRepository(store),
			workSessions: memory.NewWorkSessionRepository(store),
			realizations: memory.NewRealizationRepository(store),
			recaps:       memory.NewRecapRepository(store),
			payrolls:     memory.NewPayrollRepository(store),
			close:        func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return repositories{}, fmt.Errorf("connecting to database: %w", err)
	}
	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return repositories{}, err
	}

	return repositories{
		transactor:   postgresql.NewTransactor(db),
		employees:    postgresql.NewEmployeeRepository(db),
		attendances:  postgresql.NewAttendanceRepository(db),
		leaves:       postgresql.NewLeaveRequestRepository(db),
		workSessions: postgresql.NewWorkSessionRepository(db),
		realizations: postgresql.NewRealizationRepository(db),
		recaps:       postgresql.NewRecapRepository(db),
		payrolls:     postgresql.NewPayrollRepository(db),
		close:        db.Close,
	}, nil
}
