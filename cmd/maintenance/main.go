package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/qiro-dev/facility-maintenance/internal/conflict"
	conflictRepo "github.com/qiro-dev/facility-maintenance/internal/conflict/repository"
	"github.com/qiro-dev/facility-maintenance/internal/directory"
	inventoryDelivery "github.com/qiro-dev/facility-maintenance/internal/inventory/delivery/http"
	inventorydomain "github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
	inventoryRepo "github.com/qiro-dev/facility-maintenance/internal/inventory/repository"
	inventoryCommand "github.com/qiro-dev/facility-maintenance/internal/inventory/usecase/command"
	inventoryQuery "github.com/qiro-dev/facility-maintenance/internal/inventory/usecase/query"
	scheduleDelivery "github.com/qiro-dev/facility-maintenance/internal/schedule/delivery/http"
	scheduledomain "github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	scheduleRepo "github.com/qiro-dev/facility-maintenance/internal/schedule/repository"
	scheduleCommand "github.com/qiro-dev/facility-maintenance/internal/schedule/usecase/command"
	scheduleQuery "github.com/qiro-dev/facility-maintenance/internal/schedule/usecase/query"
	workorderDelivery "github.com/qiro-dev/facility-maintenance/internal/workorder/delivery/http"
	workorderdomain "github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	workorderRepo "github.com/qiro-dev/facility-maintenance/internal/workorder/repository"
	workorderCommand "github.com/qiro-dev/facility-maintenance/internal/workorder/usecase/command"
	workorderQuery "github.com/qiro-dev/facility-maintenance/internal/workorder/usecase/query"
	"github.com/qiro-dev/facility-maintenance/kafka"
	"github.com/qiro-dev/facility-maintenance/pkg/cache"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/database"
	"github.com/qiro-dev/facility-maintenance/pkg/httpx"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
	"github.com/qiro-dev/facility-maintenance/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "maintenance-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting maintenance service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "maintenancedb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	err = db.AutoMigrate(
		&directory.Asset{},
		&directory.User{},
		&workorderdomain.WorkOrder{},
		&scheduledomain.MaintenancePlan{},
		&scheduledomain.MaintenanceSchedule{},
		&inventorydomain.Stock{},
		&inventorydomain.DeductionLog{},
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Read-side cache; the service degrades to uncached reads without Redis
	redisCache := cache.New(
		getEnv("REDIS_ADDR", "localhost:6379"),
		getEnv("REDIS_PASSWORD", ""),
		0,
	)
	defer redisCache.Close()

	// Kafka publisher; lifecycle events degrade to no-ops without brokers
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	var notifier workorderdomain.Notifier = workorderdomain.NopNotifier{}
	publisher, err := kafka.NewPublisher(brokers)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka unavailable, lifecycle events disabled")
	} else {
		defer publisher.Close()
		notifier = kafka.NewNotifier(publisher)
	}

	// Repositories
	workOrders := workorderRepo.NewGormWorkOrderRepositoryWithTracing(db)
	ledger := inventoryRepo.NewGormLedgerRepositoryWithTracing(db)
	plans := scheduleRepo.NewGormPlanRepository(db)
	schedules := scheduleRepo.NewGormScheduleRepository(db)
	assets := directory.NewGormAssetDirectory(db)
	users := directory.NewGormUserDirectory(db)

	detector := conflict.NewDetector(conflictRepo.NewGormBookingSource(db))
	clk := clock.System()

	// Work order handlers
	workOrderHandler := workorderDelivery.NewWorkOrderHandler(
		workorderCommand.NewCreateWorkOrderHandler(workOrders, assets),
		workorderCommand.NewApproveWorkOrderHandler(workOrders),
		workorderCommand.NewRejectWorkOrderHandler(workOrders),
		workorderCommand.NewAssignWorkerHandler(workOrders, users, assets, detector, notifier, clk),
		workorderCommand.NewUpdateStatusHandler(workOrders, clk),
		workorderCommand.NewUpdateProgressHandler(workOrders),
		workorderCommand.NewPauseWorkOrderHandler(workOrders, clk),
		workorderCommand.NewResumeWorkOrderHandler(workOrders, clk),
		workorderCommand.NewCompleteWorkOrderHandler(workOrders, notifier, clk),
		workorderCommand.NewCancelWorkOrderHandler(workOrders),
		workorderQuery.NewGetWorkOrderHandler(workOrders),
		workorderQuery.NewListWorkOrdersHandler(workOrders),
		workorderQuery.NewGetStatisticsHandler(workOrders),
	)

	// Schedule handlers
	scheduleHandler := scheduleDelivery.NewScheduleHandler(
		scheduleCommand.NewCreatePlanHandler(plans),
		scheduleCommand.NewAutoGenerateHandler(plans, schedules, clk),
		scheduleCommand.NewCreateScheduleHandler(schedules),
		scheduleCommand.NewUpdateScheduleHandler(schedules),
		scheduleCommand.NewCancelScheduleHandler(schedules),
		scheduleCommand.NewRescheduleHandler(schedules, detector),
		scheduleCommand.NewAssignScheduleHandler(schedules),
		scheduleCommand.NewUpdatePriorityHandler(schedules),
		scheduleQuery.NewGetScheduleHandler(schedules, clk),
		scheduleQuery.NewListSchedulesHandler(schedules, clk),
		scheduleQuery.NewCalendarViewHandler(schedules, redisCache, clk),
		scheduleQuery.NewStatisticsHandler(schedules, redisCache),
		scheduleQuery.NewCheckConflictsHandler(detector),
		scheduleQuery.NewOptimizationHandler(schedules),
	)

	// Inventory handlers
	inventoryHandler := inventoryDelivery.NewInventoryHandler(
		inventoryCommand.NewDeductStockHandler(ledger),
		inventoryCommand.NewReverseDeductionHandler(ledger),
		inventoryCommand.NewUpsertStockHandler(ledger),
		inventoryQuery.NewGetByWorkOrderHandler(ledger),
		inventoryQuery.NewGetByMaterialHandler(ledger),
		inventoryQuery.NewGetStatisticsHandler(ledger),
		inventoryQuery.NewLowStockAlertsHandler(ledger),
	)

	// Fault intake: fault-reported events become corrective work orders
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	startFaultConsumer(consumerCtx, brokers,
		workorderCommand.NewCreateWorkOrderHandler(workOrders, assets))

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(workOrderHandler, scheduleHandler, inventoryHandler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(
	workOrderHandler *workorderDelivery.WorkOrderHandler,
	scheduleHandler *scheduleDelivery.ScheduleHandler,
	inventoryHandler *inventoryDelivery.InventoryHandler,
	db *sql.DB,
	port string,
) {
	// Setup router
	router := mux.NewRouter()

	router.Use(
		httpx.Recovery(),
		httpx.RequestID(),
		httpx.Timeout(30*time.Second),
		httpx.Tracing("maintenance.request"),
		httpx.Logging(),
		httpx.Metrics(),
		httpx.Auth("/health", "/metrics", "/swagger"),
	)

	// Register routes
	workOrderHandler.RegisterRoutes(router)
	scheduleHandler.RegisterRoutes(router)
	inventoryHandler.RegisterRoutes(router)

	// Health check endpoint
	httpx.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	workorderDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Str("swagger_endpoint", "/swagger/index.html").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func startFaultConsumer(ctx context.Context, brokers []string, createHandler *workorderCommand.CreateWorkOrderHandler) {
	consumer, err := kafka.NewConsumer(brokers, "maintenance-service", []string{kafka.TopicFaultReported})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka unavailable, fault intake disabled")
		return
	}

	consumer.RegisterHandler(kafka.EventTypeFaultReported, func(ctx context.Context, event kafka.FaultReportedEvent) error {
		faultReportID := event.FaultReportID
		_, err := createHandler.Handle(ctx, workorderCommand.CreateWorkOrderCommand{
			CompanyID:     event.CompanyID,
			Title:         event.Title,
			Description:   event.Description,
			Category:      workorderdomain.CategoryCorrective,
			Priority:      workorderdomain.PriorityFromFaultSeverity(event.Severity),
			AssetID:       event.AssetID,
			Location:      event.Location,
			FaultReportID: &faultReportID,
			RequestedBy:   event.ReportedBy,
		})
		return err
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to start fault consumer")
	}

	go func() {
		<-ctx.Done()
		consumer.Close()
	}()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
