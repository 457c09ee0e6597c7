package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/fire22/compliance-backend/internal/config"
	"github.com/fire22/compliance-backend/internal/database"
	"github.com/fire22/compliance-backend/internal/handlers"
	"github.com/fire22/compliance-backend/internal/jobs"
	"github.com/fire22/compliance-backend/internal/middleware"
	"github.com/fire22/compliance-backend/internal/queue"
	"github.com/fire22/compliance-backend/internal/routes"
	"github.com/fire22/compliance-backend/internal/services/compliance"
)

func main() {
	cfg := config.New()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Notification pipeline: services enqueue, the worker delivers.
	notificationQueue := queue.NewNotificationQueue(redisClient)
	notifier := queue.NewNotifier(notificationQueue)
	notificationWorker := queue.NewWorker(notificationQueue, queue.LogDelivery)
	notificationWorker.Start()

	store := compliance.NewGormStore(db)
	gatherers := compliance.DefaultGatherers(store, cfg.Compliance.LEICode)

	alertService := compliance.NewAlertService(store, notifier, cfg.Compliance.EscalationAssignee)
	reportService := compliance.NewReportService(store, gatherers, cfg.Compliance.CollaboratorTimeout)
	filingService := compliance.NewFilingService(store, compliance.NoopPreparer{}, compliance.LogGateway{}, cfg.Compliance.CollaboratorTimeout)
	checker := compliance.NewTransactionChecker(cfg.Compliance, alertService, noMatchLookup{}, noMatchLookup{})
	scheduleService := compliance.NewScheduleService(store, reportService, filingService, notifier)

	if err := scheduleService.InitializeSchedules("US"); err != nil {
		log.Fatalf("Failed to initialize schedules: %v", err)
	}

	tickJob := jobs.NewScheduleTickJob(scheduleService, cfg.Scheduler.TickInterval)
	if err := tickJob.Start(); err != nil {
		log.Fatalf("Failed to start schedule tick: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	rateLimiter := middleware.NewRateLimiter(20, 40)
	complianceHandler := handlers.NewComplianceHandler(reportService, filingService, alertService, checker, scheduleService, store)
	routes.RegisterRoutes(router, complianceHandler, rateLimiter)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Fire22 compliance API running on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	tickJob.Stop()
	notificationWorker.Stop()
	rateLimiter.Stop()
	if err := redisClient.Close(); err != nil {
		log.Printf("Failed to close redis client: %v", err)
	}
}

// noMatchLookup is the development screening stub: no customer ever
// matches. Production deployments wire real PEP and sanctions
// providers here.
type noMatchLookup struct{}

func (noMatchLookup) Check(ctx context.Context, customerID string) (*compliance.MatchDetails, error) {
	return nil, nil
}
