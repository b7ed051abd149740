package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/harentsoaR/pregnancy-care-api/internal/config"
	"github.com/harentsoaR/pregnancy-care-api/internal/handlers"
	"github.com/harentsoaR/pregnancy-care-api/internal/jobs"
	"github.com/harentsoaR/pregnancy-care-api/internal/middleware"
	"github.com/harentsoaR/pregnancy-care-api/internal/services"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := utils.InitLogger(cfg.LogLevel, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer utils.Zlog.Sync() //nolint:errcheck

	if cfg.Debug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		utils.Zlog.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		utils.Zlog.Fatal("MongoDB is unreachable", zap.Error(err))
	}
	db := client.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		utils.Zlog.Fatal("failed to create indexes", zap.Error(err))
	}
	utils.Zlog.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	stores := store.New(db)

	// --- Services ---
	notificationSvc := services.NewNotificationService(cfg.TextbeltAPIKey)
	if cfg.TextbeltAPIKey == "" {
		utils.Zlog.Warn("TEXTBELT_API_KEY not set, SMS notifications are disabled")
	}
	var assistant handlers.Assistant
	if cfg.GeminiAPIKey != "" {
		assistant = services.NewGeminiAssistant(cfg.GeminiAPIKey)
	} else {
		utils.Zlog.Warn("GEMINI_API_KEY not set, /api/chat will answer 503")
	}

	tokens := utils.NewJWTManager(cfg.JwtSecret, cfg.JwtExpire)
	h := handlers.NewHandler(stores, tokens, notificationSvc, assistant, cfg.Debug())

	reminders := jobs.NewReminderJob(stores.Appointments, stores.Users, notificationSvc)
	if err := reminders.Start(cfg.ReminderSchedule); err != nil {
		utils.Zlog.Fatal("failed to schedule reminders", zap.Error(err))
	}

	// --- Gin Router ---
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Zlog.Info("starting server", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Zlog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Zlog.Error("graceful shutdown failed", zap.Error(err))
	}
	select {
	case <-reminders.Stop().Done():
	case <-shutdownCtx.Done():
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		utils.Zlog.Error("MongoDB disconnect failed", zap.Error(err))
	}
}
