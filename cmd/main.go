package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/auth"
	"github.com/ukydev/saferoute-dashboard/internal/dashboard"
	"github.com/ukydev/saferoute-dashboard/internal/db"
	"github.com/ukydev/saferoute-dashboard/internal/handlers"
	"github.com/ukydev/saferoute-dashboard/internal/hub"
	"github.com/ukydev/saferoute-dashboard/internal/ingest"
	"github.com/ukydev/saferoute-dashboard/internal/middleware"
	"github.com/ukydev/saferoute-dashboard/internal/models"
)

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}
	log.SetFormatter(&log.JSONFormatter{})

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "saferoute"
	}
	database := client.Database(dbName)
	store := db.NewMongoStore(database)
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	cfg := dashboard.DefaultConfig()
	cfg.EmptyScoreDefault = envFloat("EMPTY_SCORE_DEFAULT", cfg.EmptyScoreDefault)
	source := dashboard.NewStoreSource(store, cfg)

	broadcast := hub.New(nil)
	refresher := dashboard.NewRefresher(
		source,
		broadcast,
		time.Duration(envInt("REFRESH_INTERVAL_SECONDS", 30))*time.Second,
		time.Duration(envInt("STORE_TIMEOUT_SECONDS", 10))*time.Second,
	)
	broadcast.SetBaseline(refresher.Last)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go refresher.Run(ctx)

	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		bridge, err := ingest.Connect(broker, store.Alerts, broadcast, refresher)
		if err != nil {
			log.WithError(err).Error("Ingest bridge unavailable, continuing without MQTT")
		} else {
			defer bridge.Close()
		}
	} else {
		log.Info("MQTT_BROKER not set, ingest bridge disabled")
	}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	authHandler := handlers.NewAuthHandler(authService, users)
	dashboardHandler := handlers.NewDashboardHandler(source)
	exportHandler := handlers.NewExportHandler(store)
	wsHandler := handlers.NewWsHandler(broadcast, authService)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	router := mux.NewRouter()
	router.HandleFunc("/health", dashboardHandler.Health).Methods("GET")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	router.Handle("/api/auth/register",
		authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(authHandler.Register))).Methods("POST")
	router.HandleFunc("/api/auth/me", authHandler.Me).Methods("GET")
	router.HandleFunc("/api/dashboard", dashboardHandler.GetSnapshot).Methods("GET")
	router.HandleFunc("/api/dashboard/kpis", dashboardHandler.GetKpis).Methods("GET")
	router.HandleFunc("/api/dashboard/trends/{kind}", dashboardHandler.GetTrend).Methods("GET")
	router.Handle("/api/export/{kind}",
		rateLimiter.RateLimit(10, 60)(
			authMiddleware.RequirePermission("export_records")(http.HandlerFunc(exportHandler.Export)))).Methods("GET")
	router.HandleFunc("/ws", wsHandler.Connect)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: ghandlers.LoggingHandler(os.Stdout, authMiddleware.Authenticate(router)),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.WithField("port", port).Info("Dashboard API listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("Server failed")
	}
}
