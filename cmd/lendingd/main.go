package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"device-lending-backend/config"
	"device-lending-backend/internal/api"
	"device-lending-backend/internal/db"
	"device-lending-backend/internal/model"
	"device-lending-backend/internal/notification"
	"device-lending-backend/internal/rental"
	"device-lending-backend/internal/session"
	"device-lending-backend/internal/store"
	"device-lending-backend/internal/telemetry"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "lending-backend ", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("failed to read .env: %v", err)
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatalf("failed to set up telemetry: %v", err)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB)
	bootstrapAdmin(ctx, logger, appStore, cfg.BootstrapAdmin)

	loc, err := cfg.Rental.Location()
	if err != nil {
		logger.Fatalf("invalid rental timezone %q: %v", cfg.Rental.Timezone, err)
	}
	rentals := rental.NewService(gormDB, rental.Options{
		Location:                loc,
		AuditCheckOut:           cfg.Rental.AuditCheckOut,
		SingleRentalPerBorrower: cfg.Rental.SingleRentalPerBorrower,
		FallbackActor:           cfg.Rental.FallbackActor,
	})

	var sessions session.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Fatalf("failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, cfg.Session.TTL)
		logger.Printf("sessions stored in redis at %s", cfg.Redis.Addr)
	} else {
		sessions = session.NewMemoryStore(cfg.Session.TTL)
		logger.Println("redis not configured; sessions kept in memory")
	}

	deps := api.Deps{
		Store:    appStore,
		Rentals:  rentals,
		Sessions: sessions,
	}

	if cfg.Push.Enabled() {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		workers := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		workers.Start(ctx)
		deps.Notifier = workers
		deps.Webpush = webpushOptions
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured; availability notifications disabled")
	}

	// Initialize router
	router := api.NewRouter(cfg, deps)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server Shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Printf("telemetry shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

// bootstrapAdmin creates the first administrator on an empty user table.
func bootstrapAdmin(ctx context.Context, logger *log.Logger, s store.Store, admin config.BootstrapAdmin) {
	count, err := s.CountUsers(ctx)
	if err != nil {
		logger.Fatalf("failed to count users: %v", err)
	}
	if count > 0 {
		return
	}
	if admin.EmployeeID == "" || admin.Password == "" {
		logger.Println("no users exist and no bootstrap admin password is set; set BOOTSTRAP_ADMIN_PASSWORD to create one")
		return
	}

	name := admin.Name
	if name == "" {
		name = admin.EmployeeID
	}
	if err := s.CreateUser(ctx, &model.User{
		EmployeeID: admin.EmployeeID,
		Name:       name,
		Password:   admin.Password,
		IsAdmin:    true,
	}); err != nil {
		logger.Fatalf("failed to create bootstrap admin: %v", err)
	}
	logger.Printf("bootstrap admin %s created", admin.EmployeeID)
}
