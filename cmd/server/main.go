package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sos-service/config"
	"sos-service/internal/api"
	"sos-service/internal/sos"
	"sos-service/internal/user"
	"sos-service/pkg/consul"
	"sos-service/pkg/database"
	"sos-service/pkg/firebase"
	"sos-service/pkg/kafka"
	"sos-service/pkg/metrics"
	"sos-service/pkg/zap"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()
	gin.SetMode(cfg.GinMode)

	logger, err := zap.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	consulConn := consul.NewConsulConn(logger, cfg)
	consulClient := consulConn.Connect()
	defer consulConn.Deregister()

	if err := consul.WaitPassing(consulClient, cfg.DirectoryServiceName, cfg.DependencyWait); err != nil {
		logger.Fatalf("Dependency not ready: %v", err)
	}

	var (
		repo  sos.Repository
		users user.Directory
	)

	switch cfg.DBDriver {
	case "mongo", "mongodb":
		mongoClient, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			logger.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Error(err)
			}
		}()

		db := mongoClient.Database(cfg.MongoDB)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := sos.EnsureIndexes(ctx, db); err != nil {
			logger.Fatalf("Failed to create sos indexes: %v", err)
		}
		if err := user.EnsureUserIndexes(ctx, db.Collection(cfg.UsersCollection)); err != nil {
			logger.Warnf("Failed to create user indexes: %v", err)
		}
		cancel()

		repo = sos.NewMongoRepository(db)
		users = user.NewMongoDirectory(db.Collection(cfg.UsersCollection))
		logger.Info("Successfully connected to MongoDB")

	default:
		db, err := database.OpenSQL(cfg.DBDriver, cfg.SQLDSN)
		if err != nil {
			logger.Fatalf("Failed to open %s database: %v", cfg.DBDriver, err)
		}
		if err := sos.AutoMigrate(db); err != nil {
			logger.Fatalf("Failed to migrate sos tables: %v", err)
		}
		if err := user.AutoMigrate(db); err != nil {
			logger.Fatalf("Failed to migrate users table: %v", err)
		}

		repo = sos.NewSQLRepository(db)
		users = user.NewSQLDirectory(db)
		logger.Infof("Successfully connected to %s", cfg.DBDriver)
	}

	opts := []sos.Option{
		sos.WithLogger(logger),
		sos.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
		sos.WithDefaultRadius(cfg.DefaultRadiusKm),
		sos.WithLeaderboardLimit(cfg.LeaderboardDefaultLimit),
	}

	if cfg.FirebaseCredentials != "" {
		app, err := firebase.SetUpFireBase(cfg.FirebaseCredentials)
		if err != nil {
			logger.Warnf("Push notifications disabled: %v", err)
		} else {
			opts = append(opts, sos.WithNotifier(firebase.NewSender(app)))
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Warnf("Failed to close kafka producer: %v", err)
			}
		}()
		opts = append(opts, sos.WithPublisher(producer))
	}

	sosService := sos.NewSOSService(repo, users, opts...)
	sosHandler := sos.NewSOSHandler(sosService, users)

	router := api.NewRouter(sosHandler, repo, prometheus.DefaultGatherer)

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err = c.AddFunc(cfg.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := sosService.SweepExpired(ctx); err != nil {
			logger.Errorf("SweepExpired finished with errors: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("AddFunc error: %v", err)
	}

	c.Start()
	defer c.Stop()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error shutting down server: %v", err)
	}
	logger.Info("Server stopped")
}
