package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"triple/pkg/logger"
	"triple/points-service/internal/app/points/config"
	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/handler"
	"triple/points-service/internal/app/points/infrastructure"
	"triple/points-service/internal/app/points/infrastructure/messaging"
	"triple/points-service/internal/app/points/processor"
	"triple/points-service/internal/app/points/repository"
	"triple/points-service/internal/app/points/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const serviceName = "points-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)
	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Str("database", cfg.Database.DBName).Msg("Connected to PostgreSQL")

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Place{},
		&entity.Review{},
		&entity.ReviewImage{},
		&entity.Point{},
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Кеш сумм не обязателен: без Redis сумма считается в БД
	var pointCache repository.PointCache
	if cfg.Redis.Enabled {
		redisClient, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, point totals will not be cached")
		} else {
			defer redisClient.Close()
			pointCache = repository.NewRedisPointCache(redisClient, cfg.Redis.TotalTTL)
			logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")
		}
	}

	var publisher infrastructure.MessagePublisher
	if cfg.Kafka.ProducerEnabled {
		producer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")
	}

	repos := repository.NewRepositories(db)
	txManager := repository.NewTxManager(db)

	distributor := service.NewDistributor(repos.Users, repos.Reviews, repos.Points, txManager, pointCache)
	reviewService := service.NewReviewService(repos.Reviews, txManager, publisher)
	userService := service.NewUserService(repos.Users)
	placeService := service.NewPlaceService(repos.Places)
	pointService := service.NewPointService(repos.Users, repos.Points, pointCache)
	reconciler := service.NewLevelReconciler(repos.Users, txManager)

	if cfg.Kafka.ConsumerEnabled {
		consumer := processor.NewKafkaConsumer(
			cfg.Kafka.Brokers,
			cfg.Kafka.Topic,
			cfg.Kafka.GroupID,
			cfg.Kafka.MinBytes,
			cfg.Kafka.MaxBytes,
			distributor,
		)
		consumer.Start(ctx)
		defer consumer.Stop()
	}

	if cfg.Cron.ReconcileLevels != "" {
		scheduler := processor.NewCronScheduler(reconciler)
		if err := scheduler.Start(ctx, cfg.Cron.ReconcileLevels); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Cron.ReconcileLevels).Msg("Failed to start cron scheduler")
		}
		defer scheduler.Stop()
	}

	router := handler.SetupRoutes(handler.Handlers{
		Events:  handler.NewEventHandler(distributor),
		Points:  handler.NewPointHandler(pointService),
		Reviews: handler.NewReviewHandler(reviewService),
		Users:   handler.NewUserHandler(userService),
		Places:  handler.NewPlaceHandler(placeService),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Bool("auto_dispatch", cfg.Kafka.ConsumerEnabled).
			Msg("Starting Points Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Points Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Останавливает consumer и cron до закрытия соединений
	cancel()
	logger.Info().Msg("Points Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if err = sqlDB.Ping(); err == nil {
				sqlDB.SetMaxOpenConns(cfg.MaxOpen)
				sqlDB.SetMaxIdleConns(cfg.MaxIdle)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	var err error
	for i := 0; i < 5; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to Redis, retrying...")
		time.Sleep(2 * time.Second)
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to Redis after 5 attempts: %w", err)
}
