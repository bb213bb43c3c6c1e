package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"docutrack/internal/app"
	"docutrack/internal/cache"
	"docutrack/internal/config"
	"docutrack/internal/model"
	"docutrack/internal/platform/mysql"
	"docutrack/internal/platform/rabbitmq"
	"docutrack/internal/platform/redis"
	"docutrack/internal/repository"
	httptransport "docutrack/internal/transport/http"
	"docutrack/internal/transport/http/handler"
	"docutrack/internal/worker"
)

// staff handle the deadline queue, so the reminder job writes to their inbox.
const reminderRecipient = "staff@company.com"

// App wires configuration, storage, cache, queue, services and the HTTP
// router. Memory storage mode runs without MySQL, Redis or RabbitMQ so the
// service can start with no backing infrastructure at all.
type App struct {
	Config *config.Config
	Router *gin.Engine

	DB    *gorm.DB
	Redis *redisv9.Client
	MQ    *amqp.Connection

	persistWorker *worker.NotificationPersistWorker
	reminder      *worker.DeadlineReminder
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.App.Env == "prod" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	gin.SetMode(cfg.App.GinMode)

	a := &App{Config: cfg}

	var (
		documentStore     app.DocumentStore
		userStore         app.UserStore
		notificationStore app.NotificationStore
	)

	switch cfg.App.Storage {
	case "memory":
		logrus.Info("storage mode: memory, skipping mysql/redis/rabbitmq")
		documentStore = repository.NewMemoryDocumentStore()
		userStore = repository.NewMemoryUserStore()
		notificationStore = repository.NewMemoryNotificationStore()
	case "mysql":
		db, err := mysql.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		a.DB = db
		if err := db.AutoMigrate(
			&model.User{},
			&model.Document{},
			&model.DocumentVersion{},
			&model.Notification{},
		); err != nil {
			a.Close()
			return nil, fmt.Errorf("auto migrate failed: %w", err)
		}
		documentStore = repository.NewDocumentRepository(db)
		userStore = repository.NewUserRepository(db)
		notificationStore = repository.NewNotificationRepository(db)

		redisClient, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = redisClient

		mqConn, err := rabbitmq.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.MQ = mqConn
	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.App.Storage)
	}

	var documentCache app.DocumentCache
	if a.Redis != nil {
		ttl := time.Duration(cfg.Redis.DocumentTTLSeconds) * time.Second
		documentCache = cache.NewDocumentCache(a.Redis, ttl)
	}

	var publisher app.EventPublisher
	if a.MQ != nil {
		publisher = rabbitmq.NewNotificationPublisher(a.MQ, cfg.RabbitMQ.NotificationPersistQueue)
	}

	notificationService := app.NewNotificationService(notificationStore, publisher)
	documentService := app.NewDocumentService(documentStore, documentCache, notificationService)
	authService := app.NewAuthService(userStore, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute)
	reportService := app.NewReportService(documentStore)

	if a.MQ != nil {
		a.persistWorker = worker.NewNotificationPersistWorker(a.MQ, notificationStore, cfg.RabbitMQ.NotificationPersistQueue)
		if err := a.persistWorker.Start(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.Reminder.Enabled {
		a.reminder = worker.NewDeadlineReminder(documentStore, notificationService, reminderRecipient, cfg.Reminder.Schedule, cfg.Reminder.WindowDays)
		if err := a.reminder.Start(); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Router = httptransport.NewRouter(httptransport.RouterDeps{
		JWTSecret:     cfg.Auth.JWTSecret,
		Auth:          authService,
		Documents:     documentService,
		Notifications: notificationService,
		Reports:       reportService,
		Health:        handler.NewHealthHandler(a.DB, a.Redis, a.MQ),
	})

	return a, nil
}

// Close releases resources in reverse start order. Safe to call on a
// partially constructed App.
func (a *App) Close() {
	if a.reminder != nil {
		a.reminder.Stop()
	}
	if a.persistWorker != nil {
		a.persistWorker.Close()
	}
	if a.MQ != nil {
		if err := a.MQ.Close(); err != nil {
			logrus.Warnf("close rabbitmq failed: %v", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logrus.Warnf("close redis failed: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logrus.Warnf("close mysql failed: %v", err)
			}
		}
	}
}
