package container

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tripnest/server/internal/config"
	"github.com/tripnest/server/internal/gateway"
	"github.com/tripnest/server/internal/models"
	"github.com/tripnest/server/internal/notify"
	"github.com/tripnest/server/internal/services"
	"github.com/tripnest/server/internal/worker"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	gatewayTimeout    = 15 * time.Second
	gatewayMaxRetries = 2
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	MongoDBClient *mongo.Client
	RedisClient   *redis.Client

	ListingService *services.ListingService
	BookingService *services.BookingService
	PaymentService *services.PaymentService

	NotificationWorker *notify.Worker
	Reconciler         *worker.Reconciler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, mongoDBClient *mongo.Client, redisClient *redis.Client) *Container {
	repo := models.MongodbNewRepo(mongoDBClient)

	chapa := gateway.NewChapaClient(cfg.ChapaBaseURL, cfg.ChapaSecretKey, gatewayTimeout, gatewayMaxRetries)

	paymentService := services.NewPaymentService(repo, chapa, services.PaymentConfig{
		Currency:    cfg.PaymentCurrency,
		CallbackURL: cfg.VerifyCallbackURL(),
		ReturnURL:   cfg.PaymentReturnURL,
	}, logger)

	dispatcher := notify.NewDispatcher(redisClient)
	listingService := services.NewListingService(repo)
	bookingService := services.NewBookingService(repo, repo, paymentService, dispatcher, logger)

	var mailer notify.Mailer
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		mailer = notify.NewLogMailer(logger)
	}
	notificationWorker := notify.NewWorker(redisClient, repo, repo, mailer, logger)

	reconciler := worker.NewReconciler(repo, paymentService, cfg.ReconcileInterval, cfg.ReconcileAfter, logger)

	return &Container{
		Config:             cfg,
		Logger:             logger,
		MongoDBClient:      mongoDBClient,
		RedisClient:        redisClient,
		ListingService:     listingService,
		BookingService:     bookingService,
		PaymentService:     paymentService,
		NotificationWorker: notificationWorker,
		Reconciler:         reconciler,
	}
}
