// cmd/marketplace-api/main.go
package main

import (
	"context"
	"net/http"
	"time"

	zlog "github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/klausterra/alpha-se-1/internal/pkg/auth"
	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/database"
	"github.com/klausterra/alpha-se-1/internal/pkg/mq"
	"github.com/klausterra/alpha-se-1/internal/pkg/platform"
	"github.com/klausterra/alpha-se-1/internal/pkg/redis"

	accountapp "github.com/klausterra/alpha-se-1/internal/service/account/application"
	accountinfra "github.com/klausterra/alpha-se-1/internal/service/account/infrastructure"
	accounthttp "github.com/klausterra/alpha-se-1/internal/service/account/interfaces"
	adminapp "github.com/klausterra/alpha-se-1/internal/service/admin/application"
	adminadapter "github.com/klausterra/alpha-se-1/internal/service/admin/infrastructure/adapter"
	adminhttp "github.com/klausterra/alpha-se-1/internal/service/admin/interfaces"
	chatapp "github.com/klausterra/alpha-se-1/internal/service/chat/application"
	chatinfra "github.com/klausterra/alpha-se-1/internal/service/chat/infrastructure"
	chatadapter "github.com/klausterra/alpha-se-1/internal/service/chat/infrastructure/adapter"
	chathttp "github.com/klausterra/alpha-se-1/internal/service/chat/interfaces"
	listingapp "github.com/klausterra/alpha-se-1/internal/service/listing/application"
	listinginfra "github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure"
	"github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure/rule"
	listinghttp "github.com/klausterra/alpha-se-1/internal/service/listing/interfaces"
	notificationapp "github.com/klausterra/alpha-se-1/internal/service/notification/application"
	notificationinfra "github.com/klausterra/alpha-se-1/internal/service/notification/infrastructure"
	notificationadapter "github.com/klausterra/alpha-se-1/internal/service/notification/infrastructure/adapter"
	notificationhttp "github.com/klausterra/alpha-se-1/internal/service/notification/interfaces"
	paymentapp "github.com/klausterra/alpha-se-1/internal/service/payment/application"
	paymentadapter "github.com/klausterra/alpha-se-1/internal/service/payment/infrastructure/adapter"
	paymenthttp "github.com/klausterra/alpha-se-1/internal/service/payment/interfaces"
	referralapp "github.com/klausterra/alpha-se-1/internal/service/referral/application"
	referralinfra "github.com/klausterra/alpha-se-1/internal/service/referral/infrastructure"
	referraladapter "github.com/klausterra/alpha-se-1/internal/service/referral/infrastructure/adapter"
	referralhttp "github.com/klausterra/alpha-se-1/internal/service/referral/interfaces"
)

const serviceName = "marketplace-api"

var tracer = otel.Tracer(serviceName)

// main is the composition root of the HTTP API: it builds every bounded
// context and mounts them behind the session gate.
func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:      serviceName,
		RegisterHandlers: wire,
	})
}

func wire(appCtx bootstrap.AppCtx) error {
	cfg := appCtx.Config
	flags := cfg.App.FeatureFlags
	clk := clock.System(cfg.Location())

	// 1. Storage
	db, err := database.OpenFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		return err
	}
	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addrs, cfg.Infra.Redis.Password)
	if err != nil {
		return err
	}
	appCtx.Lifecycle.OnStop(func(context.Context) { _ = redisClient.Close() })

	// 2. Kafka producers
	brokers := cfg.Infra.Kafka.Brokers
	notificationsWriter := writer(appCtx, brokers, mq.TopicNotifications)
	chatWriter := writer(appCtx, brokers, mq.TopicChatMessages)
	paymentsWriter := writer(appCtx, brokers, mq.TopicPayments)
	paymentsDLT := writer(appCtx, brokers, mq.DLTTopic(mq.TopicPayments))

	// 3. Shared clients
	platformClient := platform.NewClient(cfg.Platform.BaseURL, cfg.Platform.APIKey).WithTimeout(cfg.Platform.Timeout)
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// 4. Bounded contexts
	notifications := notificationapp.NewNotificationService(
		notificationinfra.NewGormTemplateRepository(db),
		notificationadapter.NewKafkaJobQueue(notificationsWriter),
		redisClient, clk, tracer,
		notificationapp.Options{AdminEmail: cfg.App.AdminEmail},
	)
	if err := notifications.SeedDefaults(context.Background()); err != nil {
		return err
	}

	partnerRepo := referralinfra.NewGormPartnerRepository(db)
	accounts := accountapp.NewAccountService(
		accountinfra.NewGormUserRepository(db),
		notifications,
		referraladapter.NewPartnerDirectory(partnerRepo),
		clk, tracer,
		accountapp.Options{WelcomeEmail: flags.WelcomeEmail, AdminSignupNotice: flags.AdminSignupNotice},
	)

	policy, err := rule.NewCELPolicy(cfg.App.ListingVisibility)
	if err != nil {
		return err
	}
	listings := listingapp.NewListingService(listinginfra.NewGormListingRepository(db), policy, platformClient, clk, tracer)

	limiter, err := chatadapter.NewRedisRateLimiter(redisClient, int(cfg.App.MessagesPerMinute), time.Minute)
	if err != nil {
		return err
	}
	chats := chatapp.NewChatService(
		chatinfra.NewGormConversationRepository(db),
		chatadapter.NewListingLookup(listings),
		chatadapter.NewKafkaEventPublisher(chatWriter),
		notifications, limiter, clk, tracer,
		chatapp.Options{EmailNotifications: flags.MessageEmail, PublicBaseURL: cfg.App.PublicBaseURL},
	)

	referrals := referralapp.NewReferralService(
		partnerRepo, redisClient, referraladapter.NewAccountUsers(accounts), clk, tracer,
		referralapp.Options{
			VisitorFee:     cfg.App.VisitorFee,
			CommissionRate: cfg.App.CommissionRate,
			PublicBaseURL:  cfg.App.PublicBaseURL,
		},
	)
	payments := paymentapp.NewPaymentService(
		platformClient,
		paymentadapter.NewAccountPayers(accounts),
		paymentadapter.NewKafkaEventPublisher(paymentsWriter),
		redisClient, clk, tracer,
		paymentapp.Options{VisitorFee: cfg.App.VisitorFee, PublicBaseURL: cfg.App.PublicBaseURL},
	)
	admin := adminapp.NewAdminService(adminadapter.NewAccountBoard(accounts), adminadapter.NewListingBoard(listings), tracer)

	// 5. Background consumers
	appCtx.Lifecycle.Add(referraladapter.NewPaymentConsumer(referrals).Adapter(brokers, paymentsDLT))

	// 6. Routes
	api := http.NewServeMux()
	accounthttp.NewAccountHandler(accounts).RegisterRoutes(api)
	listinghttp.NewListingHandler(listings, cfg.App.PublicBaseURL).RegisterRoutes(api)
	chathttp.NewChatHandler(chats, cfg.App.PollInterval).RegisterRoutes(api)
	referralhttp.NewReferralHandler(referrals).RegisterRoutes(api)
	paymenthttp.NewPaymentHandler(payments).RegisterRoutes(api)
	notificationhttp.NewNotificationHandler(notifications).RegisterRoutes(api)
	adminhttp.NewAdminHandler(admin).RegisterRoutes(api)
	appCtx.Mux.Handle("/api/", accounthttp.NewSessionGate(verifier, accounts).Middleware(api))

	zlog.Info().Str("node", appCtx.NodeID).Msg("✅ Marketplace API wired")
	return nil
}

func migrate(db *gorm.DB) error {
	for _, m := range []func(*gorm.DB) error{
		accountinfra.Migrate,
		listinginfra.Migrate,
		chatinfra.Migrate,
		referralinfra.Migrate,
		notificationinfra.Migrate,
	} {
		if err := m(db); err != nil {
			return err
		}
	}
	return nil
}

func writer(appCtx bootstrap.AppCtx, brokers []string, topic string) *kafka.Writer {
	w := mq.NewKafkaWriter(brokers, topic)
	appCtx.Lifecycle.OnStop(func(context.Context) {
		if err := w.Close(); err != nil {
			zlog.Error().Err(err).Str("topic", topic).Msg("failed to close kafka writer")
		}
	})
	return w
}
