// cmd/notification-service/main.go
package main

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
	"github.com/klausterra/alpha-se-1/internal/pkg/mq"
	"github.com/klausterra/alpha-se-1/internal/pkg/platform"
	"github.com/klausterra/alpha-se-1/internal/pkg/redis"
	"github.com/klausterra/alpha-se-1/internal/service/notification/infrastructure/adapter"
)

const (
	serviceName = "notification-service"
	port        = 8083
)

// main runs the e-mail delivery worker: it drains the notifications topic
// into the platform mail function and logs whatever lands in its DLT.
func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			cfg := appCtx.Config
			brokers := cfg.Infra.Kafka.Brokers

			redisClient, err := redis.NewClient(cfg.Infra.Redis.Addrs, cfg.Infra.Redis.Password)
			if err != nil {
				return err
			}
			appCtx.Lifecycle.OnStop(func(context.Context) { _ = redisClient.Close() })

			dltTopic := mq.DLTTopic(mq.TopicNotifications)
			dlt := mq.NewKafkaWriter(brokers, dltTopic)
			appCtx.Lifecycle.OnStop(func(context.Context) { _ = dlt.Close() })

			sender := platform.NewClient(cfg.Platform.BaseURL, cfg.Platform.APIKey).WithTimeout(cfg.Platform.Timeout)
			delivery := adapter.NewDeliveryConsumer(sender, redisClient)
			appCtx.Lifecycle.Add(delivery.Adapter(brokers, dlt))

			// the DLT watcher has nowhere further to dead-letter to
			dltReader := mq.NewKafkaReader(brokers, dltTopic, "notification-dlt-logger")
			appCtx.Lifecycle.Add(mq.NewConsumerAdapter("notification-dlt", dltReader, mq.LogDeadLetter(), nil))

			zlog.Info().Str("topic", mq.TopicNotifications).Msg("📧 Notification service consuming")
			return nil
		},
	})
}
