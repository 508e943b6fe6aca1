// cmd/push-gateway/main.go
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/klausterra/alpha-se-1/internal/pkg/auth"
	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
	"github.com/klausterra/alpha-se-1/internal/pkg/mq"
	"github.com/klausterra/alpha-se-1/internal/pkg/redis"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/chat/infrastructure/push"
)

const (
	serviceName = "push-gateway"
	port        = 8084
	sessionTTL  = 2 * time.Minute
)

// main runs one WebSocket gateway node. Each node tails the chat-messages
// topic and forwards events to the sockets it holds.
func main() {
	nodeID := serviceName + "-" + uuid.New().String()[:8]

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

			dlt := mq.NewKafkaWriter(brokers, mq.DLTTopic(mq.TopicChatMessages))
			appCtx.Lifecycle.OnStop(func(context.Context) { _ = dlt.Close() })

			sessions := session.NewManager(redisClient.GetClient(), sessionTTL)
			verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
			gateway := push.NewGateway(nodeID, verifier, sessions)

			appCtx.Mux.HandleFunc("GET /ws", gateway.ServeWS)
			appCtx.Lifecycle.Add(gateway.Consumer(brokers, dlt))

			zlog.Info().Str("node", nodeID).Msg("🔌 Push gateway ready")
			return nil
		},
	})
}
