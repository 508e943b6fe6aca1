// internal/service/chat/infrastructure/push/gateway.go
package push

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/klausterra/alpha-se-1/internal/pkg/auth"
	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/metrics"
	"github.com/klausterra/alpha-se-1/internal/pkg/mq"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain/port"
)

type TokenVerifier interface {
	Verify(raw string) (auth.Identity, error)
}

// SessionStore maps a user to the gateway node holding their socket.
type SessionStore interface {
	SetUserGateway(ctx context.Context, email, nodeID string) error
	GetUserGateway(ctx context.Context, email string) (string, error)
	RemoveUserGateway(ctx context.Context, email, nodeID string) error
}

// Envelope is the frame written to sockets.
type Envelope struct {
	Type string            `json:"type"`
	Data port.MessageEvent `json:"data"`
}

const EventChatMessage = "chat.message"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Gateway struct {
	nodeID   string
	hub      *Hub
	verifier TokenVerifier
	sessions SessionStore
}

func NewGateway(nodeID string, verifier TokenVerifier, sessions SessionStore) *Gateway {
	return &Gateway{nodeID: nodeID, hub: NewHub(nodeID), verifier: verifier, sessions: sessions}
}

func (g *Gateway) Hub() *Hub { return g.hub }

// ServeWS authenticates the access_token query parameter (or the
// Authorization header), upgrades and registers the socket.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("access_token")
	if raw == "" {
		raw = r.Header.Get("Authorization")
	}
	id, err := g.verifier.Verify(raw)
	if err != nil || id.Email == "" {
		http.Error(w, "Sessão inválida. Faça login novamente.", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	ctx := context.WithoutCancel(r.Context())
	if err := g.sessions.SetUserGateway(ctx, id.Email, g.nodeID); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("user", id.Email).Msg("failed to record gateway session")
		_ = conn.Close()
		return
	}
	client := newClient(g.hub, conn, id.Email)
	g.hub.Register(client)

	go client.writePump()
	go func() {
		client.readPump(func() {
			if err := g.sessions.SetUserGateway(ctx, id.Email, g.nodeID); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Str("user", id.Email).Msg("failed to refresh gateway session")
			}
		})
		if g.hub.Unregister(client) == 0 {
			if err := g.sessions.RemoveUserGateway(ctx, id.Email, g.nodeID); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Str("user", id.Email).Msg("failed to clear gateway session")
			}
		}
	}()
}

// HandleEvent is the chat-messages consumer. Every node reads the whole
// topic with its own group and forwards to the sockets it holds.
func (g *Gateway) HandleEvent(ctx context.Context, msg kafka.Message) error {
	ctx, span := otel.Tracer("push-gateway").Start(ctx, "push.HandleEvent")
	defer span.End()

	var ev port.MessageEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		metrics.PushDeliveries.WithLabelValues("invalid").Inc()
		return errors.Wrap(err, "decode chat message event")
	}
	span.SetAttributes(attribute.String("conversation.id", ev.ConversationID))

	frame, err := json.Marshal(Envelope{Type: EventChatMessage, Data: ev})
	if err != nil {
		return errors.Wrap(err, "encode push frame")
	}

	if n := g.hub.Deliver(ev.RecipientEmail, frame); n > 0 {
		metrics.PushDeliveries.WithLabelValues("delivered").Inc()
	} else {
		metrics.PushDeliveries.WithLabelValues(g.offlineOutcome(ctx, ev.RecipientEmail)).Inc()
	}
	// echo to the sender's other sockets
	g.hub.Deliver(ev.SenderEmail, frame)
	return nil
}

func (g *Gateway) offlineOutcome(ctx context.Context, email string) string {
	node, err := g.sessions.GetUserGateway(ctx, email)
	switch {
	case err != nil:
		logger.Ctx(ctx).Warn().Err(err).Str("user", email).Msg("gateway session lookup failed")
		return "unknown"
	case node == "":
		return "offline"
	case node == g.nodeID:
		return "stale"
	}
	return "remote"
}

// Consumer wires HandleEvent to the chat-messages topic with a group unique
// to this node, starting from the newest offset.
func (g *Gateway) Consumer(brokers []string, dlt mq.MessageWriter) *mq.ConsumerAdapter {
	reader := mq.NewKafkaTailReader(brokers, mq.TopicChatMessages, g.nodeID)
	return mq.NewConsumerAdapter("push-gateway", reader, g.HandleEvent, mq.NewFailureHandler(dlt))
}
