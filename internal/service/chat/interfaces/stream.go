// internal/service/chat/interfaces/stream.go
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/pkg/web"
	"github.com/klausterra/alpha-se-1/internal/service/chat/application"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleStream upgrades to a WebSocket and pushes the conversation's new
// messages as they are polled from the store. It serves clients that are not
// connected to the push gateway.
func (h *ChatHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	p := session.FromContext(r.Context())
	id := r.PathValue("id")
	if _, err := h.service.GetConversation(r.Context(), p, id); err != nil {
		web.Fail(w, r, err, errorStatus)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("chat stream upgrade failed")
		return
	}
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	batches := make(chan []application.MessageDTO, 16)
	poller := application.NewPoller(func(ctx context.Context, since time.Time) ([]*domain.Message, error) {
		return h.service.ListMessages(ctx, p, id, since)
	}, h.pollInterval, time.Time{})
	go func() {
		_ = poller.Run(ctx, func(ms []*domain.Message) {
			select {
			case batches <- application.ToMessageDTOs(ms, p.Email):
			case <-ctx.Done():
			}
		}, func(err error) {
			logger.Ctx(ctx).Warn().Err(err).Str("conversation_id", id).Msg("chat stream poll failed")
		})
	}()

	go readUntilClosed(conn, cancel)
	writeStream(ctx, conn, batches)
}

// readUntilClosed discards client frames and cancels the stream once the
// peer goes away or stops answering pings.
func readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(8 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeStream(ctx context.Context, conn *websocket.Conn, batches <-chan []application.MessageDTO) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case batch := <-batches:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(batch); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
