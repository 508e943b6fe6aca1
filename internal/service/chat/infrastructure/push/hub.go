// internal/service/chat/infrastructure/push/hub.go
package push

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub tracks the sockets open on this gateway node, keyed by user e-mail.
// A user may hold several sockets (tabs, devices).
type Hub struct {
	nodeID  string
	clients map[string]map[*Client]struct{}
	lock    sync.RWMutex
}

func NewHub(nodeID string) *Hub {
	return &Hub{nodeID: nodeID, clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	set := h.clients[c.email]
	if set == nil {
		set = make(map[*Client]struct{})
		h.clients[c.email] = set
	}
	set[c] = struct{}{}
	log.Info().Str("user", c.email).Str("node", h.nodeID).Int("sockets", len(set)).Msg("🔌 Client registered")
}

// Unregister closes c's send queue and reports how many sockets the user
// still has on this node.
func (h *Hub) Unregister(c *Client) int {
	h.lock.Lock()
	defer h.lock.Unlock()
	set := h.clients[c.email]
	if _, ok := set[c]; !ok {
		return len(set)
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.email)
	}
	log.Info().Str("user", c.email).Str("node", h.nodeID).Msg("Client unregistered")
	return len(set)
}

// Deliver queues payload on every socket of email and returns how many
// accepted it. A socket whose queue is full is dropped.
func (h *Hub) Deliver(email string, payload []byte) int {
	// sends stay under the read lock so Unregister cannot close a queue mid-send
	h.lock.RLock()
	defer h.lock.RUnlock()

	delivered := 0
	for c := range h.clients[email] {
		select {
		case c.send <- payload:
			delivered++
		default:
			log.Warn().Str("user", email).Msg("push queue full, dropping socket")
			go c.conn.Close()
		}
	}
	return delivered
}

// Connected reports whether email has at least one socket on this node.
func (h *Hub) Connected(email string) bool {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients[email]) > 0
}
