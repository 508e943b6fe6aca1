// internal/pkg/session/manager.go
package session

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const gatewayKeyPrefix = "push:gateway:"

// Manager records which push gateway node holds a user's socket.
type Manager struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewManager(rdb goredis.UniversalClient, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Manager{rdb: rdb, ttl: ttl}
}

// SetUserGateway maps email to nodeID. Gateways refresh it on every pong.
func (m *Manager) SetUserGateway(ctx context.Context, email, nodeID string) error {
	return m.rdb.Set(ctx, gatewayKeyPrefix+email, nodeID, m.ttl).Err()
}

// GetUserGateway returns "" when the user has no live socket.
func (m *Manager) GetUserGateway(ctx context.Context, email string) (string, error) {
	node, err := m.rdb.Get(ctx, gatewayKeyPrefix+email).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return node, err
}

// RemoveUserGateway deletes the mapping only if it still points at nodeID,
// so a reconnect to another node is not clobbered.
func (m *Manager) RemoveUserGateway(ctx context.Context, email, nodeID string) error {
	return removeIfOwner.Run(ctx, m.rdb, []string{gatewayKeyPrefix + email}, nodeID).Err()
}

var removeIfOwner = goredis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
    return redis.call('del', KEYS[1])
end
return 0
`)
