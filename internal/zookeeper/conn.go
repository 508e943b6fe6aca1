// internal/zookeeper/conn.go
package zookeeper

import (
	"time"

	"github.com/go-zookeeper/zk"
	zlog "github.com/rs/zerolog/log"
)

// Conn is the subset of *zk.Conn the lock needs.
type Conn interface {
	Exists(path string) (bool, *zk.Stat, error)
	Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error)
	Children(path string) ([]string, *zk.Stat, error)
	Delete(path string, version int32) error
	Close()
}

// Connect opens a session against the given ensemble.
func Connect(servers []string, timeout time.Duration) (*zk.Conn, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	conn, _, err := zk.Connect(servers, timeout, zk.WithLogInfo(false))
	if err != nil {
		return nil, err
	}
	zlog.Info().Strs("servers", servers).Msg("✅ Connected to ZooKeeper")
	return conn, nil
}
