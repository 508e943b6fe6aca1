// internal/zookeeper/lock.go
package zookeeper

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-zookeeper/zk"
)

const (
	lockRoot   = "/distributed_locks"
	nodePrefix = "lock-"
)

// ErrLockHeld is returned by TryLock when another process owns the lock.
var ErrLockHeld = errors.New("lock is held by another owner")

// DistributedLock is a ZooKeeper recipe lock built on ephemeral sequential nodes.
type DistributedLock struct {
	conn     Conn
	path     string // e.g. /distributed_locks/expiry-sweeper
	lockNode string // full path of our own node once created
}

// NewDistributedLock prepares the lock paths for resourceID.
func NewDistributedLock(conn Conn, resourceID string) (*DistributedLock, error) {
	lockPath := lockRoot + "/" + resourceID
	for _, p := range []string{lockRoot, lockPath} {
		if err := ensurePath(conn, p); err != nil {
			return nil, err
		}
	}
	return &DistributedLock{conn: conn, path: lockPath}, nil
}

func ensurePath(conn Conn, p string) error {
	exists, _, err := conn.Exists(p)
	if err != nil {
		return fmt.Errorf("check %s: %w", p, err)
	}
	if exists {
		return nil
	}
	_, err = conn.Create(p, []byte(""), 0, zk.WorldACL(zk.PermAll))
	if err != nil && !errors.Is(err, zk.ErrNodeExists) {
		return fmt.Errorf("create %s: %w", p, err)
	}
	return nil
}

// TryLock acquires the lock only if nobody else holds it.
func (l *DistributedLock) TryLock() error {
	if err := l.enqueue(); err != nil {
		return err
	}
	prev, err := l.predecessor()
	if err != nil {
		l.abandon()
		return err
	}
	if prev != "" {
		l.abandon()
		return ErrLockHeld
	}
	return nil
}

func (l *DistributedLock) Unlock() error {
	if l.lockNode == "" {
		return errors.New("no lock to unlock")
	}
	err := l.conn.Delete(l.lockNode, -1)
	if err != nil && !errors.Is(err, zk.ErrNoNode) {
		return fmt.Errorf("failed to delete lock node: %w", err)
	}
	l.lockNode = ""
	return nil
}

func (l *DistributedLock) enqueue() error {
	if l.lockNode != "" {
		return errors.New("lock already requested")
	}
	nodePath, err := l.conn.Create(l.path+"/"+nodePrefix, []byte(""), zk.FlagEphemeral|zk.FlagSequence, zk.WorldACL(zk.PermAll))
	if err != nil {
		return fmt.Errorf("failed to create sequential node: %w", err)
	}
	l.lockNode = nodePath
	return nil
}

func (l *DistributedLock) abandon() {
	if l.lockNode != "" {
		_ = l.conn.Delete(l.lockNode, -1)
		l.lockNode = ""
	}
}

// predecessor returns the child right before ours, or "" when we hold the lock.
func (l *DistributedLock) predecessor() (string, error) {
	children, _, err := l.conn.Children(l.path)
	if err != nil {
		return "", fmt.Errorf("failed to get children nodes: %w", err)
	}
	sort.Slice(children, func(i, j int) bool { return sequenceOf(children[i]) < sequenceOf(children[j]) })

	mine := strings.TrimPrefix(l.lockNode, l.path+"/")
	for i, child := range children {
		if child == mine {
			if i == 0 {
				return "", nil
			}
			return children[i-1], nil
		}
	}
	return "", errors.New("own lock node vanished, session probably expired")
}

// sequenceOf extracts the 10-digit suffix ZooKeeper appends to sequential nodes.
func sequenceOf(name string) string {
	if len(name) < 10 {
		return name
	}
	return name[len(name)-10:]
}
