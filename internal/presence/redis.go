package presence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// lastSeenKeyPrefix namespaces presence keys in a shared redis.
const lastSeenKeyPrefix = "chat:last_seen:"

// RedisStore keeps last-seen timestamps in redis so presence survives
// restarts and is shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis at the given address and verifies the
// connection with a ping.
func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// Ensure interface compliance at compile time
var _ Store = (*RedisStore)(nil)

func key(userID uint) string {
	return lastSeenKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// Touch records the current time for the user.
func (s *RedisStore) Touch(ctx context.Context, userID uint) error {
	return s.client.Set(ctx, key(userID), time.Now().Unix(), 0).Err()
}

// LastSeen returns the stored activity time, if any.
func (s *RedisStore) LastSeen(ctx context.Context, userID uint) (time.Time, bool, error) {
	value, err := s.client.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	unix, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis: malformed last-seen value %q: %w", value, err)
	}
	return time.Unix(unix, 0), true, nil
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
