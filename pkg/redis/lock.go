package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Lock is a best-effort mutual exclusion held in Redis with a TTL
type Lock struct {
	key   string
	token string
}

// AcquireLock tries once to take key for ttl. It reports false when another
// holder owns it.
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (*Lock, bool, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, false, err
	}
	token := hex.EncodeToString(buf)

	ok, err := SetNX(ctx, key, token, ttl)
	if err != nil || !ok {
		return nil, false, err
	}
	return &Lock{key: key, token: token}, true, nil
}

// Release gives the lock back if it is still ours
func (l *Lock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, client, []string{l.key}, l.token).Err()
}
