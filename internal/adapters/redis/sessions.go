package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel_manager/internal/adapters/observability"
	"hotel_manager/internal/domain"
)

// Store keeps sessions in redis under sess:<sid>, JSON-encoded, with a TTL.
// It is the only client-side persistent state: the bearer token and the
// serialized profile.
type Store struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Store {
	return &Store{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

func key(sid string) string { return "sess:" + sid }

func (s *Store) Get(ctx context.Context, sid string) (domain.Session, bool, error) {
	v, err := s.c.Get(ctx, key(sid)).Bytes()
	if err == redis.Nil {
		observability.ObserveSession("miss")
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	var sess domain.Session
	if err := json.Unmarshal(v, &sess); err != nil {
		return domain.Session{}, false, err
	}
	observability.ObserveSession("hit")
	return sess, true, nil
}

func (s *Store) Put(ctx context.Context, sid string, sess domain.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	observability.ObserveSession("set")
	return s.c.Set(ctx, key(sid), b, s.ttl).Err()
}

func (s *Store) Del(ctx context.Context, sid string) error {
	observability.ObserveSession("del")
	return s.c.Del(ctx, key(sid)).Err()
}
