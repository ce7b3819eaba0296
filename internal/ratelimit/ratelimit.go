// ratelimit реализует троттлинг неудачных попыток входа поверх Redis.
//
// Счётчик живёт по ключу sha256(email) с TTL окна; успешный вход сбрасывает
// счётчик. Лимитер опционален: nil-экземпляр пропускает все запросы, сервис
// полностью работоспособен без Redis.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter — redis-счётчик неудачных попыток входа.
type Limiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// New создаёт лимитер из URL Redis (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:lock:".
func New(redisURL, prefix string, limit int64, window time.Duration) (*Limiter, error) {
	if prefix == "" {
		prefix = "auth:lock:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &Limiter{rdb: rdb, prefix: prefix, limit: limit, window: window}, nil
}

func (l *Limiter) key(subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return l.prefix + base64.RawURLEncoding.EncodeToString(sum[:])
}

// Allow сообщает, не исчерпан ли лимит попыток для subject.
// Ошибки Redis трактуются как «разрешить»: деградация кэша не должна
// блокировать вход.
func (l *Limiter) Allow(ctx context.Context, subject string) bool {
	if l == nil {
		return true
	}

	n, err := l.rdb.Get(ctx, l.key(subject)).Int64()
	if err != nil {
		return true
	}

	return n < l.limit
}

// Fail фиксирует неудачную попытку входа для subject.
func (l *Limiter) Fail(ctx context.Context, subject string) error {
	if l == nil {
		return nil
	}

	key := l.key(subject)

	pipe := l.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)

	_, err := pipe.Exec(ctx)
	return err
}

// Reset сбрасывает счётчик после успешного входа.
func (l *Limiter) Reset(ctx context.Context, subject string) error {
	if l == nil {
		return nil
	}

	return l.rdb.Del(ctx, l.key(subject)).Err()
}

// Close закрывает клиент Redis.
func (l *Limiter) Close() error {
	if l == nil {
		return nil
	}

	return l.rdb.Close()
}
