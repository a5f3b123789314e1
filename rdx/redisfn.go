package rdx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return conn, nil
}

// RedisCache stores cached responses as plain string values.
type RedisCache struct {
	conn *redis.Client
}

func NewCache(conn *redis.Client) *RedisCache {
	return &RedisCache{conn: conn}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.conn.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return c.conn.Set(ctx, key, val, ttl).Err()
}

// DeletePrefix removes every key starting with prefix. SCAN is used instead of
// KEYS so a large keyspace does not block the server.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.conn.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.conn.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.conn.Del(ctx, batch...).Err()
	}
	return nil
}

// Publish sends payload on channel.
func Publish(ctx context.Context, conn *redis.Client, channel string, payload []byte) error {
	return conn.Publish(ctx, channel, payload).Err()
}

// Subscribe calls fn for every message on channel until ctx is done or the
// subscription closes.
func Subscribe(ctx context.Context, conn *redis.Client, channel string, fn func(payload []byte)) {
	sub := conn.Subscribe(ctx, channel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fn([]byte(msg.Payload))
		}
	}
}
