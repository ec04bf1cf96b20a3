package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out over Redis pub/sub. The websocket gateways
// subscribe to the same channels and forward envelopes to their sockets, so
// this process never holds client connections itself.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(addr, password string, db int) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}
	return &RedisPublisher{client: client}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	body, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		return errors.Wrap(err, "marshal fanout envelope")
	}
	if err := p.client.Publish(ctx, channel, body).Err(); err != nil {
		return errors.Wrapf(err, "publish %s to %s", event, channel)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
