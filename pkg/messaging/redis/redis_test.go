package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestRedisBroker_PublishTripsBreaker(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	logger := zerolog.Nop()
	b := newRedisBroker(client, &logger)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := b.Publish(ctx, "revalidate", map[string]string{"path": "/appointments"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}

	err := b.Publish(ctx, "revalidate", map[string]string{"path": "/appointments"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestNewRedisBroker_BadURL(t *testing.T) {
	logger := zerolog.Nop()
	_, err := NewRedisBroker(Config{URL: "://nope"}, &logger)
	assert.Error(t, err)
}
