package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/rueidis"
	"github.com/sirupsen/logrus"
)

// RedisPublisher publishes every event as JSON on a pub/sub channel.
type RedisPublisher struct {
	client  rueidis.Client
	channel string
	logger  *logrus.Logger
}

func NewRedisPublisher(client rueidis.Client, channel string, logger *logrus.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

func (p *RedisPublisher) Notify(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.WithError(err).Warn("failed to encode notification")
		return
	}

	cmd := p.client.B().Publish().Channel(p.channel).Message(string(payload)).Build()
	if err := p.client.Do(ctx, cmd).Error(); err != nil {
		p.logger.WithError(err).WithField("channel", p.channel).Warn("failed to publish notification")
	}
}
