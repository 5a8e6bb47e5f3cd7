package service

import (
	"context"
	"encoding/json"
	"go-admin-auth/logger"
	"go-admin-auth/model"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// IEventPublisher drains the structured events the auth flows produce.
type IEventPublisher interface {
	Publish(events ...model.Event)
}

// Publisher logs every event and fans it out to a Redis channel for external
// consumers. Publishing is strictly fire-and-forget: a dead Redis slows
// nothing down and fails nothing; the primary flow has already completed by
// the time the publish goroutine runs.
type Publisher struct {
	redisClient *redis.Client
	channel     string
}

func NewPublisher(redisClient *redis.Client, channel string) *Publisher {
	return &Publisher{redisClient: redisClient, channel: channel}
}

func (p *Publisher) Publish(events ...model.Event) {
	for _, event := range events {
		logger.Log.WithFields(logrus.Fields{
			"event":  event.Name,
			"fields": event.Fields,
		}).Info("auth event")
	}

	if p.redisClient == nil || len(events) == 0 {
		return
	}

	go func(events []model.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for _, event := range events {
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := p.redisClient.Publish(ctx, p.channel, payload).Err(); err != nil {
				logger.Log.WithError(err).Debug("Dropping telemetry event, Redis publish failed")
			}
		}
	}(events)
}
