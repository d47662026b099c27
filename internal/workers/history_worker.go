package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/repositories"
	"github.com/yoockh/talentscope/internal/services"
)

// HistoryWorkerPool drains the search history stream into the repository.
type HistoryWorkerPool struct {
	Redis      *redis.Client
	Repo       repositories.SearchHistoryRepository
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *HistoryWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Repo == nil {
		return errors.New("HistoryWorkerPool missing dependency: Redis/Repo must be set")
	}
	if p.Stream == "" {
		p.Stream = services.HistoryStream
	}
	if p.Group == "" {
		p.Group = "history-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "h"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	p.Logger.WithFields(logrus.Fields{
		"component": "history-worker",
		"stream":    p.Stream,
		"workers":   p.NumWorkers,
	}).Info("history workers started")
	return nil
}

func (p *HistoryWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("history stream read failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				if p.handleMsg(ctx, msg) {
					_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
				}
			}
		}
	}
}

// handleMsg reports whether msg should be acknowledged. Malformed messages
// are acked and dropped; failed inserts stay pending for redelivery.
func (p *HistoryWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) bool {
	log := p.Logger.WithFields(logrus.Fields{
		"component": "history-worker",
		"redis_id":  msg.ID,
	})

	h, err := services.DecodeHistory(msg.Values)
	if err != nil {
		log.WithError(err).Warn("dropping malformed history message")
		return true
	}
	if err := p.Repo.Insert(ctx, &h); err != nil {
		log.WithError(err).WithField("user_id", h.UserID).Error("history insert failed")
		return false
	}
	return true
}
