package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/civnet/issue-service/internal/config"
	"github.com/civnet/issue-service/internal/events"
)

// NotificationService fans domain events out to interested consumers: every
// event is logged, and when a redis channel is configured the JSON-encoded
// event is published there for external listeners (dashboards, mailers).
type NotificationService struct {
	dispatcher events.Dispatcher
	redis      *redis.Client
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, redisClient *redis.Client, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		redis:      redisClient,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to all event types.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventIssueCreated,
		events.EventIssueStatusChanged,
		events.EventCommentAdded,
		events.EventAdminRoleChanged,
	} {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("domain event",
		zap.String("type", string(event.Type)),
		zap.String("issue_id", event.IssueID),
		zap.String("actor_id", event.ActorID))
	return n.publishToRedis(ctx, event)
}

func (n *NotificationService) publishToRedis(ctx context.Context, event events.Event) error {
	if n.redis == nil || n.cfg.RedisChannel == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("encode event", zap.Error(err))
		return err
	}
	if err := n.redis.Publish(ctx, n.cfg.RedisChannel, body).Err(); err != nil {
		// Notification delivery is best effort; the originating write has
		// already committed.
		n.logger.Warn("publish event to redis", zap.Error(err))
		return err
	}
	return nil
}
