package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civnet/issue-service/internal/config"
	"github.com/civnet/issue-service/internal/domain"
	"github.com/civnet/issue-service/internal/events"
)

func TestNotificationServicePublishesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, client, zap.NewNop(), config.NotificationConfig{
		RedisChannel: "civnet:events",
	})
	svc.RegisterHandlers()

	ctx := context.Background()
	sub := client.Subscribe(ctx, "civnet:events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	err = dispatcher.Publish(ctx, events.Event{
		ID:        "evt-1",
		Type:      events.EventIssueStatusChanged,
		IssueID:   "issue-1",
		ActorID:   "bob",
		Timestamp: time.Now(),
		Payload: events.IssueStatusChangedPayload{
			OldStatus: domain.IssueStatusSubmitted,
			NewStatus: domain.IssueStatusResolved,
		},
	})
	require.NoError(t, err)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var received events.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &received))
	require.Equal(t, "evt-1", received.ID)
	require.Equal(t, events.EventIssueStatusChanged, received.Type)
	require.Equal(t, "issue-1", received.IssueID)
}

func TestNotificationServiceNoChannelConfigured(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, nil, zap.NewNop(), config.NotificationConfig{})
	svc.RegisterHandlers()

	// Publishing without a redis target must not error.
	err := dispatcher.Publish(context.Background(), events.Event{
		ID:   "evt-2",
		Type: events.EventIssueCreated,
	})
	require.NoError(t, err)
}
