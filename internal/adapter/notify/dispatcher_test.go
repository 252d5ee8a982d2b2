package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"tripmatch/internal/core/domain"
)

func TestDispatcher_Notify_PublishesPushEvent(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	subscriber := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = subscriber.Close() })

	ctx := context.Background()
	sub := subscriber.Subscribe(ctx, "notifications")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	dispatcher := NewDispatcher(nil, client)
	err = dispatcher.Notify(ctx, 21, domain.NotificationProposalSelected,
		"Your proposal was selected",
		"Your proposal for \"Tea ceremony film\" was selected. You can start working.",
		map[string]any{"task_id": float64(7)})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var event struct {
			UserID  uint64         `json:"user_id"`
			Type    string         `json:"type"`
			Title   string         `json:"title"`
			Message string         `json:"message"`
			Data    map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		require.Equal(t, uint64(21), event.UserID)
		require.Equal(t, string(domain.NotificationProposalSelected), event.Type)
		require.Equal(t, "Your proposal was selected", event.Title)
		require.Equal(t, map[string]any{"task_id": float64(7)}, event.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("no push event received")
	}
}

func TestDispatcher_Notify_NoRedisConfigured(t *testing.T) {
	dispatcher := NewDispatcher(nil, nil)

	err := dispatcher.Notify(context.Background(), 21, domain.NotificationRatingReceived,
		"New rating received", "You received a 5-star rating.", nil)
	require.NoError(t, err)
}

func TestDispatcher_Notify_RedisDownIsSwallowed(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	server.Close()

	dispatcher := NewDispatcher(nil, client)
	err := dispatcher.Notify(context.Background(), 21, domain.NotificationTaskAvailable,
		"New task available", "A new task is open for applications.", nil)
	require.NoError(t, err)
}
