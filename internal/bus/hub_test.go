package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishFanOut(t *testing.T) {
	hub := NewHub()

	first, cancelFirst := hub.Subscribe(TopicSessionExpired)
	second, cancelSecond := hub.Subscribe(TopicSessionExpired)
	defer cancelFirst()
	defer cancelSecond()

	hub.Publish(TopicSessionExpired)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, TopicSessionExpired, (<-first).Topic)
	assert.Equal(t, TopicSessionExpired, (<-second).Topic)
}

func TestHubTopicsIsolated(t *testing.T) {
	hub := NewHub()

	expired, cancelExpired := hub.Subscribe(TopicSessionExpired)
	loggedOut, cancelLoggedOut := hub.Subscribe(TopicUserLoggedOut)
	defer cancelExpired()
	defer cancelLoggedOut()

	hub.Publish(TopicUserLoggedOut)

	assert.Len(t, expired, 0)
	require.Len(t, loggedOut, 1)
	assert.Equal(t, TopicUserLoggedOut, (<-loggedOut).Topic)
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(TopicSessionExpired)
	cancel()

	// publish after cancel must not panic and must not deliver
	hub.Publish(TopicSessionExpired)

	_, open := <-ch
	assert.False(t, open)
}

func TestHubFullSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe(TopicSessionExpired)
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(TopicSessionExpired)
	}
}
