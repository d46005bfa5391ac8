package notifications

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/testutils"
)

func notification(id byte) *externalapi.BlockAcceptedNotification {
	return &externalapi.BlockAcceptedNotification{
		Hash:           testutils.HashFromByte(id),
		HasTopoHeight:  true,
		TopoHeight:     uint64(id),
		Classification: externalapi.ClassificationUnresolved,
	}
}

func TestNotificationOrdering(t *testing.T) {
	notifier, err := New(DefaultSubscriptionBufferSize)
	require.NoError(t, err)
	defer notifier.Close()

	first, err := notifier.Subscribe()
	require.NoError(t, err)
	second, err := notifier.Subscribe()
	require.NoError(t, err)
	require.NotEqual(t, first.ID(), second.ID())

	for id := byte(1); id <= 50; id++ {
		notifier.Publish(notification(id))
	}
	notifier.Flush()

	for _, subscription := range []*Subscription{first, second} {
		for id := byte(1); id <= 50; id++ {
			received := <-subscription.Notifications()
			require.Equal(t, testutils.HashFromByte(id), received.Hash)
		}
	}
}

func TestSubscriptionClose(t *testing.T) {
	notifier, err := New(DefaultSubscriptionBufferSize)
	require.NoError(t, err)
	defer notifier.Close()

	subscription, err := notifier.Subscribe()
	require.NoError(t, err)
	subscription.Close()
	subscription.Close()

	notifier.Publish(notification(1))
	notifier.Flush()

	_, ok := <-subscription.Notifications()
	require.False(t, ok, "a closed subscription received a notification")
}

func TestSlowSubscriberReceivesEveryNotification(t *testing.T) {
	notifier, err := New(2)
	require.NoError(t, err)
	defer notifier.Close()

	subscription, err := notifier.Subscribe()
	require.NoError(t, err)

	for id := byte(1); id <= 5; id++ {
		notifier.Publish(notification(id))
	}
	notifier.Flush()

	for id := byte(1); id <= 5; id++ {
		received := <-subscription.Notifications()
		require.Equal(t, testutils.HashFromByte(id), received.Hash)
	}
	require.Equal(t, 0, subscription.Pending())
}

func TestNotifierCloseDrainsQueuedNotifications(t *testing.T) {
	notifier, err := New(1)
	require.NoError(t, err)

	subscription, err := notifier.Subscribe()
	require.NoError(t, err)
	for id := byte(1); id <= 4; id++ {
		notifier.Publish(notification(id))
	}
	notifier.Close()

	for id := byte(1); id <= 4; id++ {
		received, ok := <-subscription.Notifications()
		require.True(t, ok)
		require.Equal(t, testutils.HashFromByte(id), received.Hash)
	}
	_, ok := <-subscription.Notifications()
	require.False(t, ok)
}

func TestNotifierClose(t *testing.T) {
	notifier, err := New(DefaultSubscriptionBufferSize)
	require.NoError(t, err)

	subscription, err := notifier.Subscribe()
	require.NoError(t, err)
	notifier.Publish(notification(1))
	notifier.Close()

	received, ok := <-subscription.Notifications()
	require.True(t, ok)
	require.Equal(t, testutils.HashFromByte(1), received.Hash)
	_, ok = <-subscription.Notifications()
	require.False(t, ok)

	_, err = notifier.Subscribe()
	require.Error(t, err)
}
