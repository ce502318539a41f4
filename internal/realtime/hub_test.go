package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func TestNotifierDeliversToEachUserOnce(t *testing.T) {
	hub := startHub(t)
	alice, bob := uuid.New(), uuid.New()

	ca := &Client{ID: "a", UserID: alice, Send: make(chan []byte, 4)}
	cb := &Client{ID: "b", UserID: bob, Send: make(chan []byte, 4)}
	hub.RegisterClient(ca)
	hub.RegisterClient(cb)

	require.Eventually(t, func() bool {
		return hub.Connected(alice) == 1 && hub.Connected(bob) == 1
	}, time.Second, 5*time.Millisecond)

	n := NewNotifier(hub, nil)
	n.Publish(context.Background(), Event{Resource: "offer", ID: "o1"}, alice, bob, alice, uuid.Nil)

	var ev Event
	require.NoError(t, json.Unmarshal(<-ca.Send, &ev))
	assert.Equal(t, EventRefresh, ev.Type)
	assert.Equal(t, "offer", ev.Resource)
	assert.Equal(t, "o1", ev.ID)

	require.NoError(t, json.Unmarshal(<-cb.Send, &ev))
	assert.Equal(t, "o1", ev.ID)

	assert.Len(t, ca.Send, 0, "duplicate recipients receive a single event")
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	c := &Client{ID: "c", UserID: user, Send: make(chan []byte, 1)}

	hub.RegisterClient(c)
	hub.UnregisterClient(c)

	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.Connected(user))
}

func TestSendToUserSkipsFullBuffers(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	c := &Client{ID: "slow", UserID: user, Send: make(chan []byte)}
	hub.RegisterClient(c)

	require.Eventually(t, func() bool { return hub.Connected(user) == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		hub.SendToUser(user, Event{Resource: "gig"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SendToUser blocked on a full client buffer")
	}
}

func TestStoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	live := &Client{ID: "live", UserID: uuid.New(), Send: make(chan []byte, 1)}
	require.True(t, hub.RegisterClient(live))

	cancel()
	<-stopped

	_, open := <-live.Send
	assert.False(t, open, "Run closes remaining clients on shutdown")

	done := make(chan struct{})
	go func() {
		hub.UnregisterClient(live)
		assert.False(t, hub.RegisterClient(&Client{ID: "late", UserID: uuid.New(), Send: make(chan []byte, 1)}))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after the hub stopped")
	}
}
