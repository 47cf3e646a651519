package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayRemoteDropsOwnEcho(t *testing.T) {
	h := NewHub(nil)

	// Pub/sub delivers our own publish back to us
	h.relayRemote(&redisMessage{
		Origin:   h.instanceID,
		Username: "khachhang1",
		Event:    &Event{Type: "message"},
	})
	assert.Equal(t, 0, len(h.broadcast), "self-originated frames are not re-broadcast")
}

func TestRelayRemoteForwardsOtherInstances(t *testing.T) {
	h := NewHub(nil)

	h.relayRemote(&redisMessage{
		Origin:   "another-instance",
		Username: "khachhang1",
		Event:    &Event{Type: "message"},
	})
	require.Equal(t, 1, len(h.broadcast))

	msg := <-h.broadcast
	assert.Equal(t, "khachhang1", msg.Username)
	assert.Equal(t, "message", msg.Event.Type)
}
