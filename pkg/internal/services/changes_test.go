package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeStreamFanout(t *testing.T) {
	first, cancelFirst := SubscribeChanges()
	second, cancelSecond := SubscribeChanges()
	defer cancelSecond()

	EmitChange(ChangeOpInsert, "abc123")

	for _, ch := range []<-chan ChangeEvent{first, second} {
		select {
		case event := <-ch:
			assert.Equal(t, ChangeOpInsert, event.Op)
			assert.Equal(t, "abc123", event.ID)
		case <-time.After(time.Second):
			t.Fatal("expected a change event")
		}
	}

	cancelFirst()

	// The cancelled channel is closed, the other keeps receiving.
	_, open := <-first
	assert.False(t, open)

	EmitChange(ChangeOpDelete, "abc123")
	select {
	case event := <-second:
		require.Equal(t, ChangeOpDelete, event.Op)
	case <-time.After(time.Second):
		t.Fatal("expected a change event on the surviving subscriber")
	}
}

func TestChangeStreamCancelIsIdempotent(t *testing.T) {
	_, cancel := SubscribeChanges()
	cancel()
	cancel()
}
