package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	_, ch1, unsub1 := b.Subscribe()
	defer unsub1()
	_, ch2, unsub2 := b.Subscribe()
	defer unsub2()
	require.Equal(t, 2, b.Len())

	b.PublishSnapshot(map[string]any{"temp": 24.0})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case e := <-ch:
			assert.Equal(t, EventSnapshot, e.Type)
			assert.False(t, e.Timestamp.IsZero())
			assert.Equal(t, map[string]any{"temp": 24.0}, e.Data)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestUnsubscribeClosesChannelOnce(t *testing.T) {
	b := New()
	_, ch, unsub := b.Subscribe()
	unsub()
	unsub() // second call is a no-op

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, b.Len())
}

func TestSlowConsumerDoesNotBlockPublish(t *testing.T) {
	b := New()
	_, ch, unsub := b.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			b.PublishStatus("connected")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow consumer")
	}
	// The buffer holds at most its capacity; the rest were dropped.
	assert.LessOrEqual(t, len(ch), 64)
}

func TestDistinctSubscriberIDs(t *testing.T) {
	b := New()
	id1, _, unsub1 := b.Subscribe()
	defer unsub1()
	id2, _, unsub2 := b.Subscribe()
	defer unsub2()
	assert.NotEqual(t, id1, id2)
}
