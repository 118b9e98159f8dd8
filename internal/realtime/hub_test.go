// AngelaMos | 2026
// hub_test.go

package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/codeburry/api/internal/metrics"
)

func testClient(id string, buffer int) *Client {
	return &Client{id: id, send: make(chan []byte, buffer)}
}

func TestHubDeliversToEveryClient(t *testing.T) {
	hub := NewHub(nil, nil)
	a, b := testClient("a", 1), testClient("b", 1)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))

	hub.Broadcast(context.Background(), EventLikePost, map[string]any{"id": "p1", "likes": 2})

	for _, c := range []*Client{a, b} {
		frame := <-c.send
		var ev Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		require.Equal(t, EventLikePost, ev.Name)
		require.JSONEq(t, `{"id":"p1","likes":2}`, string(ev.Data))
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	m := metrics.New()
	hub := NewHub(m, nil)
	fast, slow := testClient("fast", 4), testClient("slow", 1)
	hub.Register(fast)
	hub.Register(slow)

	ev, err := NewEvent(EventNewPost, map[string]string{"content": "x"})
	require.NoError(t, err)

	hub.Deliver(ev)
	<-fast.send
	hub.Deliver(ev)

	require.Equal(t, 1, hub.Count())
	require.InDelta(t, 1, testutil.ToFloat64(m.RealtimeDropped), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.RealtimeClients), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.RealtimeEvents.WithLabelValues(EventNewPost)), 0)

	<-slow.send
	_, open := <-slow.send
	require.False(t, open)

	_, open = <-fast.send
	require.True(t, open)
}

func TestHubClose(t *testing.T) {
	hub := NewHub(nil, nil)
	c := testClient("c", 1)
	hub.Register(c)

	hub.Close()
	require.Zero(t, hub.Count())

	_, open := <-c.send
	require.False(t, open)

	require.False(t, hub.Register(testClient("late", 1)))

	hub.Unregister(c)
	hub.Deliver(Event{Name: EventNewPost})
}
