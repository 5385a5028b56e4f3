package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToSellerOnly(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sellerID, _ := strconv.Atoi(r.URL.Query().Get("seller"))
		hub.Serve(w, r, sellerID)
	}))
	defer srv.Close()

	dial := func(seller string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?seller=" + seller
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		return conn
	}

	mine := dial("1")
	defer mine.Close()
	theirs := dial("2")
	defer theirs.Close()

	require.Eventually(t, func() bool {
		return hub.ClientCount(1) == 1 && hub.ClientCount(2) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(1, "order.payment", map[string]int{"id": 5})

	var got map[string]any
	mine.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, mine.ReadJSON(&got))
	assert.Equal(t, "order.payment", got["kind"])
	assert.Equal(t, float64(5), got["payload"].(map[string]any)["id"])

	theirs.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := theirs.ReadMessage()
	assert.Error(t, err, "seller 2 must not see seller 1's events")

	mine.Close()
	require.Eventually(t, func() bool { return hub.ClientCount(1) == 0 }, time.Second, 10*time.Millisecond)
}

func TestPublishWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	for i := 0; i < 200; i++ {
		hub.Publish(1, "order.saved", nil)
	}
	assert.Equal(t, 0, hub.ClientCount(1))
}

func TestSlowClientIsDroppedWithoutBlocking(t *testing.T) {
	hub := NewHub(nil)
	slow := &client{send: make(chan Event, 1)}
	fast := &client{send: make(chan Event, 4)}
	hub.add(1, slow)
	hub.add(1, fast)

	done := make(chan struct{})
	go func() {
		hub.deliver(Event{Kind: "order.saved", sellerID: 1})
		hub.deliver(Event{Kind: "order.payment", sellerID: 1})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("deliver blocked on a full client queue")
	}

	assert.Equal(t, 1, hub.ClientCount(1))

	// The slow client got the first event, then its queue was closed
	ev, ok := <-slow.send
	require.True(t, ok)
	assert.Equal(t, "order.saved", ev.Kind)
	_, ok = <-slow.send
	assert.False(t, ok)

	assert.Len(t, fast.send, 2)
	hub.remove(1, fast)
	assert.Equal(t, 0, hub.ClientCount(1))
}
