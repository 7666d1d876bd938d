package datastreams

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famewire/famestock-server/models"
)

func dialStream(t *testing.T, server *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestTradesStreamDeliversSales(t *testing.T) {
	ts := NewTradesStream()
	server := httptest.NewServer(ts)
	defer server.Close()

	conn := dialStream(t, server)
	defer conn.Close()

	// Publishing races the subscriber registration on connect; wait for
	// the subscription to land.
	require.Eventually(t, func() bool {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		return len(ts.subscribers) == 1
	}, time.Second, 5*time.Millisecond)

	sale := &models.Sale{
		Id: 1, StockId: 2, NoOfShares: 100, PricePerShare: 10,
		From: "bob", To: "carol", CreatedAt: 1_700_000_000_000,
	}
	ts.PublishSale(sale)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got models.Sale
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, *sale, got)
}

func TestTradesStreamDropsGoneSubscribers(t *testing.T) {
	ts := NewTradesStream()
	server := httptest.NewServer(ts)
	defer server.Close()

	conn := dialStream(t, server)
	require.Eventually(t, func() bool {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		return len(ts.subscribers) == 1
	}, time.Second, 5*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		return len(ts.subscribers) == 0
	}, time.Second, 5*time.Millisecond)

	// Publishing with nobody listening is a no-op.
	ts.PublishSale(&models.Sale{Id: 2})
}
