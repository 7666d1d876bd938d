// Package datastreams pushes executed trades to websocket subscribers.
// The engine publishes every Sale after its operation commits; the
// stream fans it out to whoever is connected. Delivery is best-effort:
// a slow subscriber drops updates rather than blocking the exchange.
package datastreams

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/famewire/famestock-server/models"
	"github.com/famewire/famestock-server/utils"
)

var upgrader = websocket.Upgrader{
	// The invocation boundary authenticates callers; the public trade
	// feed itself carries no per-account data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TradesStream broadcasts executed sales to websocket subscribers.
type TradesStream struct {
	logger *logrus.Entry

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	updates chan *models.Sale
}

// NewTradesStream creates an empty trades stream.
func NewTradesStream() *TradesStream {
	return &TradesStream{
		logger: utils.Logger.WithFields(logrus.Fields{
			"module": "datastreams.TradesStream",
		}),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// PublishSale fans a committed sale out to all subscribers. It never
// blocks: subscribers whose buffers are full miss the update.
func (ts *TradesStream) PublishSale(sale *models.Sale) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for sub := range ts.subscribers {
		select {
		case sub.updates <- sale:
		default:
		}
	}
}

// ServeHTTP upgrades the request to a websocket and streams sales to
// it until the peer goes away.
func (ts *TradesStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := ts.logger.WithFields(logrus.Fields{
		"method":      "ServeHTTP",
		"remote_addr": r.RemoteAddr,
	})

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Errorf("Error upgrading connection: %+v", err)
		return
	}

	sub := &subscriber{updates: make(chan *models.Sale, 64)}

	ts.mu.Lock()
	ts.subscribers[sub] = struct{}{}
	ts.mu.Unlock()

	l.Infof("Subscriber added")

	done := make(chan struct{})

	// Reader goroutine: we ignore incoming messages but need the read
	// loop to learn when the peer disconnects.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case sale := <-sub.updates:
			if err := conn.WriteJSON(sale); err != nil {
				l.Infof("Subscriber write failed, dropping: %+v", err)
				ts.remove(sub)
				conn.Close()
				return
			}
		case <-done:
			ts.remove(sub)
			conn.Close()
			l.Infof("Subscriber gone")
			return
		}
	}
}

func (ts *TradesStream) remove(sub *subscriber) {
	ts.mu.Lock()
	delete(ts.subscribers, sub)
	ts.mu.Unlock()
}
