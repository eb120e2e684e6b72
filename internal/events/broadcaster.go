package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/monitoring"
)

// ErrMaxConnectionsReached rejects a client above the connection limit.
var ErrMaxConnectionsReached = errors.New("maximum WebSocket connections reached")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 32
)

// Message is one status notification as sent to websocket clients.
type Message struct {
	ID        uint64 `json:"id"`
	Topic     string `json:"topic"`
	Timestamp string `json:"timestamp"`
	Payload   any    `json:"payload,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// Broadcaster relays hub events to websocket clients and keeps a bounded history
// so late joiners see the most recent notifications.
type Broadcaster struct {
	mu             sync.RWMutex
	clients        map[*client]struct{}
	maxConnections int

	historyMu  sync.RWMutex
	history    []Message
	historyCap int
	seq        uint64
}

// NewBroadcaster creates a broadcaster. Non-positive arguments fall back to defaults.
func NewBroadcaster(historyCap, maxConnections int) *Broadcaster {
	if historyCap <= 0 {
		historyCap = 100
	}
	if maxConnections <= 0 {
		maxConnections = 100
	}
	return &Broadcaster{
		clients:        make(map[*client]struct{}),
		maxConnections: maxConnections,
		history:        make([]Message, 0, historyCap),
		historyCap:     historyCap,
	}
}

// Attach subscribes the broadcaster to the given topics and returns the unsubscribe func.
func (b *Broadcaster) Attach(sub Subscriber, topics ...string) func() {
	unsubs := make([]func(), 0, len(topics))
	for _, topic := range topics {
		unsubs = append(unsubs, sub.Subscribe(topic, func(_ context.Context, ev Event) {
			b.Broadcast(ev)
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Broadcast records ev in history and queues it for every client.
// Slow clients whose queue is full miss the message.
func (b *Broadcaster) Broadcast(ev Event) {
	msg := b.appendHistory(ev)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		select {
		case c.send <- msg:
		default:
			log.Debug("status client queue full, dropping message")
		}
	}
}

func (b *Broadcaster) appendHistory(ev Event) Message {
	b.historyMu.Lock()
	defer b.historyMu.Unlock()
	b.seq++
	msg := Message{
		ID:        b.seq,
		Topic:     ev.Topic,
		Timestamp: ev.Timestamp.Format(time.RFC3339),
		Payload:   ev.Payload,
	}
	b.history = append(b.history, msg)
	if len(b.history) > b.historyCap {
		excess := len(b.history) - b.historyCap
		b.history = append([]Message(nil), b.history[excess:]...)
	}
	return msg
}

// History returns messages newer than cursor, oldest first.
func (b *Broadcaster) History(cursor uint64) []Message {
	b.historyMu.RLock()
	defer b.historyMu.RUnlock()
	out := make([]Message, 0, len(b.history))
	for _, m := range b.history {
		if m.ID > cursor {
			out = append(out, m)
		}
	}
	return out
}

// ConnectionCount returns the current number of connected clients.
func (b *Broadcaster) ConnectionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// MaxConnections returns the client cap.
func (b *Broadcaster) MaxConnections() int { return b.maxConnections }

// Serve registers conn, replays history and pumps messages until the peer
// goes away or ctx is done. It closes conn before returning.
func (b *Broadcaster) Serve(ctx context.Context, conn *websocket.Conn) error {
	c := &client{conn: conn, send: make(chan Message, clientSendSize)}
	if err := b.add(c); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return err
	}
	defer b.remove(c)

	var last uint64
	for _, m := range b.History(0) {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(m); err != nil {
			return err
		}
		last = m.ID
	}

	done := make(chan struct{})
	go b.readPump(c, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case m := <-c.send:
			if m.ID <= last {
				continue
			}
			last = m.ID
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// readPump discards inbound frames; its only job is noticing the close.
func (b *Broadcaster) readPump(c *client, done chan<- struct{}) {
	defer close(done)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) add(c *client) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.clients) >= b.maxConnections {
		log.Warnf("status stream connection limit reached (%d), rejecting new connection", b.maxConnections)
		return ErrMaxConnectionsReached
	}
	b.clients[c] = struct{}{}
	monitoring.WebSocketClients.Set(float64(len(b.clients)))
	log.Infof("status stream client connected (total: %d)", len(b.clients))
	return nil
}

func (b *Broadcaster) remove(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c]; !ok {
		return
	}
	delete(b.clients, c)
	_ = c.conn.Close()
	monitoring.WebSocketClients.Set(float64(len(b.clients)))
	log.Infof("status stream client disconnected (remaining: %d)", len(b.clients))
}

// Stop closes every client connection.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		_ = c.conn.Close()
	}
	b.clients = make(map[*client]struct{})
	monitoring.WebSocketClients.Set(0)
}
