package remote

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/danisworo/pos-station/utils"
	"github.com/gorilla/websocket"
)

// Event types pushed by the backend.
const (
	EventSessionChanged = "session_changed"
	EventCatalogChanged = "catalog_changed"
)

type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EventFeed keeps a websocket open to the backend's event stream. A live
// connection doubles as the connectivity signal: dialing successfully flips
// the monitor online, losing the socket flips it offline.
type EventFeed struct {
	url      string
	monitor  *Monitor
	mu       sync.Mutex
	handlers map[string][]func(json.RawMessage)
	conn     *websocket.Conn
	stop     chan struct{}
	stopOnce sync.Once
}

func NewEventFeed(url string, monitor *Monitor) *EventFeed {
	return &EventFeed{
		url:      url,
		monitor:  monitor,
		handlers: make(map[string][]func(json.RawMessage)),
		stop:     make(chan struct{}),
	}
}

// On registers a handler for one event type.
func (f *EventFeed) On(event string, fn func(json.RawMessage)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[event] = append(f.handlers[event], fn)
}

// Start runs the dial/read/retry loop in the background.
func (f *EventFeed) Start() {
	go f.run()
}

// Stop ends the feed. An open connection is closed so the read loop
// unblocks instead of waiting for the server to hang up.
func (f *EventFeed) Stop() {
	f.stopOnce.Do(func() {
		close(f.stop)
		f.mu.Lock()
		if f.conn != nil {
			f.conn.Close()
		}
		f.mu.Unlock()
	})
}

func (f *EventFeed) run() {
	for {
		select {
		case <-f.stop:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
		if err != nil {
			f.monitor.SetOnline(false)
			select {
			case <-f.stop:
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		f.mu.Lock()
		f.conn = conn
		f.mu.Unlock()

		// Stop may have raced the dial; close the socket it never saw.
		select {
		case <-f.stop:
			conn.Close()
			return
		default:
		}

		utils.InfoLogger.Infof("event feed connected to %s", f.url)
		f.monitor.SetOnline(true)
		f.readLoop(conn)
		f.monitor.SetOnline(false)

		f.mu.Lock()
		f.conn = nil
		f.mu.Unlock()
		conn.Close()
	}
}

func (f *EventFeed) readLoop(conn *websocket.Conn) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			utils.InfoLogger.Warnf("event feed disconnected: %v", err)
			return
		}
		f.dispatch(msg)
	}
}

func (f *EventFeed) dispatch(msg Message) {
	f.mu.Lock()
	handlers := make([]func(json.RawMessage), len(f.handlers[msg.Event]))
	copy(handlers, f.handlers[msg.Event])
	f.mu.Unlock()

	for _, fn := range handlers {
		fn(msg.Data)
	}
}
