package remote

import "sync"

// Monitor fans out the online/offline signal. The station never probes
// reachability itself; the event feed (or a manual report) feeds this.
type Monitor struct {
	mu          sync.Mutex
	online      bool
	subscribers []func(online bool)
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// Subscribe registers a callback fired on every state change.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// SetOnline records the connectivity state, notifying subscribers only on
// an actual transition.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]func(bool), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(online)
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}
