package models

// CounterSession is the active checkout counter for one tab. Owned by a
// single TabIdentity, replaced whole on every counter selection.
type CounterSession struct {
	CounterID   string `json:"counter_id"`
	CounterName string `json:"counter_name"`
	SessionID   string `json:"session_id"`
	TabID       string `json:"tab_id"`
	Timestamp   int64  `json:"timestamp"`
}
