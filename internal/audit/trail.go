package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one immutable record in the audit trail. DataAccessed carries
// free-form resource tags such as "patient:PT_001" or "ticket:BILL-2024-001".
type Entry struct {
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	Action         string          `json:"action"`
	UserRole       string          `json:"user_role"`
	DataAccessed   []string        `json:"data_accessed"`
	SecurityEvents []SecurityEvent `json:"security_events"`
	SessionID      string          `json:"session_id"`
}

// Sink receives entries as they are appended. Sink failures are logged and
// never fail the append — persistence is best-effort, the in-memory trail
// is authoritative.
type Sink interface {
	Write(Entry) error
}

// Trail is the process-scoped, append-only audit log. Appends are
// serialized behind a mutex; entries are never mutated, reordered, or
// removed for the lifetime of the process.
type Trail struct {
	mu      sync.Mutex
	entries []Entry
	sinks   []Sink
}

// NewTrail returns an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

// AttachSink adds a persistence sink. Call before serving traffic; sinks
// are not synchronized against in-flight appends during attachment.
func (t *Trail) AttachSink(s Sink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sinks = append(t.sinks, s)
}

// Append constructs an entry and adds it to the trail. It is total: entry
// construction cannot fail, and sink errors only produce a warning.
func (t *Trail) Append(action, role string, dataAccessed []string, events []SecurityEvent) Entry {
	now := time.Now().UTC()
	entry := Entry{
		ID:             uuid.NewString(),
		Timestamp:      now,
		Action:         action,
		UserRole:       role,
		DataAccessed:   append([]string(nil), dataAccessed...),
		SecurityEvents: append([]SecurityEvent(nil), events...),
		SessionID:      sessionID(action, role, now),
	}

	t.mu.Lock()
	t.entries = append(t.entries, entry)
	sinks := t.sinks
	t.mu.Unlock()

	for _, s := range sinks {
		if err := s.Write(entry); err != nil {
			slog.Warn("audit sink write failed", "action", action, "error", err)
		}
	}
	return entry
}

// Len returns the number of entries appended so far.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// EventCount returns the number of entries carrying at least one security
// event.
func (t *Trail) EventCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, e := range t.entries {
		if len(e.SecurityEvents) > 0 {
			count++
		}
	}
	return count
}

// Entries returns a snapshot copy of the trail.
func (t *Trail) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// LastActivity returns the timestamp of the most recent entry, or false
// for an empty trail.
func (t *Trail) LastActivity() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return time.Time{}, false
	}
	return t.entries[len(t.entries)-1].Timestamp, true
}

// sessionID derives a log-correlation token from the entry's action, role,
// and timestamp. Not cryptographically unique: two entries with identical
// content in the same timestamp tick collide, which is acceptable for a
// correlation token.
func sessionID(action, role string, ts time.Time) string {
	sum := sha256.Sum256([]byte(action + role + ts.Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])[:16]
}
