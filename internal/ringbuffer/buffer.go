package ringbuffer

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultCapacity is the default number of telegrams retained.
	DefaultCapacity = 200

	// unknownSenderCapacity bounds the separate unknown-sender tracking
	// list, which is much smaller since it holds one entry per sender
	// rather than one per telegram.
	unknownSenderCapacity = 50
)

// TelegramEntry is one recorded telegram, with decoding results filled in
// when the sender and its profile were both known.
type TelegramEntry struct {
	ID         string // correlation ID, assigned by Buffer.Add if empty
	Timestamp  time.Time
	SenderID   string
	RORG       string
	DataHex    string
	Status     byte
	DBm        int
	DeviceName string // empty when the sender has no registered device
	EEPID      string // empty when the device's profile couldn't be found
	Decoded    map[string]any
	IsTeachIn  bool
}

// UnknownSenderRecord tracks a sender address that has transmitted but has
// no registered device, so it can be surfaced for easy teach-in.
type UnknownSenderRecord struct {
	SenderID  string
	RORG      string
	FirstSeen time.Time
	LastSeen  time.Time
	Count     int
	DBm       int
}

// Buffer is a fixed-capacity, thread-safe telegram log plus unknown-sender
// tracking.
type Buffer struct {
	mu sync.Mutex

	capacity int
	entries  []TelegramEntry // oldest first

	unknown []UnknownSenderRecord
}

// New returns an empty Buffer with the given telegram capacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Add appends entry, evicting the oldest entry if the buffer is at
// capacity. When entry has no DeviceName, the sender is also recorded (or
// updated) in the unknown-sender list. If entry.ID is empty, Add assigns a
// new correlation ID so every stored entry is addressable by callers that
// only hold the entry, not its index (the telegram log, the teach-in hub).
func (b *Buffer) Add(entry TelegramEntry) TelegramEntry {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if overflow := len(b.entries) - b.capacity; overflow > 0 {
		b.entries = b.entries[overflow:]
	}

	if entry.DeviceName == "" {
		b.recordUnknown(entry.SenderID, entry.RORG, entry.DBm)
	}

	return entry
}

func (b *Buffer) recordUnknown(senderID, rorg string, dbm int) {
	now := time.Now()
	for i := range b.unknown {
		if b.unknown[i].SenderID == senderID {
			b.unknown[i].LastSeen = now
			b.unknown[i].Count++
			b.unknown[i].DBm = dbm
			return
		}
	}

	b.unknown = append(b.unknown, UnknownSenderRecord{
		SenderID:  senderID,
		RORG:      rorg,
		FirstSeen: now,
		LastSeen:  now,
		Count:     1,
		DBm:       dbm,
	})
	if overflow := len(b.unknown) - unknownSenderCapacity; overflow > 0 {
		b.unknown = b.unknown[overflow:]
	}
}

// Recent returns up to limit entries, most recent first.
func (b *Buffer) Recent(limit int) []TelegramEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	return reversedTail(b.entries, limit)
}

// ByDevice returns up to limit entries for deviceName, most recent first.
func (b *Buffer) ByDevice(deviceName string, limit int) []TelegramEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []TelegramEntry
	for _, e := range b.entries {
		if e.DeviceName == deviceName {
			matched = append(matched, e)
		}
	}
	return reversedTail(matched, limit)
}

// BySender returns up to limit entries from senderID (case-insensitive),
// most recent first.
func (b *Buffer) BySender(senderID string, limit int) []TelegramEntry {
	senderID = strings.ToUpper(senderID)

	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []TelegramEntry
	for _, e := range b.entries {
		if strings.ToUpper(e.SenderID) == senderID {
			matched = append(matched, e)
		}
	}
	return reversedTail(matched, limit)
}

// TeachIns returns up to limit teach-in entries, most recent first.
func (b *Buffer) TeachIns(limit int) []TelegramEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []TelegramEntry
	for _, e := range b.entries {
		if e.IsTeachIn {
			matched = append(matched, e)
		}
	}
	return reversedTail(matched, limit)
}

// UnknownSenders returns the current unknown-sender tracking list.
func (b *Buffer) UnknownSenders() []UnknownSenderRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]UnknownSenderRecord, len(b.unknown))
	copy(out, b.unknown)
	return out
}

// Clear empties both the telegram log and the unknown-sender list.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
	b.unknown = nil
}

// Stats summarizes the buffer's current contents.
type Stats struct {
	TotalCount         int
	Capacity           int
	UnknownSenderCount int
	TeachInCount       int
}

// Stats returns a snapshot of the buffer's current statistics.
func (b *Buffer) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	teachIns := 0
	for _, e := range b.entries {
		if e.IsTeachIn {
			teachIns++
		}
	}

	return Stats{
		TotalCount:         len(b.entries),
		Capacity:           b.capacity,
		UnknownSenderCount: len(b.unknown),
		TeachInCount:       teachIns,
	}
}

// reversedTail returns up to limit elements from the end of entries, in
// reverse (most-recent-first) order. limit <= 0 means "no limit".
func reversedTail[T any](entries []T, limit int) []T {
	start := 0
	if limit > 0 && len(entries) > limit {
		start = len(entries) - limit
	}
	tail := entries[start:]

	out := make([]T, len(tail))
	for i, e := range tail {
		out[len(tail)-1-i] = e
	}
	return out
}
