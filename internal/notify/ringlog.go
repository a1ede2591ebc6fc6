package notify

import (
	"sync"
	"time"
)

// Outcome classifies what happened to a dispatch attempt.
type Outcome string

const (
	OutcomeSent       Outcome = "sent"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeFailed     Outcome = "failed"
)

// Record is one dispatch attempt kept for operational visibility.
type Record struct {
	RecipientID uint      `json:"recipientId"`
	SenderID    uint      `json:"senderId"`
	ActivityID  uint      `json:"activityId"`
	To          string    `json:"to,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	Preview     string    `json:"preview,omitempty"`
	Outcome     Outcome   `json:"outcome"`
	Detail      string    `json:"detail,omitempty"`
	At          time.Time `json:"at"`
}

// RingLog is a fixed-capacity circular log of dispatch records. When full,
// a new record overwrites the oldest one. The total counter keeps counting
// past the capacity so operators can see how much history was dropped.
//
// All methods are safe for concurrent use.
type RingLog struct {
	mu       sync.Mutex
	records  []Record
	capacity int
	// next is the slot the next record lands in (0 to capacity-1).
	next int
	// total is the number of records ever appended.
	total int
}

// NewRingLog creates a ring log holding at most capacity records.
func NewRingLog(capacity int) *RingLog {
	if capacity < 1 {
		capacity = 1
	}
	return &RingLog{records: make([]Record, 0, capacity), capacity: capacity}
}

// Append adds a record, evicting the oldest one when the log is full.
func (l *RingLog) Append(r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.records) < l.capacity {
		l.records = append(l.records, r)
	} else {
		l.records[l.next] = r
	}
	l.next = (l.next + 1) % l.capacity
	l.total++
}

// Records returns the retained records, newest first.
func (l *RingLog) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, 0, len(l.records))
	for i := 1; i <= len(l.records); i++ {
		out = append(out, l.records[(l.next-i+l.capacity)%l.capacity])
	}
	return out
}

// Total returns how many records were ever appended, including evicted ones.
func (l *RingLog) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
