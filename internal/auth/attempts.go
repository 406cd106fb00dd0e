package auth

import (
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultLockout     = 15 * time.Minute
)

// ErrLocked is returned while a (email, ip) key is locked out.
var ErrLocked = errors.New("too many failed attempts, try again later")

type attemptRecord struct {
	failures    int
	lockedUntil time.Time
	lastFailure time.Time
}

// AttemptTracker counts failed logins per (email, ip). State is process-local
// and lost on restart.
type AttemptTracker struct {
	mu          sync.Mutex
	records     map[string]*attemptRecord
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

func NewAttemptTracker(maxAttempts int, lockout time.Duration) *AttemptTracker {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = DefaultLockout
	}
	return &AttemptTracker{
		records:     make(map[string]*attemptRecord),
		maxAttempts: maxAttempts,
		lockout:     lockout,
		now:         time.Now,
	}
}

func attemptKey(email, ip string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "|" + ip
}

// RecordFailure counts a failed attempt. Reaching the threshold locks the key
// and resets its counter. It returns true when this failure caused a lockout.
func (t *AttemptTracker) RecordFailure(email, ip string) bool {
	key := attemptKey(email, ip)

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[key]
	if !ok {
		rec = &attemptRecord{}
		t.records[key] = rec
	}
	rec.failures++
	rec.lastFailure = t.now()
	if rec.failures >= t.maxAttempts {
		rec.failures = 0
		rec.lockedUntil = t.now().Add(t.lockout)
		return true
	}
	return false
}

func (t *AttemptTracker) IsBlocked(email, ip string) bool {
	key := attemptKey(email, ip)

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[key]
	if !ok {
		return false
	}
	if rec.lockedUntil.IsZero() {
		return false
	}
	if t.now().Before(rec.lockedUntil) {
		return true
	}
	rec.lockedUntil = time.Time{}
	if rec.failures == 0 {
		delete(t.records, key)
	}
	return false
}

func (t *AttemptTracker) ClearOnSuccess(email, ip string) {
	t.mu.Lock()
	delete(t.records, attemptKey(email, ip))
	t.mu.Unlock()
}

// RetryAfter reports how long the key stays locked, zero when it is not.
func (t *AttemptTracker) RetryAfter(email, ip string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[attemptKey(email, ip)]
	if !ok {
		return 0
	}
	if d := rec.lockedUntil.Sub(t.now()); d > 0 {
		return d
	}
	return 0
}

// Sweep drops keys that are not locked and have not failed for longer than
// idle. It returns how many were removed.
func (t *AttemptTracker) Sweep(idle time.Duration) int {
	now := t.now()
	cutoff := now.Add(-idle)

	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for key, rec := range t.records {
		if now.Before(rec.lockedUntil) || !rec.lastFailure.Before(cutoff) {
			continue
		}
		delete(t.records, key)
		n++
	}
	return n
}

func (t *AttemptTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
