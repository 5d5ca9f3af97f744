// Package credentials owns the shared pool of upstream access keys.
//
// The pool is the only process-wide mutable state in the aggregation core.
// Rotation is round-robin so quota usage spreads evenly across keys; keys
// rejected by the provider are quarantined and re-admitted after a cooldown.
package credentials

import (
	"errors"
	"sync"
	"time"
)

// ErrExhausted is returned by Acquire when every configured key is currently
// marked invalid. Callers should surface this as a service-unavailable
// condition rather than retrying.
var ErrExhausted = errors.New("credentials: all keys are marked invalid")

// Pool rotates over a fixed set of opaque key tokens. All cursor and
// invalid-set mutations happen under one short-held mutex; no I/O ever
// occurs while it is held.
type Pool struct {
	mu       sync.Mutex
	keys     []string
	cursor   int
	invalid  map[string]time.Time // key -> time it was marked invalid
	cooldown time.Duration
}

// NewPool creates a pool over the given keys. A key marked invalid becomes a
// candidate again once cooldown has elapsed; cooldown <= 0 quarantines keys
// for the lifetime of the process.
func NewPool(keys []string, cooldown time.Duration) *Pool {
	owned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			owned = append(owned, k)
		}
	}
	return &Pool{
		keys:     owned,
		invalid:  make(map[string]time.Time),
		cooldown: cooldown,
	}
}

// Acquire returns the next valid key in rotation. The cursor advances on
// every acquisition so concurrent callers distribute load across keys.
// Returns ErrExhausted when no valid key exists.
func (p *Pool) Acquire() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.keys)
	if n == 0 {
		return "", ErrExhausted
	}

	for i := 0; i < n; i++ {
		key := p.keys[p.cursor]
		p.cursor = (p.cursor + 1) % n
		if p.usableLocked(key) {
			return key, nil
		}
	}

	return "", ErrExhausted
}

// MarkInvalid quarantines a key after the provider rejected it (401/403).
// Marking an unknown key is a no-op.
func (p *Pool) MarkInvalid(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, k := range p.keys {
		if k == key {
			p.invalid[key] = time.Now()
			return
		}
	}
}

// TryRecover drops cooled-down entries from the invalid set and returns how
// many keys were re-admitted. Intended to be called periodically.
func (p *Pool) TryRecover() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cooldown <= 0 {
		return 0
	}

	recovered := 0
	for key, markedAt := range p.invalid {
		if time.Since(markedAt) >= p.cooldown {
			delete(p.invalid, key)
			recovered++
		}
	}
	return recovered
}

// Size returns the number of configured keys.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// InvalidCount returns how many keys are currently quarantined.
func (p *Pool) InvalidCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, k := range p.keys {
		if !p.usableLocked(k) {
			count++
		}
	}
	return count
}

// usableLocked reports whether a key is outside quarantine. A cooled-down key
// counts as usable even before TryRecover prunes it.
func (p *Pool) usableLocked(key string) bool {
	markedAt, bad := p.invalid[key]
	if !bad {
		return true
	}
	return p.cooldown > 0 && time.Since(markedAt) >= p.cooldown
}
