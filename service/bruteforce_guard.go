package service

import (
	"go-admin-auth/logger"
	"sync"
	"time"
)

type bruteForceEntry struct {
	failures int
	resetAt  time.Time
}

// BruteForceGuard is a per-IP failed-login throttle. It keeps a leaky counter
// in process memory: every failure bumps the count and pushes the window
// expiry out to now+window; once the count reaches maxAttempts the IP is
// blocked until the window lapses, after which the entry is dropped and
// counting restarts from zero.
//
// This is an approximate limiter (bursts straddling a window boundary can
// exceed the nominal rate) and it is single-process only. A multi-instance
// deployment would need a shared store instead.
type BruteForceGuard struct {
	mu          sync.Mutex
	entries     map[string]*bruteForceEntry
	maxAttempts int
	window      time.Duration

	stopSweep chan struct{}
	sweepOnce sync.Once
}

func NewBruteForceGuard(maxAttempts int, window time.Duration) *BruteForceGuard {
	return &BruteForceGuard{
		entries:     make(map[string]*bruteForceEntry),
		maxAttempts: maxAttempts,
		window:      window,
		stopSweep:   make(chan struct{}),
	}
}

// IsBlocked reports whether an IP has exhausted its failure budget. Stale
// entries are dropped on sight so a lapsed window always unblocks.
func (g *BruteForceGuard) IsBlocked(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[ip]
	if !ok {
		return false
	}
	if time.Now().After(entry.resetAt) {
		delete(g.entries, ip)
		return false
	}
	return entry.failures >= g.maxAttempts
}

// RecordFailure counts one failed login for an IP and restarts its window.
func (g *BruteForceGuard) RecordFailure(ip string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	entry, ok := g.entries[ip]
	if !ok || now.After(entry.resetAt) {
		entry = &bruteForceEntry{}
		g.entries[ip] = entry
	}
	entry.failures++
	entry.resetAt = now.Add(g.window)

	if entry.failures == g.maxAttempts {
		logger.Log.WithField("ip", ip).Warn("IP blocked after repeated failed logins")
	}
}

// Reset clears all state. For tests.
func (g *BruteForceGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries = make(map[string]*bruteForceEntry)
}

// StartSweeper launches a background loop that discards stale entries so the
// map stays bounded even for IPs that never come back. Stop terminates it.
func (g *BruteForceGuard) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.sweep()
			case <-g.stopSweep:
				return
			}
		}
	}()
}

// Stop terminates the sweeper loop. Safe to call more than once.
func (g *BruteForceGuard) Stop() {
	g.sweepOnce.Do(func() { close(g.stopSweep) })
}

func (g *BruteForceGuard) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for ip, entry := range g.entries {
		if now.After(entry.resetAt) {
			delete(g.entries, ip)
		}
	}
}
