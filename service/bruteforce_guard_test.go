package service

import (
	"go-admin-auth/logger"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestBruteForceGuard_BlocksAfterMaxAttempts(t *testing.T) {
	guard := NewBruteForceGuard(5, time.Minute)

	ip := "10.0.0.1"
	for i := 0; i < 4; i++ {
		guard.RecordFailure(ip)
		assert.False(t, guard.IsBlocked(ip), "should not block before the threshold")
	}

	guard.RecordFailure(ip)
	assert.True(t, guard.IsBlocked(ip), "5th failure within the window must block")

	// The block applies regardless of what the next attempt carries.
	assert.True(t, guard.IsBlocked(ip))
	assert.False(t, guard.IsBlocked("10.0.0.2"), "other IPs are unaffected")
}

func TestBruteForceGuard_WindowExpiryUnblocksAndResetsCount(t *testing.T) {
	guard := NewBruteForceGuard(2, 30*time.Millisecond)
	ip := "192.168.1.50"

	guard.RecordFailure(ip)
	guard.RecordFailure(ip)
	assert.True(t, guard.IsBlocked(ip))

	time.Sleep(40 * time.Millisecond)
	assert.False(t, guard.IsBlocked(ip), "block must lapse with the window")

	// Counting restarts from zero after the window, not from where it left off.
	guard.RecordFailure(ip)
	assert.False(t, guard.IsBlocked(ip))
}

func TestBruteForceGuard_FailureExtendsWindow(t *testing.T) {
	guard := NewBruteForceGuard(2, 50*time.Millisecond)
	ip := "172.16.0.9"

	guard.RecordFailure(ip)
	time.Sleep(30 * time.Millisecond)
	guard.RecordFailure(ip) // resets the window expiry to now+50ms
	time.Sleep(30 * time.Millisecond)

	assert.True(t, guard.IsBlocked(ip), "window is anchored to the latest failure")
}

func TestBruteForceGuard_SweepDropsStaleEntries(t *testing.T) {
	guard := NewBruteForceGuard(5, 10*time.Millisecond)

	guard.RecordFailure("10.1.1.1")
	guard.RecordFailure("10.1.1.2")
	time.Sleep(20 * time.Millisecond)
	guard.RecordFailure("10.1.1.3")

	guard.sweep()

	guard.mu.Lock()
	defer guard.mu.Unlock()
	assert.Len(t, guard.entries, 1, "stale entries must be discarded")
	assert.Contains(t, guard.entries, "10.1.1.3")
}

func TestBruteForceGuard_Reset(t *testing.T) {
	guard := NewBruteForceGuard(1, time.Minute)
	guard.RecordFailure("10.9.9.9")
	assert.True(t, guard.IsBlocked("10.9.9.9"))

	guard.Reset()
	assert.False(t, guard.IsBlocked("10.9.9.9"))
}
