// pkg/models/trending_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrendingSnapshot_IsStale(t *testing.T) {
	computed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	snap := &TrendingSnapshot{ComputedAt: computed}

	assert.False(t, snap.IsStale(computed.Add(time.Hour), 2*time.Hour))
	assert.False(t, snap.IsStale(computed.Add(2*time.Hour), 2*time.Hour), "exactly maxAge old is still fresh")
	assert.True(t, snap.IsStale(computed.Add(2*time.Hour+time.Nanosecond), 2*time.Hour))
}

func TestTrendingSnapshot_IsEmpty(t *testing.T) {
	var nilSnap *TrendingSnapshot
	assert.True(t, nilSnap.IsEmpty())
	assert.True(t, (&TrendingSnapshot{}).IsEmpty())
	assert.False(t, (&TrendingSnapshot{Entries: []RankedAgent{{}}}).IsEmpty())
}
