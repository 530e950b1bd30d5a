// pkg/models/trending.go
package models

import "time"

// RankedAgent is an Agent plus its derived trending score.
// Never persisted on its own; recomputed wholesale, never patched.
type RankedAgent struct {
	Agent
	TrendingScore float64 `json:"trendingScore"`
}

// TrendingSnapshot is a point-in-time ordered ranking. A refresh replaces
// the whole snapshot; entries are never mutated in place.
type TrendingSnapshot struct {
	Entries    []RankedAgent `json:"entries"`
	ComputedAt time.Time     `json:"computedAt"`
}

// IsStale reports whether the snapshot is older than maxAge at the given time
func (s *TrendingSnapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.ComputedAt) > maxAge
}

// IsEmpty reports whether the snapshot holds no entries
func (s *TrendingSnapshot) IsEmpty() bool {
	return s == nil || len(s.Entries) == 0
}
