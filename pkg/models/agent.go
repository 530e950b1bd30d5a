// pkg/models/agent.go
package models

import "time"

// Agent is one published catalog entry. The catalog store owns the row;
// the discovery layer reads it and issues atomic counter updates only.
// DownloadCount and ViewCount are monotonically non-decreasing.
type Agent struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	AuthorName     string    `json:"authorName"`
	CurrentVersion string    `json:"currentVersion"`
	Tags           []string  `json:"tags"`
	Keywords       []string  `json:"keywords,omitempty"`
	DownloadCount  uint64    `json:"downloadCount"`
	ViewCount      uint64    `json:"viewCount"`
	License        string    `json:"license,omitempty"`
	Homepage       string    `json:"homepage,omitempty"`
	Repository     string    `json:"repository,omitempty"`
	Readme         string    `json:"readme,omitempty"`
	IsPublic       bool      `json:"isPublic"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// HasTag reports whether the entry carries the given tag
func (a *Agent) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CounterKind selects which popularity counter an increment targets
type CounterKind string

const (
	CounterDownload CounterKind = "download"
	CounterView     CounterKind = "view"
)

// Valid reports whether the kind names a known counter column
func (k CounterKind) Valid() bool {
	return k == CounterDownload || k == CounterView
}
