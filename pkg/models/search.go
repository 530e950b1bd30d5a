// pkg/models/search.go
package models

// SortKey names a supported sort dimension
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDownloads SortKey = "downloads"
	SortCreatedAt SortKey = "created_at"
	SortUpdatedAt SortKey = "updated_at"
	SortName      SortKey = "name"
)

// Valid reports whether the key is one of the supported dimensions
func (k SortKey) Valid() bool {
	switch k {
	case SortRelevance, SortDownloads, SortCreatedAt, SortUpdatedAt, SortName:
		return true
	}
	return false
}

// SortOrder is the requested direction
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SearchQuery is the typed filter/sort surface of the search engine.
// No free-form SQL is ever built from these fields.
type SearchQuery struct {
	Text     string    `json:"q"`
	Tags     []string  `json:"tags"`
	Author   string    `json:"author"`
	Sort     SortKey   `json:"sort"`
	Order    SortOrder `json:"order"`
	Page     uint32    `json:"page"`
	PageSize uint32    `json:"pageSize"`
}

// SearchResponse is the wire shape of a search result page
type SearchResponse struct {
	Results    []Agent `json:"results"`
	TotalCount uint64  `json:"totalCount"`
	Page       uint32  `json:"page"`
	PageSize   uint32  `json:"pageSize"`
}

// TrendingResponse is the wire shape of the trending endpoint
type TrendingResponse struct {
	Entries    []RankedAgent `json:"entries"`
	ComputedAt string        `json:"computedAt"`
}

// CounterResponse is returned by the view/download counter endpoints
type CounterResponse struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Count uint64 `json:"count"`
}
