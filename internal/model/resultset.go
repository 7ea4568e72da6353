package model

import (
	"strings"
	"time"
)

// Crate represents a single package returned by the registry search
type Crate struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	MaxVersion    string    `json:"max_version"`
	Downloads     int64     `json:"downloads"`
	Repository    string    `json:"repository,omitempty"`
	Documentation string    `json:"documentation,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DisplayDescription returns the description flattened to a single line
func (c *Crate) DisplayDescription() string {
	return strings.Join(strings.Fields(c.Description), " ")
}

// ResultSet is the full answer to one search query. A new ResultSet replaces
// the previous one wholesale; there is no incremental merge.
type ResultSet struct {
	Query      string    `json:"query"`
	Generation uint64    `json:"generation"`
	Crates     []Crate   `json:"crates"`
	Total      int       `json:"total"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// NewResultSet creates a result set for the given query and crates
func NewResultSet(query string, generation uint64, crates []Crate, total int) *ResultSet {
	if crates == nil {
		crates = make([]Crate, 0)
	}
	return &ResultSet{
		Query:      query,
		Generation: generation,
		Crates:     crates,
		Total:      total,
		FetchedAt:  time.Now(),
	}
}

// Len returns the number of crates in the set
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Crates)
}

// IsEmpty reports whether the search returned nothing
func (rs *ResultSet) IsEmpty() bool {
	return rs.Len() == 0
}

// At returns the crate at index i
func (rs *ResultSet) At(i int) (Crate, bool) {
	if rs == nil || i < 0 || i >= len(rs.Crates) {
		return Crate{}, false
	}
	return rs.Crates[i], true
}

// Find returns the crate with the given name
func (rs *ResultSet) Find(name string) (Crate, bool) {
	if rs == nil {
		return Crate{}, false
	}
	for _, c := range rs.Crates {
		if c.Name == name {
			return c, true
		}
	}
	return Crate{}, false
}

// Names returns crate names in result order
func (rs *ResultSet) Names() []string {
	names := make([]string, 0, rs.Len())
	if rs == nil {
		return names
	}
	for _, c := range rs.Crates {
		names = append(names, c.Name)
	}
	return names
}

// HasMore reports whether the registry knows more matches than were returned
func (rs *ResultSet) HasMore() bool {
	return rs != nil && rs.Total > len(rs.Crates)
}
