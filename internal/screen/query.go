package screen

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ListQuery is the page and filter set sent with every list load.
type ListQuery struct {
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Filters  map[string]string `json:"filters,omitempty"`
}

// NewListQuery starts at page 1 with no filters.
func NewListQuery(pageSize int) ListQuery {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ListQuery{Page: 1, PageSize: pageSize}
}

// SetFilter stores value under name and returns to the first page. An empty
// value removes the filter.
func (q *ListQuery) SetFilter(name, value string) {
	if value == "" {
		delete(q.Filters, name)
	} else {
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[name] = value
	}
	q.Page = 1
}

// Filter returns the current value of name.
func (q ListQuery) Filter(name string) string {
	return q.Filters[name]
}

// Values encodes the query for the API: page plus every non-empty filter.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	for name, value := range q.Filters {
		if value != "" {
			v.Set(name, value)
		}
	}
	return v
}

// PageCount is ceil(total/pageSize).
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// State is the list state of one screen, kept between requests.
type State struct {
	Query      ListQuery `json:"query"`
	TotalCount int       `json:"total_count"`
}

// NewState returns the initial state for def.
func NewState(def Definition) *State {
	return &State{Query: NewListQuery(def.pageSize())}
}

// PageCount returns the number of pages of the last load.
func (s *State) PageCount() int {
	return PageCount(s.TotalCount, s.Query.PageSize)
}

// Slots is the session storage a State is persisted in.
type Slots interface {
	Get(key string) string
	Set(key, value string)
}

func stateKey(name string) string {
	return "screen:" + name
}

// LoadState restores the state of def from slots, falling back to a fresh one.
func LoadState(slots Slots, def Definition) *State {
	state := NewState(def)
	raw := slots.Get(stateKey(def.Name))
	if raw == "" {
		return state
	}
	var stored State
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return state
	}
	if stored.Query.Page < 1 {
		stored.Query.Page = 1
	}
	stored.Query.PageSize = state.Query.PageSize
	return &stored
}

// SaveState persists state for def.
func SaveState(slots Slots, def Definition, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("screen: encode state: %w", err)
	}
	slots.Set(stateKey(def.Name), string(raw))
	return nil
}
