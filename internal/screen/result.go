package screen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnexpectedShape is returned when a list response is neither an array nor an envelope.
var ErrUnexpectedShape = errors.New("screen: unexpected list response")

// Record is an entity as returned by the API. Only the id is interpreted.
type Record map[string]any

// ID returns the record identifier as text.
func (r Record) ID() string {
	return stringify(r["id"])
}

// String returns the field formatted as text, or "" when absent.
func (r Record) String(key string) string {
	return stringify(r[key])
}

// Float returns the field as a number.
func (r Record) Float(key string) (float64, bool) {
	return toFloat(r[key])
}

// ListResult is one normalized page of a list endpoint.
type ListResult struct {
	Items      []Record
	TotalCount int
}

type envelope struct {
	Results []Record `json:"results"`
	Count   int      `json:"count"`
}

// DecodeListResult accepts a bare array, whose length is the total, or the
// paginated envelope {results, count}.
func DecodeListResult(raw json.RawMessage) (ListResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ListResult{Items: []Record{}}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	switch trimmed[0] {
	case '[':
		var items []Record
		if err := dec.Decode(&items); err != nil {
			return ListResult{}, fmt.Errorf("screen: decode list: %w", err)
		}
		if items == nil {
			items = []Record{}
		}
		return ListResult{Items: items, TotalCount: len(items)}, nil
	case '{':
		var env envelope
		if err := dec.Decode(&env); err != nil {
			return ListResult{}, fmt.Errorf("screen: decode envelope: %w", err)
		}
		if env.Results == nil {
			env.Results = []Record{}
		}
		return ListResult{Items: env.Results, TotalCount: env.Count}, nil
	}
	return ListResult{}, ErrUnexpectedShape
}

// DecodeRecord decodes a single record keeping numbers exact.
func DecodeRecord(raw json.RawMessage) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("screen: decode record: %w", err)
	}
	return rec, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
