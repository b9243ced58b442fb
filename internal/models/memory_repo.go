package models

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps records as JSON documents in insertion order. It
// backs local development and tests.
type MemoryRepository[T any] struct {
	mu   sync.RWMutex
	rows []memoryRow
}

type memoryRow struct {
	id  string
	doc map[string]any
	raw []byte
}

func NewMemoryRepository[T any]() *MemoryRepository[T] {
	return &MemoryRepository[T]{}
}

func (m *MemoryRepository[T]) Insert(ctx context.Context, rec *T) error {
	row, err := encodeRow(rec)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.id == row.id {
			return fmt.Errorf("duplicate id %q", row.id)
		}
	}
	m.rows = append(m.rows, row)
	return nil
}

func (m *MemoryRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.rows {
		if r.id == id {
			return decodeRow[T](r)
		}
	}
	return nil, ErrNoRecord
}

func (m *MemoryRepository[T]) Find(ctx context.Context, filter Filter, order Order) ([]*T, error) {
	want, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	matched := make([]memoryRow, 0, len(m.rows))
	for _, r := range m.rows {
		if matches(r.doc, want) {
			matched = append(matched, r)
		}
	}
	m.mu.RUnlock()

	if order.Field != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			c := compareValues(matched[i].doc[order.Field], matched[j].doc[order.Field])
			if order.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	out := make([]*T, 0, len(matched))
	for _, r := range matched {
		rec, err := decodeRow[T](r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *MemoryRepository[T]) Replace(ctx context.Context, id string, rec *T) error {
	row, err := encodeRow(rec)
	if err != nil {
		return err
	}
	row.id = id

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.id == id {
			m.rows[i] = row
			return nil
		}
	}
	return ErrNoRecord
}

func (m *MemoryRepository[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.id == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return ErrNoRecord
}

func encodeRow(rec any) (memoryRow, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return memoryRow{}, fmt.Errorf("failed to encode record: %w", err)
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return memoryRow{}, fmt.Errorf("failed to decode record: %w", err)
	}
	id, _ := doc["id"].(string)
	return memoryRow{id: id, doc: doc, raw: raw}, nil
}

func decodeRow[T any](r memoryRow) (*T, error) {
	rec := new(T)
	if err := json.Unmarshal(r.raw, rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", r.id, err)
	}
	return rec, nil
}

// normalizeFilter gives filter values the same JSON shape as stored documents.
func normalizeFilter(filter Filter) (map[string]any, error) {
	if len(filter) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter: %w", err)
	}
	out := make(map[string]any, len(filter))
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode filter: %w", err)
	}
	return out, nil
}

func matches(doc, want map[string]any) bool {
	for k, v := range want {
		if !reflect.DeepEqual(doc[k], v) {
			return false
		}
	}
	return true
}

// compareValues orders decoded JSON scalars. Timestamps compare as times
// because RFC 3339 strings with trimmed fractions do not sort lexically.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	case string:
		if bv, ok := b.(string); ok {
			at, aErr := time.Parse(time.RFC3339Nano, av)
			bt, bErr := time.Parse(time.RFC3339Nano, bv)
			if aErr == nil && bErr == nil {
				return at.Compare(bt)
			}
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	// nil and mismatched types sort first
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return 0
}
