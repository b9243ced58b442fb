package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	KindGuest        = "guest"
	KindPhoto        = "photo"
	KindPartyInfo    = "party_info"
	KindTimelineItem = "timeline_item"
)

// entity is satisfied by the pointer types of the four stored records.
type entity[T any] interface {
	*T
	RecordID() string
	stamp(id string, at time.Time)
}

// Store is the typed content store for one entity kind. It owns id and
// timestamp generation, validation and patch merging; the Repository only
// persists.
type Store[T any, P entity[T]] struct {
	kind   string
	repo   Repository[T]
	clock  Clock
	ids    IDGenerator
	fields map[string]bool
}

type (
	GuestStore        = Store[Guest, *Guest]
	PhotoStore        = Store[Photo, *Photo]
	PartyInfoStore    = Store[PartyInfo, *PartyInfo]
	TimelineItemStore = Store[TimelineItem, *TimelineItem]
)

type StoreOption func(*storeOptions)

type storeOptions struct {
	clock Clock
	ids   IDGenerator
}

func WithClock(c Clock) StoreOption {
	return func(o *storeOptions) { o.clock = c }
}

func WithIDGenerator(g IDGenerator) StoreOption {
	return func(o *storeOptions) { o.ids = g }
}

func NewStore[T any, P entity[T]](kind string, repo Repository[T], opts ...StoreOption) *Store[T, P] {
	o := storeOptions{clock: RealClock{}, ids: UUIDGenerator{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T, P]{
		kind:   kind,
		repo:   repo,
		clock:  o.clock,
		ids:    o.ids,
		fields: jsonFields[T](),
	}
}

func (s *Store[T, P]) Kind() string { return s.kind }

// Create assigns an id and creation time, validates and persists rec.
func (s *Store[T, P]) Create(ctx context.Context, rec *T) (*T, error) {
	if rec == nil {
		return nil, &ValidationError{Reason: s.kind + " data is required"}
	}
	if err := ValidateRecord(rec); err != nil {
		return nil, err
	}

	P(rec).stamp(s.ids.New(), s.clock.Now().UTC())
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.kind, err)
	}
	return rec, nil
}

func (s *Store[T, P]) Get(ctx context.Context, id string) (*T, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrap("get", id, err)
	}
	return rec, nil
}

// List returns every record ordered by orderKey ("field" or "-field"). An
// empty key keeps insertion order.
func (s *Store[T, P]) List(ctx context.Context, orderKey string) ([]*T, error) {
	return s.Filter(ctx, nil, orderKey)
}

// Filter returns the records whose fields equal every entry of filter.
func (s *Store[T, P]) Filter(ctx context.Context, filter Filter, orderKey string) ([]*T, error) {
	for field := range filter {
		if !s.fields[field] {
			return nil, &ValidationError{Field: field, Reason: "is not a " + s.kind + " field"}
		}
	}
	order := ParseOrder(orderKey)
	if order.Field != "" && !s.fields[order.Field] {
		return nil, &ValidationError{Field: order.Field, Reason: "is not a sortable " + s.kind + " field"}
	}

	recs, err := s.repo.Find(ctx, filter, order)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", s.kind, err)
	}
	if recs == nil {
		recs = []*T{}
	}
	return recs, nil
}

// Update merges patch (json field names) into the record and re-validates
// the result before persisting it.
func (s *Store[T, P]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	for field := range patch {
		if field == "id" || field == "created_at" {
			return nil, &ValidationError{Field: field, Reason: "cannot be changed"}
		}
		if !s.fields[field] {
			return nil, &ValidationError{Field: field, Reason: "is not a " + s.kind + " field"}
		}
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrap("update", id, err)
	}

	merged, err := mergePatch(current, patch)
	if err != nil {
		return nil, err
	}
	if err := ValidateRecord(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, id, merged); err != nil {
		return nil, s.wrap("update", id, err)
	}
	return merged, nil
}

func (s *Store[T, P]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap("delete", id, err)
	}
	return nil
}

func (s *Store[T, P]) wrap(op, id string, err error) error {
	if errors.Is(err, ErrNoRecord) {
		return &NotFoundError{Kind: s.kind, ID: id}
	}
	return fmt.Errorf("failed to %s %s %s: %w", op, s.kind, id, err)
}

// mergePatch overlays patch onto a copy of current using the json shape of T.
func mergePatch[T any](current *T, patch map[string]any) (*T, error) {
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	for k, v := range patch {
		doc[k] = v
	}

	raw, err = json.Marshal(doc)
	if err != nil {
		return nil, &ValidationError{Reason: "patch is not encodable: " + err.Error()}
	}
	merged := new(T)
	if err := json.Unmarshal(raw, merged); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Field: typeErr.Field, Reason: "has the wrong type"}
		}
		return nil, &ValidationError{Reason: err.Error()}
	}
	return merged, nil
}
