package testutil

import (
	"context"
	"sync"

	"github.com/joshua-takyi/festa/internal/models"
)

// Stores bundles one in-memory store per entity kind.
type Stores struct {
	Guests   *models.GuestStore
	Photos   *models.PhotoStore
	Party    *models.PartyInfoStore
	Timeline *models.TimelineItemStore
}

// NewStores builds memory-backed stores sharing a ticking clock and a
// sequential id generator.
func NewStores() *Stores {
	opts := []models.StoreOption{
		models.WithClock(TickingClock()),
		models.WithIDGenerator(NewStubIDGenerator()),
	}
	return &Stores{
		Guests:   models.NewStore[models.Guest](models.KindGuest, models.NewMemoryRepository[models.Guest](), opts...),
		Photos:   models.NewStore[models.Photo](models.KindPhoto, models.NewMemoryRepository[models.Photo](), opts...),
		Party:    models.NewStore[models.PartyInfo](models.KindPartyInfo, models.NewMemoryRepository[models.PartyInfo](), opts...),
		Timeline: models.NewStore[models.TimelineItem](models.KindTimelineItem, models.NewMemoryRepository[models.TimelineItem](), opts...),
	}
}

// BrokenRepository wraps a memory repository and fails writes with Err.
// Reads pass through.
type BrokenRepository[T any] struct {
	*models.MemoryRepository[T]

	mu  sync.Mutex
	Err error
}

func NewBrokenRepository[T any](err error) *BrokenRepository[T] {
	return &BrokenRepository[T]{MemoryRepository: models.NewMemoryRepository[T](), Err: err}
}

func (b *BrokenRepository[T]) failure() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Err
}

func (b *BrokenRepository[T]) Insert(ctx context.Context, rec *T) error {
	if err := b.failure(); err != nil {
		return err
	}
	return b.MemoryRepository.Insert(ctx, rec)
}

func (b *BrokenRepository[T]) Replace(ctx context.Context, id string, rec *T) error {
	if err := b.failure(); err != nil {
		return err
	}
	return b.MemoryRepository.Replace(ctx, id, rec)
}

func (b *BrokenRepository[T]) Find(ctx context.Context, filter models.Filter, order models.Order) ([]*T, error) {
	if err := b.failure(); err != nil {
		return nil, err
	}
	return b.MemoryRepository.Find(ctx, filter, order)
}
