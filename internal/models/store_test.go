package models_test

import (
	"context"
	"testing"

	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateAssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores()

	guest, err := stores.Guests.Create(ctx, &models.Guest{Name: "Ana", WillAttend: true, AdultsCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "id-1", guest.ID)
	assert.Equal(t, testutil.FixedClock().Now(), guest.CreatedAt)

	got, err := stores.Guests.Get(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, guest, got)
}

func TestStoreCreateRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores()

	tests := []struct {
		name  string
		guest *models.Guest
		field string
	}{
		{"blank name", &models.Guest{Name: "   "}, "name"},
		{"negative adults", &models.Guest{Name: "Ana", AdultsCount: -1}, "adults_count"},
		{"negative children", &models.Guest{Name: "Ana", ChildrenCount: -2}, "children_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stores.Guests.Create(ctx, tt.guest)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	all, err := stores.Guests.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all, "nothing is persisted on a validation failure")
}

func TestStoreListOrdering(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores()

	for _, name := range []string{"first", "second", "third"} {
		_, err := stores.Guests.Create(ctx, &models.Guest{Name: name})
		require.NoError(t, err)
	}

	names := func(gs []*models.Guest) []string {
		out := make([]string, len(gs))
		for i, g := range gs {
			out[i] = g.Name
		}
		return out
	}

	asc, err := stores.Guests.List(ctx, "created_at")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, names(asc))

	desc, err := stores.Guests.List(ctx, "-created_at")
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, names(desc))

	_, err = stores.Guests.List(ctx, "-favourite_colour")
	assert.True(t, models.IsValidation(err))
}

func TestStoreListTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores()

	for _, item := range []models.TimelineItem{
		{Title: "b", Date: "2025-02-01", Order: 2},
		{Title: "a1", Date: "2025-01-01", Order: 1},
		{Title: "a2", Date: "2025-01-02", Order: 1},
	} {
		item := item
		_, err := stores.Timeline.Create(ctx, &item)
		require.NoError(t, err)
	}

	items, err := stores.Timeline.List(ctx, "order")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a1", items[0].Title)
	assert.Equal(t, "a2", items[1].Title)
	assert.Equal(t, "b", items[2].Title)
}

func TestStoreFilter(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores()

	_, err := stores.Photos.Create(ctx, &models.Photo{GuestName: "Ana", PhotoURL: "a"})
	require.NoError(t, err)
	approved, err := stores.Photos.Create(ctx, &models.Photo{GuestName: "Bia", PhotoURL: "b", Approved: true})
	require.NoError(t, err)

	got, err := stores.Photos.Filter(ctx, models.Filter{"approved": true}, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, approved.ID, got[0].ID)

	none, err := stores.Photos.Filter(ctx, models.Filter{"guest_name": "Carla"}, "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = stores.Photos.Filter(ctx, models.Filter{"owner": "x"}, "")
	assert.True(t, models.IsValidation(err))
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores()

	item, err := stores.Timeline.Create(ctx, &models.TimelineItem{Title: "Nasceu", Date: "2024-11-27", Order: 1})
	require.NoError(t, err)

	updated, err := stores.Timeline.Update(ctx, item.ID, map[string]any{"title": "Nascimento", "age_months": float64(0)})
	require.NoError(t, err)
	assert.Equal(t, "Nascimento", updated.Title)
	assert.Equal(t, "2024-11-27", updated.Date, "unpatched fields are kept")
	assert.Equal(t, item.CreatedAt, updated.CreatedAt)

	got, err := stores.Timeline.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	t.Run("immutable fields", func(t *testing.T) {
		_, err := stores.Timeline.Update(ctx, item.ID, map[string]any{"id": "other"})
		assert.True(t, models.IsValidation(err))
		_, err = stores.Timeline.Update(ctx, item.ID, map[string]any{"created_at": "2020-01-01T00:00:00Z"})
		assert.True(t, models.IsValidation(err))
	})

	t.Run("merged record is validated", func(t *testing.T) {
		_, err := stores.Timeline.Update(ctx, item.ID, map[string]any{"title": ""})
		assert.True(t, models.IsValidation(err))

		got, err := stores.Timeline.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Nascimento", got.Title)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := stores.Timeline.Update(ctx, item.ID, map[string]any{"order": "first"})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "order", verr.Field)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := stores.Timeline.Update(ctx, "nope", map[string]any{"title": "x"})
		var nf *models.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, models.KindTimelineItem, nf.Kind)
	})
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores()

	guest, err := stores.Guests.Create(ctx, &models.Guest{Name: "Ana"})
	require.NoError(t, err)

	require.NoError(t, stores.Guests.Delete(ctx, guest.ID))

	_, err = stores.Guests.Get(ctx, guest.ID)
	assert.True(t, models.IsNotFound(err))

	err = stores.Guests.Delete(ctx, guest.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores()

	photo, err := stores.Photos.Create(ctx, &models.Photo{GuestName: "Ana", PhotoURL: "x"})
	require.NoError(t, err)

	got, err := stores.Photos.Get(ctx, photo.ID)
	require.NoError(t, err)
	got.Approved = true

	again, err := stores.Photos.Get(ctx, photo.ID)
	require.NoError(t, err)
	assert.False(t, again.Approved)
}
