package services_test

import (
	"context"
	"testing"

	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/services"
	"github.com/joshua-takyi/festa/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyCurrentAbsent(t *testing.T) {
	svc := services.NewPartyService(testutil.NewStores().Party, discardLogger())

	info, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestPartySaveCreatesThenUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	stores := testutil.NewStores()
	svc := services.NewPartyService(stores.Party, discardLogger())
	grant := testutil.AdminGrant(t)

	created, err := svc.Save(ctx, grant, services.PartyInput{
		EventName:      "1 ano do Lulu",
		Date:           "2025-11-29",
		Time:           "15:00",
		Address:        "Rua das Frutas, 10",
		LocationName:   "Salão Tutti Frutti",
		AdditionalInfo: "Traga protetor solar",
	})
	require.NoError(t, err)

	updated, err := svc.Save(ctx, grant, services.PartyInput{
		EventName: "1 ano do Lulu",
		Date:      "2025-11-30",
		Time:      "16:00",
		Address:   "Rua das Frutas, 10",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "2025-11-30", updated.Date)
	assert.Empty(t, updated.AdditionalInfo, "optional fields can be cleared")

	all, err := stores.Party.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, current)
}

func TestPartySaveValidation(t *testing.T) {
	ctx := context.Background()
	svc := services.NewPartyService(testutil.NewStores().Party, discardLogger())

	_, err := svc.Save(ctx, testutil.AdminGrant(t), services.PartyInput{EventName: "Festa", Date: "2025-11-29", Time: "15:00"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "address", verr.Field)

	info, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestPartySaveNeedsGrant(t *testing.T) {
	svc := services.NewPartyService(testutil.NewStores().Party, discardLogger())

	_, err := svc.Save(context.Background(), auth.Grant{}, services.PartyInput{
		EventName: "Festa", Date: "2025-11-29", Time: "15:00", Address: "Rua A",
	})
	assert.True(t, models.IsAuthorization(err))
}
