package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/cafe-api/config"
	"github.com/yeremiapane/cafe-api/database"
	"github.com/yeremiapane/cafe-api/models"
)

func ptrString(s string) *string { return &s }

func setupTestStore(t *testing.T) *CafeStore {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"}, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewCafeStore(db)
}

func newCafe(name, location string) *models.Cafe {
	return &models.Cafe{
		Name:        name,
		MapURL:      "https://maps.example/" + name,
		ImgURL:      "https://img.example/" + name,
		Location:    location,
		Seats:       "10-20",
		HasToilet:   true,
		HasWifi:     true,
		CoffeePrice: ptrString("£2.50"),
	}
}

func TestCreateAssignsIDAndGetReturnsFields(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	cafe := newCafe("Costa", "London")
	cafe.ID = 12345
	require.NoError(t, store.Create(ctx, cafe))
	assert.NotZero(t, cafe.ID)
	assert.NotEqual(t, 12345, cafe.ID)

	got, err := store.Get(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Equal(t, *cafe, *got)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, *cafe)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newCafe("Costa", "London")))
	err := store.Create(ctx, newCafe("Costa", "Leeds"))
	assert.ErrorIs(t, err, ErrDuplicateCafe)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFindByLocationIsExactMatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newCafe("A", "London")))
	require.NoError(t, store.Create(ctx, newCafe("B", "london")))
	require.NoError(t, store.Create(ctx, newCafe("C", "London")))

	cafes, err := store.FindByLocation(ctx, "London")
	require.NoError(t, err)
	require.Len(t, cafes, 2)
	assert.Equal(t, "A", cafes[0].Name)
	assert.Equal(t, "C", cafes[1].Name)

	none, err := store.FindByLocation(ctx, "Paris")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRandom(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Random(ctx)
	assert.ErrorIs(t, err, ErrCafeNotFound)

	require.NoError(t, store.Create(ctx, newCafe("Only", "Bristol")))
	cafe, err := store.Random(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Only", cafe.Name)
}

func TestUpdatePriceChangesOnlyPrice(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	cafe := newCafe("Costa", "London")
	require.NoError(t, store.Create(ctx, cafe))

	updated, err := store.UpdatePrice(ctx, cafe.ID, ptrString("£3.00"))
	require.NoError(t, err)
	assert.Equal(t, "£3.00", *updated.CoffeePrice)

	got, err := store.Get(ctx, cafe.ID)
	require.NoError(t, err)
	want := *cafe
	want.CoffeePrice = ptrString("£3.00")
	assert.Equal(t, want, *got)

	_, err = store.UpdatePrice(ctx, cafe.ID, nil)
	require.NoError(t, err)
	got, err = store.Get(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CoffeePrice)
}

func TestUpdatePriceMissingCafe(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.UpdatePrice(context.Background(), 404, ptrString("£1"))
	assert.ErrorIs(t, err, ErrCafeNotFound)
}

func TestDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	keep := newCafe("Keep", "York")
	gone := newCafe("Gone", "York")
	require.NoError(t, store.Create(ctx, keep))
	require.NoError(t, store.Create(ctx, gone))

	deleted, err := store.Delete(ctx, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gone", deleted.Name)

	_, err = store.Get(ctx, gone.ID)
	assert.ErrorIs(t, err, ErrCafeNotFound)

	_, err = store.Delete(ctx, gone.ID)
	assert.ErrorIs(t, err, ErrCafeNotFound)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Cafe{*keep}, all)
}
