package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortobank/ortobank/internal/model"
)

func TestCreateStockStartsEmpty(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)

	assert.Equal(t, "Wheelchairs", stock.Title)
	assert.Zero(t, stock.Maintenance)
	assert.Zero(t, stock.Available)
	assert.Zero(t, stock.Borrowed)
	assert.Zero(t, stock.Total)
}

func TestCreateStockUnknownHub(t *testing.T) {
	database := newTestDB(t)

	_, err := CreateStock(context.Background(), database, "missing", "Wheelchairs")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateStockDuplicateTitle(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)

	_, err := CreateStock(context.Background(), database, stock.HubID, "Wheelchairs")
	require.ErrorIs(t, err, ErrConflict)
}

func TestGetStockPopulatesItems(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)

	mustCreateItem(t, database, 100, stock.ID)
	mustCreateItem(t, database, 200, stock.ID)

	got, err := GetStock(context.Background(), database, stock.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 100, got.Items[0].SerialCode)
	assert.Equal(t, 200, got.Items[1].SerialCode)
}

func TestListStocksByHub(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	otherHub, err := CreateHub(ctx, database, "South", "Pelotas")
	require.NoError(t, err)
	_, err = CreateStock(ctx, database, otherHub.ID, "Crutches")
	require.NoError(t, err)

	all, err := ListStocks(ctx, database, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := ListStocks(ctx, database, stock.HubID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, stock.ID, mine[0].ID)
}

func TestUpdateStockRetitlesOnly(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	mustCreateItem(t, database, 100, stock.ID)

	updated, err := UpdateStock(ctx, database, stock.ID, "Electric Wheelchairs")
	require.NoError(t, err)
	assert.Equal(t, "Electric Wheelchairs", updated.Title)
	// Counters survive a retitle untouched.
	assert.Equal(t, 1, updated.Available)
	assert.Equal(t, 1, updated.Total)

	_, err = CreateStock(ctx, database, stock.HubID, "Crutches")
	require.NoError(t, err)
	_, err = UpdateStock(ctx, database, stock.ID, "Crutches")
	require.ErrorIs(t, err, ErrConflict)
}

func TestDeleteStockRefusedWhileItemsExist(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)

	err := DeleteStock(ctx, database, stock.ID)
	require.ErrorIs(t, err, ErrConflict)

	// Even items out of circulation block deletion while their row exists.
	status := model.StatusLost
	_, err = UpdateItem(ctx, database, item.ID, nil, &status)
	require.NoError(t, err)
	err = DeleteStock(ctx, database, stock.ID)
	require.ErrorIs(t, err, ErrConflict)

	_, err = DeleteItem(ctx, database, item.ID)
	require.NoError(t, err)
	require.NoError(t, DeleteStock(ctx, database, stock.ID))

	_, err = GetStock(ctx, database, stock.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
