package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortobank/ortobank/internal/model"
)

func TestCreateItemStartsAvailable(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)

	item := mustCreateItem(t, database, 100, stock.ID)
	assert.Equal(t, model.StatusAvailable, item.Status)
	assert.Equal(t, 100, item.SerialCode)
	assert.Equal(t, stock.ID, item.StockID)

	requireCounters(t, database, stock.ID, 0, 1, 0)
}

func TestCreateItemUnknownStock(t *testing.T) {
	database := newTestDB(t)

	_, err := CreateItem(context.Background(), database, 100, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateItemRejectsNonPositiveSerial(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)

	_, err := CreateItem(context.Background(), database, 0, stock.ID)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CreateItem(context.Background(), database, -4, stock.ID)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateItemDuplicateSerial(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)

	mustCreateItem(t, database, 100, stock.ID)
	_, err := CreateItem(context.Background(), database, 100, stock.ID)
	require.ErrorIs(t, err, ErrConflict)

	// A failed create leaves the counters alone.
	requireCounters(t, database, stock.ID, 0, 1, 0)
}

func TestUpdateItemStatusMovesCounters(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)

	status := model.StatusMaintenance
	updated, err := UpdateItem(ctx, database, item.ID, nil, &status)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMaintenance, updated.Status)
	requireCounters(t, database, stock.ID, 1, 0, 0)

	status = model.StatusUnavailable
	_, err = UpdateItem(ctx, database, item.ID, nil, &status)
	require.NoError(t, err)
	requireCounters(t, database, stock.ID, 0, 0, 1)
}

func TestUpdateItemSameStatusIsNoop(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)

	item := mustCreateItem(t, database, 100, stock.ID)

	status := model.StatusAvailable
	updated, err := UpdateItem(context.Background(), database, item.ID, nil, &status)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, updated.Status)
	requireCounters(t, database, stock.ID, 0, 1, 0)
}

func TestUpdateItemToAbsorbingStatus(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)

	// A lost item leaves the counters entirely but keeps its row.
	status := model.StatusLost
	updated, err := UpdateItem(ctx, database, item.ID, nil, &status)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLost, updated.Status)
	requireCounters(t, database, stock.ID, 0, 0, 0)

	// A recovered item re-enters the counters.
	status = model.StatusAvailable
	_, err = UpdateItem(ctx, database, item.ID, nil, &status)
	require.NoError(t, err)
	requireCounters(t, database, stock.ID, 0, 1, 0)
}

func TestUpdateItemInvalidStatus(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)

	item := mustCreateItem(t, database, 100, stock.ID)

	status := model.ItemStatus("BROKEN")
	_, err := UpdateItem(context.Background(), database, item.ID, nil, &status)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateItemSerialConflict(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	mustCreateItem(t, database, 100, stock.ID)
	item := mustCreateItem(t, database, 200, stock.ID)

	serial := 100
	_, err := UpdateItem(ctx, database, item.ID, &serial, nil)
	require.ErrorIs(t, err, ErrConflict)

	// Re-asserting an item's own serial is fine.
	serial = 200
	updated, err := UpdateItem(ctx, database, item.ID, &serial, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, updated.SerialCode)
}

func TestUpdateItemRollsBackWhenCountersWouldGoNegative(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)

	// Zero the available counter behind the synchronizer's back so the
	// item's departure from AVAILABLE would drive it negative.
	_, err := database.ExecContext(ctx,
		`UPDATE stocks SET available = 0, total = 0 WHERE id = ?`, stock.ID)
	require.NoError(t, err)

	status := model.StatusMaintenance
	_, err = UpdateItem(ctx, database, item.ID, nil, &status)
	require.ErrorIs(t, err, ErrInvalidState)

	// The whole transaction rolled back: item status and counters are as
	// they were before the attempt.
	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, got.Status)
	requireCounters(t, database, stock.ID, 0, 0, 0)
}

func TestDeleteItemReversesLiveCounter(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)

	stockID, err := DeleteItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, stock.ID, stockID)
	requireCounters(t, database, stock.ID, 0, 0, 0)

	_, err = GetItem(ctx, database, item.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAbsorbedItemLeavesCounters(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)
	mustCreateItem(t, database, 200, stock.ID)

	status := model.StatusDonated
	_, err := UpdateItem(ctx, database, item.ID, nil, &status)
	require.NoError(t, err)
	requireCounters(t, database, stock.ID, 0, 1, 0)

	// The donated item already left the counters; deleting it must not
	// subtract again.
	_, err = DeleteItem(ctx, database, item.ID)
	require.NoError(t, err)
	requireCounters(t, database, stock.ID, 0, 1, 0)
}

func TestListItemsFilters(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	other, err := CreateStock(ctx, database, stock.HubID, "Crutches")
	require.NoError(t, err)

	mustCreateItem(t, database, 100, stock.ID)
	item2 := mustCreateItem(t, database, 200, stock.ID)
	mustCreateItem(t, database, 300, other.ID)

	status := model.StatusMaintenance
	_, err = UpdateItem(ctx, database, item2.ID, nil, &status)
	require.NoError(t, err)

	all, err := ListItems(ctx, database, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	inStock, err := ListItems(ctx, database, stock.ID, "")
	require.NoError(t, err)
	assert.Len(t, inStock, 2)

	maint, err := ListItems(ctx, database, stock.ID, model.StatusMaintenance)
	require.NoError(t, err)
	require.Len(t, maint, 1)
	assert.Equal(t, item2.ID, maint[0].ID)
}

func TestItemImageRoundTrip(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)

	data, mime, err := GetItemImage(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Empty(t, mime)

	require.NoError(t, SetItemImage(ctx, database, item.ID, []byte{0xff, 0xd8, 0x01}, "image/jpeg"))

	data, mime, err = GetItemImage(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0x01}, data)
	assert.Equal(t, "image/jpeg", mime)

	err = SetItemImage(ctx, database, "missing", []byte{1}, "image/jpeg")
	require.ErrorIs(t, err, ErrNotFound)
}
