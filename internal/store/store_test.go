package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ortobank/ortobank/internal/db"
	"github.com/ortobank/ortobank/internal/model"
)

// newStockFixture creates a hub with one empty stock.
func newStockFixture(t *testing.T, database *sql.DB) *model.Stock {
	t.Helper()
	ctx := context.Background()

	hub, err := CreateHub(ctx, database, "Central", "Porto Alegre")
	require.NoError(t, err)

	stock, err := CreateStock(ctx, database, hub.ID, "Wheelchairs")
	require.NoError(t, err)
	return stock
}

func mustCreateItem(t *testing.T, database *sql.DB, serialCode int, stockID string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, serialCode, stockID)
	require.NoError(t, err)
	return item
}

func mustCreateApplicant(t *testing.T, database *sql.DB, name string) *model.Applicant {
	t.Helper()
	a, err := CreateApplicant(context.Background(), database, model.Applicant{
		Name:       name,
		NationalID: "id-" + name,
	})
	require.NoError(t, err)
	return a
}

func mustCreateUser(t *testing.T, database *sql.DB, username string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, username, username, "hash", model.RoleManager)
	require.NoError(t, err)
	return u
}

// requireCounters asserts a stock's full counter state, including the
// derived total.
func requireCounters(t *testing.T, database *sql.DB, stockID string, maintenance, available, borrowed int) {
	t.Helper()
	stock, err := GetStock(context.Background(), database, stockID)
	require.NoError(t, err)
	require.Equal(t, maintenance, stock.Maintenance, "maintenance counter")
	require.Equal(t, available, stock.Available, "available counter")
	require.Equal(t, borrowed, stock.Borrowed, "borrowed counter")
	require.Equal(t, maintenance+available+borrowed, stock.Total, "total counter")
}

func newTestDB(t *testing.T) *sql.DB {
	return db.NewTestDB(t)
}
