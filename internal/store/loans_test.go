package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortobank/ortobank/internal/model"
)

func TestCreateLoanBorrowsItem(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)
	applicant := mustCreateApplicant(t, database, "Ana Souza")
	user := mustCreateUser(t, database, "clara")

	loan, err := CreateLoan(ctx, database, applicant.ID, user.ID, item.ID, "post-surgery recovery")
	require.NoError(t, err)

	assert.True(t, loan.IsActive)
	assert.Equal(t, 100, loan.ItemSerialCode)
	assert.Equal(t, "Ana Souza", loan.ApplicantName)
	assert.Equal(t, "clara", loan.ResponsibleName)

	// Default term: three months out.
	expected := time.Now().UTC().AddDate(0, model.DefaultLoanTermMonths, 0)
	assert.WithinDuration(t, expected, loan.ReturnDate, time.Minute)

	// The item was borrowed in the same transaction.
	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnavailable, got.Status)
	requireCounters(t, database, stock.ID, 0, 0, 1)
}

func TestCreateLoanRequiresAvailableItem(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)
	applicant := mustCreateApplicant(t, database, "Ana Souza")
	user := mustCreateUser(t, database, "clara")

	_, err := CreateLoan(ctx, database, applicant.ID, user.ID, item.ID, "first loan")
	require.NoError(t, err)

	// The item is now borrowed; a second loan must be refused and the
	// counters must not move.
	_, err = CreateLoan(ctx, database, applicant.ID, user.ID, item.ID, "second loan")
	require.ErrorIs(t, err, ErrConflict)
	requireCounters(t, database, stock.ID, 0, 0, 1)
}

func TestCreateLoanUnknownApplicant(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)

	item := mustCreateItem(t, database, 100, stock.ID)
	user := mustCreateUser(t, database, "clara")

	_, err := CreateLoan(context.Background(), database, "missing", user.ID, item.ID, "reason")
	require.ErrorIs(t, err, ErrNotFound)

	// The refused loan left the item untouched.
	got, err := GetItem(context.Background(), database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, got.Status)
	requireCounters(t, database, stock.ID, 0, 1, 0)
}

func TestCreateLoanValidation(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)
	applicant := mustCreateApplicant(t, database, "Ana Souza")
	user := mustCreateUser(t, database, "clara")

	_, err := CreateLoan(ctx, database, applicant.ID, user.ID, item.ID, "   ")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CreateLoan(ctx, database, "", user.ID, item.ID, "reason")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CreateLoan(ctx, database, applicant.ID, 0, item.ID, "reason")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCloseLoanReturnsItem(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)
	applicant := mustCreateApplicant(t, database, "Ana Souza")
	user := mustCreateUser(t, database, "clara")

	loan, err := CreateLoan(ctx, database, applicant.ID, user.ID, item.ID, "recovery")
	require.NoError(t, err)

	inactive := false
	closed, err := UpdateLoan(ctx, database, loan.ID, nil, nil, &inactive)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, got.Status)
	requireCounters(t, database, stock.ID, 0, 1, 0)

	// Closed loans drop out of the active listing.
	active, err := ListLoans(ctx, database)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestReactivateLoanBorrowsItemAgain(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)
	applicant := mustCreateApplicant(t, database, "Ana Souza")
	user := mustCreateUser(t, database, "clara")

	loan, err := CreateLoan(ctx, database, applicant.ID, user.ID, item.ID, "recovery")
	require.NoError(t, err)

	inactive := false
	_, err = UpdateLoan(ctx, database, loan.ID, nil, nil, &inactive)
	require.NoError(t, err)

	active := true
	reopened, err := UpdateLoan(ctx, database, loan.ID, nil, nil, &active)
	require.NoError(t, err)
	assert.True(t, reopened.IsActive)
	requireCounters(t, database, stock.ID, 0, 0, 1)
}

func TestUpdateLoanReasonAndReturnDate(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)
	applicant := mustCreateApplicant(t, database, "Ana Souza")
	user := mustCreateUser(t, database, "clara")

	loan, err := CreateLoan(ctx, database, applicant.ID, user.ID, item.ID, "recovery")
	require.NoError(t, err)

	reason := "extended recovery"
	due := time.Now().UTC().AddDate(0, 6, 0).Truncate(time.Second)
	updated, err := UpdateLoan(ctx, database, loan.ID, &reason, &due, nil)
	require.NoError(t, err)
	assert.Equal(t, "extended recovery", updated.Reason)
	assert.WithinDuration(t, due, updated.ReturnDate, time.Second)

	blank := "  "
	_, err = UpdateLoan(ctx, database, loan.ID, &blank, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeleteActiveLoanRevertsItem(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)
	applicant := mustCreateApplicant(t, database, "Ana Souza")
	user := mustCreateUser(t, database, "clara")

	loan, err := CreateLoan(ctx, database, applicant.ID, user.ID, item.ID, "recovery")
	require.NoError(t, err)

	require.NoError(t, DeleteLoan(ctx, database, loan.ID))

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, got.Status)
	requireCounters(t, database, stock.ID, 0, 1, 0)

	_, err = GetLoan(ctx, database, loan.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteClosedLoanLeavesItemAlone(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	item := mustCreateItem(t, database, 100, stock.ID)
	applicant := mustCreateApplicant(t, database, "Ana Souza")
	user := mustCreateUser(t, database, "clara")

	loan, err := CreateLoan(ctx, database, applicant.ID, user.ID, item.ID, "recovery")
	require.NoError(t, err)

	inactive := false
	_, err = UpdateLoan(ctx, database, loan.ID, nil, nil, &inactive)
	require.NoError(t, err)

	require.NoError(t, DeleteLoan(ctx, database, loan.ID))
	requireCounters(t, database, stock.ID, 0, 1, 0)
}

func TestListExpiringLoans(t *testing.T) {
	database := newTestDB(t)
	stock := newStockFixture(t, database)
	ctx := context.Background()

	applicant := mustCreateApplicant(t, database, "Ana Souza")
	user := mustCreateUser(t, database, "clara")

	soonItem := mustCreateItem(t, database, 100, stock.ID)
	laterItem := mustCreateItem(t, database, 200, stock.ID)

	soon, err := CreateLoan(ctx, database, applicant.ID, user.ID, soonItem.ID, "recovery")
	require.NoError(t, err)
	_, err = CreateLoan(ctx, database, applicant.ID, user.ID, laterItem.ID, "recovery")
	require.NoError(t, err)

	// Pull one loan's due date inside the window, leave the other at the
	// default three months out.
	_, err = database.ExecContext(ctx,
		`UPDATE loans SET return_date = ? WHERE id = ?`,
		time.Now().UTC().Add(3*24*time.Hour), soon.ID)
	require.NoError(t, err)

	expiring, err := ListExpiringLoans(ctx, database, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, soon.ID, expiring[0].ID)

	// A closed loan never expires.
	inactive := false
	_, err = UpdateLoan(ctx, database, soon.ID, nil, nil, &inactive)
	require.NoError(t, err)

	expiring, err = ListExpiringLoans(ctx, database, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, expiring)
}
