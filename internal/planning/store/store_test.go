package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/planning/models"
	"backoffice/internal/query"
)

func TestDistributionSumPostgres(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE(SUM(F_03), 0) FROM item_distributions WHERE F_01 = $1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("12.500"))

	sum, err := NewDistributionPostgres(db).SumQuantity(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("12.5")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlannedItemLockSelectsForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT F_00, F_01, F_02, F_03 FROM planned_items WHERE F_00 = $1 FOR UPDATE`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"F_00", "F_01", "F_02", "F_03"}).AddRow(2, 1, 3, "100"))

	p, err := NewPlannedItemPostgres(db).Lock(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.FinancialOperationID)
	assert.True(t, p.PlannedQuantity.Equal(decimal.NewFromInt(100)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDistributionSumMemory(t *testing.T) {
	ctx := context.Background()
	repo := NewDistributionMemory()
	for _, d := range []models.ItemDistribution{
		{PlannedItemID: 1, StructureID: 1, Quantity: decimal.RequireFromString("2.5")},
		{PlannedItemID: 1, StructureID: 2, Quantity: decimal.NewFromInt(4)},
		{PlannedItemID: 2, StructureID: 1, Quantity: decimal.NewFromInt(9)},
	} {
		_, err := repo.Create(ctx, d)
		require.NoError(t, err)
	}

	sum, err := repo.SumQuantity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "6.5", sum.String())

	sum, err = repo.SumQuantity(ctx, 3)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	n, err := repo.Count(ctx, query.Eq("structureId", int64(1)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
