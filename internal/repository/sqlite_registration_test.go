package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/slotter/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRepo_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRegistrationRepo(db)
	ctx := context.Background()

	reg := testutil.NewTestRegistrant("Anna",
		testutil.WithLevel("6,5"),
		testutil.WithFrequency(2),
		testutil.WithPermitHigher(),
		testutil.WithPreferences("Monday 18:00", "Tuesday 19:00 - Tom", ""),
	)
	reg.Note = "knee injury"
	require.NoError(t, repo.Create(ctx, reg))

	list, err := repo.ListByChoice(ctx, testutil.TestPeriod, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, reg.ID, got.ID)
	assert.Equal(t, reg.Phone, got.Phone)
	assert.Equal(t, "Anna", got.Name)
	assert.Equal(t, "6,5", got.LevelText)
	assert.Equal(t, 2, got.Frequency)
	assert.True(t, got.PermitHigher)
	assert.Equal(t, [3]string{"Monday 18:00", "Tuesday 19:00 - Tom", ""}, got.Preferences)
	assert.Equal(t, reg.SubmittedAt, got.SubmittedAt)
	assert.Equal(t, "knee injury", got.Note)
}

func TestRegistrationRepo_DatasetsAreSeparate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRegistrationRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestRegistrant("A", testutil.WithChoice(1))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestRegistrant("B", testutil.WithChoice(2))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestRegistrant("C", testutil.WithChoice(2))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestRegistrant("D", testutil.WithChoice(2), testutil.WithPeriod("archive"))))

	counts, err := repo.CountByChoice(ctx, testutil.TestPeriod)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 2: 2}, counts)

	second, err := repo.ListByChoice(ctx, testutil.TestPeriod, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "B", second[0].Name, "insertion order is kept")
	assert.Equal(t, "C", second[1].Name)
}

func TestRegistrationRepo_DeleteByIdentity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRegistrationRepo(db)
	ctx := context.Background()

	first := testutil.NewTestRegistrant("Anna", testutil.WithPhone("0611111111"))
	again := testutil.NewTestRegistrant("Anna v2", testutil.WithPhone("0611111111"))
	other := testutil.NewTestRegistrant("Bob", testutil.WithPhone("0622222222"))
	inOtherSet := testutil.NewTestRegistrant("Anna", testutil.WithPhone("0611111111"), testutil.WithChoice(2))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, again))
	require.NoError(t, repo.Create(ctx, other))
	require.NoError(t, repo.Create(ctx, inOtherSet))

	matches, err := repo.ListByIdentity(ctx, testutil.TestPeriod, 1, "0611111111")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	n, err := repo.DeleteByIdentity(ctx, testutil.TestPeriod, 1, " 0611111111 ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rest, err := repo.ListByChoice(ctx, testutil.TestPeriod, 1)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "Bob", rest[0].Name)

	kept, err := repo.ListByChoice(ctx, testutil.TestPeriod, 2)
	require.NoError(t, err)
	assert.Len(t, kept, 1, "other datasets are untouched")

	n, err = repo.DeleteByIdentity(ctx, testutil.TestPeriod, 1, "0699999999")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRegistrationRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRegistrationRepo(db)
	ctx := context.Background()

	reg := testutil.NewTestRegistrant("Anna")
	require.NoError(t, repo.Create(ctx, reg))
	require.NoError(t, repo.Delete(ctx, reg.ID))
	assert.ErrorIs(t, repo.Delete(ctx, reg.ID), ErrNotFound)
}
