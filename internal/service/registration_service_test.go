package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_ResubmissionReplacesEveryDataset(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addSlot(t, "Monday", "18:00", 1, 10, 5)
	h.addSlot(t, "Tuesday", "19:00", 1, 10, 5)

	first := h.submit(t, "0611111111", "6", 1,
		prefs("Monday 18:00", "Tuesday 19:00"),
		prefs("Tuesday 19:00", "Monday 18:00"))
	assert.False(t, first.Replaced)
	assert.Equal(t, 2, first.Rows)

	at := testutil.BaseTime.Add(time.Hour)
	second, err := h.registration.Submit(ctx, app.SubmitRequest{
		Phone:       " 0611111111 ",
		Name:        "Anna de Vries",
		LevelText:   "5,5",
		Frequency:   2,
		Occurrences: [][3]string{prefs("Tuesday 19:00", "Monday 18:00"), prefs("Monday 18:00", "Tuesday 19:00")},
		Note:        "prefers evenings",
		SubmittedAt: &at,
	})
	require.NoError(t, err)
	assert.True(t, second.Replaced)
	assert.Equal(t, []int{1, 2}, second.ReplacedChoices)
	assert.Equal(t, "0611111111", second.Identity)

	counts, err := h.registration.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 2: 1}, counts)

	rows, err := h.registration.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Anna de Vries", rows[0].Name)
	assert.Equal(t, "5,5", rows[0].LevelText)
	assert.Equal(t, "Tuesday 19:00", rows[0].Preferences[0])
	assert.Equal(t, "prefers evenings", rows[0].Note)
	assert.Equal(t, "2025-09-01 10:00:00", rows[0].SubmittedAt)

	rows, err = h.registration.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-09-01 10:00:00", rows[0].SubmittedAt, "the bundle shares one timestamp")

	assert.Equal(t, 1, h.recorder.resubmissions)
}

func TestSubmit_FewerTrainingsOnlyTouchesGivenDatasets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.submit(t, "0611111111", "6", 1,
		prefs("Monday 18:00", "Tuesday 19:00"),
		prefs("Tuesday 19:00", "Monday 18:00"))

	res := h.submit(t, "0611111111", "6", 2, prefs("Tuesday 19:00", "Monday 18:00"))
	assert.Equal(t, []int{1}, res.ReplacedChoices)

	counts, err := h.registration.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 2: 1}, counts)
}

func TestSubmit_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.registration.Submit(ctx, app.SubmitRequest{
		Frequency:   1,
		Occurrences: [][3]string{prefs("Monday 18:00")},
	})
	var ve *app.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{
		"phone number is required",
		"name is required",
		"choice 1: first and second preference are required",
	}, ve.Problems)

	_, err = h.registration.Submit(ctx, app.SubmitRequest{
		Phone:       "0611111111",
		Name:        "Anna",
		Frequency:   1,
		Occurrences: [][3]string{prefs("Monday 18:00", "Tuesday 19:00"), prefs("Monday 18:00", "Tuesday 19:00")},
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "2 sets of preferences given for 1 trainings per week")

	_, err = h.registration.Submit(ctx, app.SubmitRequest{Phone: "0611111111", Name: "Anna", Frequency: 4})
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 2)

	counts, err := h.registration.Counts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestSubmit_PermissionWarnings(t *testing.T) {
	h := newHarness(t)
	h.addSlot(t, "Monday", "18:00", 5, 9, 5)
	h.addSlot(t, "Monday", "18:00 - 19:30", 1, 4, 5)

	res := h.submit(t, "0611111111", "3", 1, prefs("Monday 18:00 (Level 5-9)", "Monday 18:00 - 19:30 (Level 1-4)"))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, app.PermissionWarning{Choice: 1, Preference: "Monday 18:00 (Level 5-9)", Slot: "Monday 18:00", MinLevel: 5, Level: 3}, res.Warnings[0])

	at := testutil.BaseTime
	res, err := h.registration.Submit(context.Background(), app.SubmitRequest{
		Phone: "0622222222", Name: "Bob", LevelText: "3", Frequency: 1, PermitHigher: true,
		Occurrences: [][3]string{prefs("Monday 18:00 (Level 5-9)", "Monday 18:00 (Level 5-9)")},
		SubmittedAt: &at,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestSubmit_EnforcedPermissionRejects(t *testing.T) {
	h := newHarness(t, RegistrationOptions{EnforcePermission: true})
	ctx := context.Background()
	h.addSlot(t, "Monday", "18:00", 5, 9, 5)

	_, err := h.registration.Submit(ctx, app.SubmitRequest{
		Phone: "0611111111", Name: "Anna", LevelText: "2", Frequency: 1,
		Occurrences: [][3]string{prefs("Monday 18:00", "Monday 18:00")},
	})
	var ve *app.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 2)

	rows, err := h.registration.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSubmit_RollsBackAllDatasets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.submit(t, "0611111111", "6", 1,
		prefs("Monday 18:00", "Tuesday 19:00"),
		prefs("Tuesday 19:00", "Monday 18:00"))

	// Execs: delete 1, insert 1, delete 2, insert 2.
	failing := &testutil.FailOnNthExecUoW{DB: h.db, FailOn: 4, Err: assert.AnError}
	svc := NewRegistrationService(testutil.TestPeriod, h.regs, h.slots, failing, RegistrationOptions{}, nil, h.recorder)

	_, err := svc.Submit(ctx, app.SubmitRequest{
		Phone: "0611111111", Name: "Changed", LevelText: "6", Frequency: 2,
		Occurrences: [][3]string{prefs("Monday 18:00", "Tuesday 19:00"), prefs("Monday 18:00", "Tuesday 19:00")},
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, h.recorder.resubmissions)

	for choice := 1; choice <= 2; choice++ {
		rows, err := h.registration.List(ctx, choice)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Player 0611111111", rows[0].Name, "dataset %d keeps the earlier submission", choice)
	}
}

func TestImportAndCleanDuplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rows := []domain.Registrant{
		*testutil.NewTestRegistrant("Anna (new)", testutil.WithPhone("0611111111"), testutil.WithSubmittedAfter(30)),
		*testutil.NewTestRegistrant("Bob", testutil.WithPhone("0622222222"), testutil.WithSubmittedAfter(5)),
		*testutil.NewTestRegistrant("Anna (old)", testutil.WithPhone("0611111111"), testutil.WithSubmittedAfter(10)),
		*testutil.NewTestRegistrant("Bob again", testutil.WithPhone("0622222222"), testutil.WithSubmittedAfter(5)),
		*testutil.NewTestRegistrant("No phone", testutil.WithPhone("")),
		*testutil.NewTestRegistrant("No phone either", testutil.WithPhone("")),
	}
	n, err := h.registration.Import(ctx, 2, rows)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	res, err := h.registration.CleanDuplicates(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, &app.CleanResult{Choice: 2, Kept: 4, Removed: 2}, res)

	kept, err := h.registration.List(ctx, 2)
	require.NoError(t, err)
	var names []string
	for _, r := range kept {
		names = append(names, r.Name)
		assert.Equal(t, 2, r.Choice)
		assert.Equal(t, testutil.TestPeriod, r.Period)
	}
	assert.Equal(t, []string{"Anna (new)", "Bob again", "No phone", "No phone either"}, names)

	_, err = h.registration.Import(ctx, 4, rows)
	assert.ErrorIs(t, err, domain.ErrInvalidRound)
	_, err = h.registration.CleanDuplicates(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRound)
}
