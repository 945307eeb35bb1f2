package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalPlan_ConsolidatesRounds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addSlot(t, "dinsdag", "19:00", 1, 10, 5)
	h.addSlot(t, "maandag", "18:00", 1, 10, 5)
	h.addSlot(t, "vrijdag", "20:00", 1, 10, 5)

	h.submit(t, "0611111111", "6", 1, prefs("maandag 18:00", "dinsdag 19:00"), prefs("dinsdag 19:00", "maandag 18:00"))
	h.submit(t, "0622222222", "4", 2, prefs("dinsdag 19:00", "maandag 18:00"))
	h.submit(t, "0633333333", "x", 3, prefs("maandag 18:00", "dinsdag 19:00"))

	h.run(t, 1)
	_, err := h.planning.AssignManual(ctx, app.ManualAssignRequest{Identity: "0633333333", Slot: "maandag 18:00"})
	require.NoError(t, err)
	require.NoError(t, h.planning.CompleteRound(ctx, 1))
	h.run(t, 2)

	plan, err := h.plans.FinalPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test", plan.Period)
	assert.True(t, plan.FullyResolved)
	assert.Zero(t, plan.OpenManual)

	require.Len(t, plan.Rows, 4)
	assert.Equal(t, app.FinalPlanRow{Slot: "dinsdag 19:00", Identity: "0611111111", Name: "Player 0611111111", Level: 6, Origin: domain.OriginAutomatic, Round: 2}, plan.Rows[0])
	assert.Equal(t, "0622222222", plan.Rows[1].Identity)
	assert.Equal(t, "maandag 18:00", plan.Rows[2].Slot)
	assert.Equal(t, "0611111111", plan.Rows[2].Identity)
	assert.Equal(t, domain.OriginManual, plan.Rows[3].Origin)
	assert.Equal(t, "0633333333", plan.Rows[3].Identity)

	require.Len(t, plan.Slots, 3)
	assert.Equal(t, "maandag 18:00", plan.Slots[0].Slot, "groups follow the week")
	assert.Equal(t, 1, plan.Slots[0].Automatic)
	assert.Equal(t, 1, plan.Slots[0].Manual)
	assert.Equal(t, 2, plan.Slots[0].Total())
	assert.Equal(t, 5, plan.Slots[0].Capacity)
	assert.Equal(t, "dinsdag 19:00", plan.Slots[1].Slot)
	assert.Equal(t, 2, plan.Slots[1].Total())
	assert.Equal(t, "vrijdag 20:00", plan.Slots[2].Slot)
	assert.Empty(t, plan.Slots[2].Rows)
}

func TestFinalPlan_KeepsAssignmentsToRemovedSlots(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addSlot(t, "Monday", "18:00", 1, 10, 5)
	h.addSlot(t, "Sunday", "10:00", 1, 10, 5)
	h.submit(t, "0611111111", "6", 1, prefs("Sunday 10:00", "Monday 18:00"))
	h.run(t, 1)
	require.NoError(t, h.catalog.Delete(ctx, "Sunday 10:00"))

	plan, err := h.plans.FinalPlan(ctx)
	require.NoError(t, err)
	require.Len(t, plan.Slots, 2)
	assert.Equal(t, "Monday 18:00", plan.Slots[0].Slot)
	assert.Equal(t, "Sunday 10:00", plan.Slots[1].Slot)
	assert.Zero(t, plan.Slots[1].Capacity)
	assert.Equal(t, 1, plan.Slots[1].Automatic)
}

func TestFinalPlan_OpenManualReported(t *testing.T) {
	h := newHarness(t)
	h.addSlot(t, "Monday", "18:00", 5, 9, 5)
	h.submit(t, "0611111111", "2", 1, prefs("Monday 18:00", "Monday 18:00"))
	h.run(t, 1)

	plan, err := h.plans.FinalPlan(context.Background())
	require.NoError(t, err)
	assert.False(t, plan.FullyResolved)
	assert.Equal(t, 1, plan.OpenManual)
	assert.Empty(t, plan.Rows)
}
