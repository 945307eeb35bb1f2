package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(slots []domain.Slot) []string {
	out := make([]string, 0, len(slots))
	for i := range slots {
		out = append(out, slots[i].Label())
	}
	return out
}

func TestCatalog_AddListDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.addSlot(t, "Monday", "18:00", 1, 6, 8)
	require.NoError(t, h.catalog.Add(ctx, &domain.Slot{Day: "Tuesday", Time: "19:00", Trainer: "Tom", MinLevel: 4, MaxLevel: 9, Capacity: 6}))

	err := h.catalog.Add(ctx, &domain.Slot{Day: "Monday", Time: "18:00", MinLevel: 1, MaxLevel: 3, Capacity: 4})
	assert.ErrorContains(t, err, "already exists")
	err = h.catalog.Add(ctx, &domain.Slot{Day: "Friday", Time: "20:00", MinLevel: 7, MaxLevel: 3})
	assert.ErrorContains(t, err, "exceeds max level")

	slots, err := h.catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday 18:00", "Tuesday 19:00 - Tom"}, labels(slots))

	require.NoError(t, h.catalog.Delete(ctx, " Tuesday 19:00 - Tom "))
	assert.ErrorIs(t, h.catalog.Delete(ctx, "Tuesday 19:00 - Tom"), repository.ErrNotFound)

	slots, err = h.catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday 18:00"}, labels(slots))
}

func TestCatalog_ReplaceAll(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addSlot(t, "Monday", "18:00", 1, 6, 8)

	n, err := h.catalog.ReplaceAll(ctx, []domain.Slot{
		{Day: "Thursday", Time: "20:00", MinLevel: 1, MaxLevel: 10, Capacity: 12},
		{Day: "Wednesday", Time: "19:00", MinLevel: 5, MaxLevel: 9, Capacity: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	slots, err := h.catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Thursday 20:00", "Wednesday 19:00"}, labels(slots), "import order is catalog order")
	assert.Equal(t, 1, slots[0].Position)
	assert.Equal(t, 2, slots[1].Position)

	_, err = h.catalog.ReplaceAll(ctx, []domain.Slot{
		{Day: "Friday", Time: "18:00", MinLevel: 1, MaxLevel: 10, Capacity: 4},
		{Day: "Friday", Time: "18:00", MinLevel: 1, MaxLevel: 10, Capacity: 4},
	})
	assert.ErrorContains(t, err, "appears twice")

	slots, err = h.catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, slots, 2, "a rejected import keeps the old catalog")
}
