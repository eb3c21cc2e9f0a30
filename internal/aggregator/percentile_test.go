package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-archery-stats/internal/model"
)

func categoryStore() *fakeStore {
	return &fakeStore{scores: []model.CategoryScore{
		{ArcherID: "A3", CategoryID: "RM", Score: 30},
		{ArcherID: "A1", CategoryID: "RM", Score: 10},
		{ArcherID: "A4", CategoryID: "RM", Score: 40},
		{ArcherID: "A2", CategoryID: "RM", Score: 20},
		{ArcherID: "A9", CategoryID: "CW", Score: 99},
	}}
}

func TestCategoryPercentile(t *testing.T) {
	out := newService(categoryStore()).CategoryPercentile(context.Background(), "RM", "A3")

	require.NotNil(t, out.Percentile)
	assert.InDelta(t, 75.0, *out.Percentile, 1e-9)
	require.Len(t, out.Distribution, 4)
	for i, want := range []float64{10, 20, 30, 40} {
		assert.Equal(t, want, out.Distribution[i].Score)
	}
	assert.Empty(t, out.Advisories)
}

func TestCategoryPercentileFirstMatchWins(t *testing.T) {
	store := categoryStore()
	store.scores = append(store.scores, model.CategoryScore{ArcherID: "A4", CategoryID: "RM", Score: 15})
	out := newService(store).CategoryPercentile(context.Background(), "RM", "A4")

	// Sorted: 10, 15(A4), 20, 30, 40; the lower duplicate decides.
	require.NotNil(t, out.Percentile)
	assert.InDelta(t, 40.0, *out.Percentile, 1e-9)
}

func TestCategoryPercentileWithoutArcher(t *testing.T) {
	ctx := context.Background()
	svc := newService(categoryStore())

	out := svc.CategoryPercentile(ctx, "RM", "")
	assert.Nil(t, out.Percentile)
	assert.Len(t, out.Distribution, 4)

	out = svc.CategoryPercentile(ctx, "RM", "nobody")
	assert.Nil(t, out.Percentile)
	assert.Len(t, out.Distribution, 4)
}

func TestCategoryPercentileEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newService(categoryStore())

	for _, archer := range []string{"", "A1", "A9"} {
		out := svc.CategoryPercentile(ctx, "EMPTY", archer)
		assert.Empty(t, out.Distribution)
		assert.Nil(t, out.Percentile)
	}
}

func TestCategoryPercentileGuidanceAndFailure(t *testing.T) {
	ctx := context.Background()

	out := newService(categoryStore()).CategoryPercentile(ctx, "", "A1")
	require.Len(t, out.Advisories, 1)
	assert.Equal(t, MissingInput, out.Advisories[0].Kind)
	assert.Equal(t, "Please select a category.", out.Advisories[0].Message)

	out = newService(&fakeStore{err: errors.New("denied")}).CategoryPercentile(ctx, "RM", "A1")
	assert.Nil(t, out.Percentile)
	assert.Empty(t, out.Distribution)
	require.Len(t, out.Advisories, 1)
	assert.Equal(t, StoreFailure, out.Advisories[0].Kind)
}
