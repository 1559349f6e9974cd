package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ragstack/core/v1/models"
)

func TestEnsureVectorCapacity_Boundary(t *testing.T) {
	plan := &models.Plan{Slug: "building", VectorLimit: 100}

	t.Run("one below the limit succeeds", func(t *testing.T) {
		project := &models.Project{ID: "p1", VectorCount: 99}
		assert.NoError(t, EnsureVectorCapacity(nil, 1, plan, 1, project))
	})

	t.Run("at the limit fails", func(t *testing.T) {
		project := &models.Project{ID: "p1", VectorCount: 100}
		err := EnsureVectorCapacity(nil, 1, plan, 1, project)
		assert.ErrorIs(t, err, ErrVectorCapacityExceeded)
	})

	t.Run("batch overshoot fails", func(t *testing.T) {
		project := &models.Project{ID: "p1", VectorCount: 90}
		err := EnsureVectorCapacity(nil, 1, plan, 11, project)
		assert.ErrorIs(t, err, ErrVectorCapacityExceeded)
	})

	t.Run("batch exactly filling the limit succeeds", func(t *testing.T) {
		project := &models.Project{ID: "p1", VectorCount: 90}
		assert.NoError(t, EnsureVectorCapacity(nil, 1, plan, 10, project))
	})
}

func TestEnsureVectorCapacity_UnlimitedPlans(t *testing.T) {
	project := &models.Project{ID: "p1", VectorCount: 1_000_000}

	for _, limit := range []int{0, -1} {
		plan := &models.Plan{Slug: "scale", VectorLimit: limit}
		assert.NoError(t, EnsureVectorCapacity(nil, 1, plan, 1, project))
	}
}

func TestEnsureVectorCapacity_NilProjectIsNoOp(t *testing.T) {
	plan := &models.Plan{Slug: "tinkering", VectorLimit: 1}
	assert.NoError(t, EnsureVectorCapacity(nil, 1, plan, 100, nil))
}
