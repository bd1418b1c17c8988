package catalogRepo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"divyajyotisha/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAstrologerRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAstrologerRepo()

	a := &models.Astrologer{ID: "a-1", Name: "Pandit Sharma", IsActive: true}
	require.NoError(t, repo.Create(ctx, a))

	t.Run("name is unique", func(t *testing.T) {
		dup := &models.Astrologer{ID: "a-2", Name: "Pandit Sharma"}
		assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateName)
	})

	t.Run("update rejects a name collision", func(t *testing.T) {
		other := &models.Astrologer{ID: "a-3", Name: "Guru Devi"}
		require.NoError(t, repo.Create(ctx, other))

		other.Name = "Pandit Sharma"
		assert.ErrorIs(t, repo.Update(ctx, other), ErrDuplicateName)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "a-1"))
		_, err := repo.GetByID(ctx, "a-1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "a-1"), ErrNotFound)
	})
}

func TestMemoryBannerRepoActive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBannerRepo()
	base := time.Now()

	for i := 0; i < 6; i++ {
		require.NoError(t, repo.Create(ctx, &models.Banner{
			ID:        fmt.Sprintf("b-%d", i),
			Title:     fmt.Sprintf("Banner %d", i),
			IsActive:  i != 5,
			Order:     5 - i, // reversed so sorting is observable
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	t.Run("active respects the limit and position order", func(t *testing.T) {
		items, err := repo.Active(ctx, 4)
		require.NoError(t, err)
		require.Len(t, items, 4)
		for i := 1; i < len(items); i++ {
			assert.LessOrEqual(t, items[i-1].Order, items[i].Order)
		}
		for _, b := range items {
			assert.True(t, b.IsActive)
		}
	})

	t.Run("list returns inactive banners too", func(t *testing.T) {
		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 6)
	})
}
