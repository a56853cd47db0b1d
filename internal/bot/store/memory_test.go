package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryLazyCreation(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	s, err := repo.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.Empty(t, s.Name)

	s.Name = "Priya"
	again, err := repo.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Priya", again.Name)
}

func TestMemoryRepositoryIsolatesKeys(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	a, err := repo.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	b, err := repo.GetOrCreate(ctx, "b")
	require.NoError(t, err)

	a.SetMark("Maths", 90)
	assert.Empty(t, b.Marks)
}

func TestMemoryRepositoryConcurrentAccess(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%8))
			s, err := repo.GetOrCreate(ctx, id)
			assert.NoError(t, err)
			assert.NoError(t, repo.Save(ctx, s))
		}(i)
	}
	wg.Wait()
}
