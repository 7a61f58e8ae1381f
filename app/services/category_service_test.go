package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/cache"
)

type fakeCategoryStore struct {
	mu         sync.Mutex
	categories map[uint]models.Category
	nextID     uint
	allCalls   int
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[uint]models.Category), nextID: 1}
}

func (f *fakeCategoryStore) All(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allCalls++

	out := make([]models.Category, 0, len(f.categories))
	for id := uint(1); id < f.nextID; id++ {
		if c, ok := f.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) FindByID(_ context.Context, id uint) (models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.categories[id]
	if !ok {
		return models.Category{}, repositories.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryStore) Create(_ context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c.ID = f.nextID
	f.nextID++
	f.categories[c.ID] = *c
	return nil
}

func TestCategoryList_CachedUnderSingleKey(t *testing.T) {
	store := newFakeCategoryStore()
	require.NoError(t, store.Create(context.Background(), &models.Category{Name: "Electronics"}))
	require.NoError(t, store.Create(context.Background(), &models.Category{Name: "Books"}))

	svc := services.NewCategoryService(store, cache.NewMemory(), discardLogger(), 30*time.Minute)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, store.allCalls, "second list must come from cache")
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestCategoryCreate_InvalidatesList(t *testing.T) {
	store := newFakeCategoryStore()
	require.NoError(t, store.Create(context.Background(), &models.Category{Name: "Electronics"}))

	svc := services.NewCategoryService(store, cache.NewMemory(), discardLogger(), 30*time.Minute)

	before, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, before, 1)

	_, err = svc.Create(context.Background(), services.CategoryInput{Name: "Books"})
	require.NoError(t, err)

	after, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, after, 2)
}

func TestCategoryGetByID_NotFound(t *testing.T) {
	svc := services.NewCategoryService(newFakeCategoryStore(), cache.NewMemory(), discardLogger(), time.Minute)

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
