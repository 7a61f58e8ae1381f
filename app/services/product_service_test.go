package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/queries"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/cache"
)

// fakeProductStore implements services.ProductStore in memory, mirroring the
// repository's filter → count → sort → paginate pipeline. QueryCalls counts
// repository round-trips so tests can assert cache behaviour.
type fakeProductStore struct {
	mu         sync.Mutex
	products   map[uint]models.Product
	nextID     uint
	queryCalls int
	failQuery  error
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[uint]models.Product), nextID: 1}
}

func (f *fakeProductStore) Query(_ context.Context, q queries.ProductQuery) (int64, []models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++

	if f.failQuery != nil {
		return 0, nil, f.failQuery
	}

	var matched []models.Product
	for _, p := range f.products {
		if q.CategoryID != nil && p.CategoryID != *q.CategoryID {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch q.Sort {
		case queries.SortName:
			less = matched[i].Name < matched[j].Name
		case queries.SortPrice:
			less = matched[i].Price < matched[j].Price
		default:
			less = matched[i].ID < matched[j].ID
		}
		if q.Ascending {
			return less
		}
		return !less
	})

	start := (q.Page - 1) * q.PageSize
	if start >= len(matched) {
		return total, nil, nil
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return total, matched[start:end], nil
}

func (f *fakeProductStore) FindByID(_ context.Context, id uint) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return models.Product{}, repositories.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductStore) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.ID = f.nextID
	f.nextID++
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductStore) Update(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.products[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductStore) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queryCalls
}

// faultyCache fails every operation; the service must absorb all of it.
type faultyCache struct{}

func (faultyCache) Get(string, interface{}) bool                   { return false }
func (faultyCache) Set(string, interface{}, time.Duration) error   { return errors.New("cache down") }
func (faultyCache) Remove(string) error                            { return errors.New("cache down") }
func (faultyCache) RemoveByPrefix(string) error                    { return errors.New("cache down") }

var _ cache.Store = faultyCache{}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedCatalog inserts 12 products: 7 in category 1, 5 in category 2, with
// distinct prices 10, 20, ... 120.
func seedCatalog(t *testing.T, store *fakeProductStore) {
	t.Helper()
	for i := 1; i <= 12; i++ {
		cat := uint(1)
		if i > 7 {
			cat = 2
		}
		err := store.Create(context.Background(), &models.Product{
			Name:       "Product " + string(rune('A'+i-1)),
			Price:      float64(i * 10),
			CategoryID: cat,
		})
		require.NoError(t, err)
	}
}

func newService(store *fakeProductStore, c cache.Store) *services.ProductService {
	return services.NewProductService(store, c, discardLogger(), 30*time.Minute, 100)
}

func TestList_PageSizeBound(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, cache.NewMemory())

	page, err := svc.List(context.Background(), queries.ListParams{Page: 1, PageSize: 5})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(page.Items), 5)
	assert.EqualValues(t, 12, page.Total)
}

func TestList_TotalInvariantAcrossPages(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, cache.NewMemory())

	cat := uint(1)
	p1, err := svc.List(context.Background(), queries.ListParams{Page: 1, PageSize: 5, CategoryID: &cat})
	require.NoError(t, err)
	p2, err := svc.List(context.Background(), queries.ListParams{Page: 2, PageSize: 5, CategoryID: &cat})
	require.NoError(t, err)

	assert.EqualValues(t, 7, p1.Total, "total is the filtered count, independent of the page")
	assert.Equal(t, p1.Total, p2.Total)
	assert.Len(t, p1.Items, 5)
	assert.Len(t, p2.Items, 2)
}

func TestList_PagePastEndIsEmptyNotError(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, cache.NewMemory())

	page, err := svc.List(context.Background(), queries.ListParams{Page: 3, PageSize: 10})
	require.NoError(t, err)

	assert.EqualValues(t, 12, page.Total)
	assert.Empty(t, page.Items)
}

func TestList_SecondCallServedFromCache(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, cache.NewMemory())

	asc := true
	// Raw inputs differ (defaults omitted vs. spelled out) but normalize to
	// the same descriptor, so the second call must not touch the repository.
	first, err := svc.List(context.Background(), queries.ListParams{})
	require.NoError(t, err)
	second, err := svc.List(context.Background(), queries.ListParams{Page: 1, PageSize: 10, SortBy: "ID", Ascending: &asc})
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls(), "second listing must be a cache hit")
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Items, second.Items)
}

func TestList_Idempotent(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, cache.NewMemory())

	params := queries.ListParams{Page: 2, PageSize: 4, SortBy: "price"}
	first, err := svc.List(context.Background(), params)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := svc.List(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, first.Total, again.Total)
		assert.Equal(t, first.Items, again.Items)
	}
}

func TestList_DifferentDescriptorsDoNotShareEntries(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, cache.NewMemory())

	cat1, cat2 := uint(1), uint(2)
	p1, err := svc.List(context.Background(), queries.ListParams{CategoryID: &cat1})
	require.NoError(t, err)
	p2, err := svc.List(context.Background(), queries.ListParams{CategoryID: &cat2})
	require.NoError(t, err)

	assert.Equal(t, 2, store.calls())
	assert.EqualValues(t, 7, p1.Total)
	assert.EqualValues(t, 5, p2.Total)
}

func TestCreate_InvalidatesCachedListings(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, cache.NewMemory())

	before, err := svc.List(context.Background(), queries.ListParams{})
	require.NoError(t, err)
	require.EqualValues(t, 12, before.Total)

	_, err = svc.Create(context.Background(), services.ProductInput{
		Name: "New Product", Price: 9.99, CategoryID: 1,
	})
	require.NoError(t, err)

	after, err := svc.List(context.Background(), queries.ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 13, after.Total, "listing after a create must not be the stale cached page")
	assert.Equal(t, 2, store.calls())
}

func TestDelete_InvalidatesEveryFilterVariant(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, cache.NewMemory())

	cat := uint(1)
	// Populate several distinct cache entries.
	_, err := svc.List(context.Background(), queries.ListParams{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), queries.ListParams{CategoryID: &cat})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), queries.ListParams{SortBy: "price"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 7))

	unfiltered, err := svc.List(context.Background(), queries.ListParams{})
	require.NoError(t, err)
	filtered, err := svc.List(context.Background(), queries.ListParams{CategoryID: &cat})
	require.NoError(t, err)

	assert.EqualValues(t, 11, unfiltered.Total)
	assert.EqualValues(t, 6, filtered.Total)
}

func TestUpdate_InvalidatesAndReturnsNewValues(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, cache.NewMemory())

	minPrice := 500.0
	expensive, err := svc.List(context.Background(), queries.ListParams{MinPrice: &minPrice})
	require.NoError(t, err)
	require.EqualValues(t, 0, expensive.Total)

	_, err = svc.Update(context.Background(), 1, services.ProductInput{
		Name: "Product A", Price: 999, CategoryID: 1,
	})
	require.NoError(t, err)

	expensive, err = svc.List(context.Background(), queries.ListParams{MinPrice: &minPrice})
	require.NoError(t, err)
	assert.EqualValues(t, 1, expensive.Total)
}

func TestUpdate_NotFound(t *testing.T) {
	store := newFakeProductStore()
	svc := newService(store, cache.NewMemory())

	_, err := svc.Update(context.Background(), 404, services.ProductInput{Name: "x", CategoryID: 1})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	store := newFakeProductStore()
	svc := newService(store, cache.NewMemory())

	err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestList_CacheFaultsAreAbsorbed(t *testing.T) {
	store := newFakeProductStore()
	seedCatalog(t, store)
	svc := newService(store, faultyCache{})

	page, err := svc.List(context.Background(), queries.ListParams{})
	require.NoError(t, err, "a broken cache must not surface as an error")
	assert.EqualValues(t, 12, page.Total)

	// Mutations still succeed when invalidation fails.
	_, err = svc.Create(context.Background(), services.ProductInput{Name: "p", CategoryID: 1})
	require.NoError(t, err)
}

func TestList_RepositoryErrorsPropagate(t *testing.T) {
	store := newFakeProductStore()
	store.failQuery = errors.New("connection refused")
	svc := newService(store, cache.NewMemory())

	_, err := svc.List(context.Background(), queries.ListParams{})
	assert.Error(t, err, "infrastructure errors must reach the caller")
}
