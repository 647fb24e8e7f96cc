package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-api/internal/domain/entity"
	domainErrors "inventory-api/internal/domain/errors"
)

func newTestCache(t *testing.T, store *memoryItemRepo) (*ItemRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewItemRepository(store, client, time.Minute), mr
}

// memoryItemRepo counts how often the underlying store is hit.
type memoryItemRepo struct {
	mu            sync.Mutex
	items         map[int64]*entity.Item
	nextID        int64
	findByIDCalls int
	quantityCalls int
}

func newMemoryItemRepo(items ...*entity.Item) *memoryItemRepo {
	m := &memoryItemRepo{items: make(map[int64]*entity.Item)}
	for _, item := range items {
		m.items[item.ID] = item
		if item.ID > m.nextID {
			m.nextID = item.ID
		}
	}
	return m
}

func (m *memoryItemRepo) FindAll(ctx context.Context) ([]*entity.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]*entity.Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item)
	}
	return items, nil
}

func (m *memoryItemRepo) FindByID(ctx context.Context, id int64) (*entity.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findByIDCalls++
	item, ok := m.items[id]
	if !ok {
		return nil, domainErrors.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *memoryItemRepo) FindQuantityByID(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quantityCalls++
	item, ok := m.items[id]
	if !ok {
		return 0, domainErrors.ErrItemNotFound
	}
	return item.Quantity, nil
}

func (m *memoryItemRepo) Create(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	created := *item
	created.ID = m.nextID
	m.items[created.ID] = &created
	return &created, nil
}

func (m *memoryItemRepo) Update(ctx context.Context, item *entity.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return domainErrors.ErrItemNotFound
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *memoryItemRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domainErrors.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryItemRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

func milk(id int64) *entity.Item {
	return &entity.Item{
		ID:       id,
		Name:     "Milk",
		Price:    decimal.RequireFromString("1.10"),
		Quantity: 15,
		Category: &entity.Category{ID: 1, Name: "Dairy"},
	}
}

// remove drops a row behind the cache's back, as ON DELETE CASCADE does.
func (m *memoryItemRepo) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
}

func (m *memoryItemRepo) setQuantity(id, quantity int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].Quantity = quantity
}

func TestFindByID_ReadThrough(t *testing.T) {
	ctx := context.Background()
	store := newMemoryItemRepo(milk(1))
	repo, mr := newTestCache(t, store)

	first, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, store.findByIDCalls)
	assert.Equal(t, 1, store.quantityCalls, "hit is confirmed against the store")
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, first.Price.Equal(second.Price))
	assert.Equal(t, first.Category, second.Category)
	assert.Equal(t, time.Minute, mr.TTL(itemKey(1)))
}

func TestFindByID_NotFoundIsNotCached(t *testing.T) {
	repo, mr := newTestCache(t, newMemoryItemRepo())

	_, err := repo.FindByID(context.Background(), 2)

	assert.ErrorIs(t, err, domainErrors.ErrItemNotFound)
	assert.False(t, mr.Exists(itemKey(2)))
}

func TestFindByID_RowRemovedByCascade(t *testing.T) {
	ctx := context.Background()
	store := newMemoryItemRepo(milk(1))
	repo, mr := newTestCache(t, store)

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists(itemKey(1)))

	store.remove(1)

	_, err = repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, domainErrors.ErrItemNotFound)
	assert.False(t, mr.Exists(itemKey(1)))
}

func TestFindByID_StaleCopyWrittenAfterDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemoryItemRepo()
	repo, mr := newTestCache(t, store)

	// 削除前に読んだリーダーが削除後に古いコピーを書き戻したケース
	repo.set(ctx, milk(3))
	require.True(t, mr.Exists(itemKey(3)))

	_, err := repo.FindByID(ctx, 3)
	assert.ErrorIs(t, err, domainErrors.ErrItemNotFound)
	assert.False(t, mr.Exists(itemKey(3)))
}

func TestFindByID_QuantityChangedOutside(t *testing.T) {
	ctx := context.Background()
	store := newMemoryItemRepo(milk(1))
	repo, _ := newTestCache(t, store)

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	store.setQuantity(1, 4)

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Quantity)
	assert.Equal(t, 2, store.findByIDCalls)
}

func TestFindQuantityByID_ReadsStore(t *testing.T) {
	ctx := context.Background()
	store := newMemoryItemRepo(milk(1))
	repo, _ := newTestCache(t, store)

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	quantity, err := repo.FindQuantityByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(15), quantity)

	store.remove(1)

	_, err = repo.FindQuantityByID(ctx, 1)
	assert.ErrorIs(t, err, domainErrors.ErrItemNotFound)
}

func TestCreate_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestCache(t, newMemoryItemRepo())

	// 同じ ID に残っていた古いエントリー
	require.NoError(t, mr.Set(itemKey(1), `{"id":1,"name":"Old"}`))

	created, err := repo.Create(ctx, milk(0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, mr.Exists(itemKey(1)))
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	store := newMemoryItemRepo(milk(1))
	repo, mr := newTestCache(t, store)

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	updated := milk(1)
	updated.Name = "Whole milk"
	require.NoError(t, repo.Update(ctx, updated))
	assert.False(t, mr.Exists(itemKey(1)))

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Whole milk", got.Name)
	assert.Equal(t, 2, store.findByIDCalls)
}

func TestDelete_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	store := newMemoryItemRepo(milk(1))
	repo, mr := newTestCache(t, store)

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, 1))
	assert.False(t, mr.Exists(itemKey(1)))

	_, err = repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, domainErrors.ErrItemNotFound)
}

func TestFindByID_CorruptEntryIsMiss(t *testing.T) {
	store := newMemoryItemRepo(milk(1))
	repo, mr := newTestCache(t, store)
	require.NoError(t, mr.Set(itemKey(1), "not json"))

	item, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Milk", item.Name)
	assert.Equal(t, 1, store.findByIDCalls)
}

func TestFindByID_RedisDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	store := newMemoryItemRepo(milk(1))
	repo, mr := newTestCache(t, store)
	mr.Close()

	item, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Milk", item.Name)

	require.NoError(t, repo.Delete(ctx, 1))
	assert.Equal(t, 1, store.findByIDCalls)
}
