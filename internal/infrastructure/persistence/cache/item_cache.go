package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"inventory-api/internal/domain/entity"
	domainErrors "inventory-api/internal/domain/errors"
	"inventory-api/internal/usecase"
)

const (
	itemKeyPrefix  = "item:"
	DefaultItemTTL = 5 * time.Minute
)

// ItemRepository is a read-through cache in front of another ItemRepository.
// Single items are cached by id; every write drops the cached entry.
// A hit is only served after the store confirms the row still exists with
// the same quantity, since a category delete removes items through the
// foreign key without passing through this repository.
// FindAll, FindQuantityByID and CountByCategory always go to the store.
type ItemRepository struct {
	next   usecase.ItemRepository
	client *redis.Client
	ttl    time.Duration
}

func NewItemRepository(next usecase.ItemRepository, client *redis.Client, ttl time.Duration) *ItemRepository {
	if ttl <= 0 {
		ttl = DefaultItemTTL
	}
	return &ItemRepository{next: next, client: client, ttl: ttl}
}

func itemKey(id int64) string {
	return itemKeyPrefix + strconv.FormatInt(id, 10)
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]*entity.Item, error) {
	return r.next.FindAll(ctx)
}

func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*entity.Item, error) {
	if item, ok := r.get(ctx, id); ok {
		fresh, err := r.confirm(ctx, item)
		if err != nil {
			return nil, err
		}
		if fresh {
			return item, nil
		}
	}

	item, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.set(ctx, item)
	return item, nil
}

func (r *ItemRepository) FindQuantityByID(ctx context.Context, id int64) (int64, error) {
	return r.next.FindQuantityByID(ctx, id)
}

// confirm checks a cached item against the store. A missing row drops the
// entry and returns the not-found error; a changed quantity drops the entry
// and reports the copy as stale.
func (r *ItemRepository) confirm(ctx context.Context, cached *entity.Item) (bool, error) {
	quantity, err := r.next.FindQuantityByID(ctx, cached.ID)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			r.invalidate(ctx, cached.ID)
		}
		return false, err
	}
	if quantity != cached.Quantity {
		r.invalidate(ctx, cached.ID)
		return false, nil
	}
	return true, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, created.ID)
	return created, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *entity.Item) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.ID)
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *ItemRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	return r.next.CountByCategory(ctx)
}

// get treats any Redis failure as a miss so the store stays authoritative.
func (r *ItemRepository) get(ctx context.Context, id int64) (*entity.Item, bool) {
	val, err := r.client.Get(ctx, itemKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Warnf("cache: get item %d: %v", id, err)
		return nil, false
	}

	var item entity.Item
	if err := json.Unmarshal(val, &item); err != nil {
		log.Warnf("cache: decode item %d: %v", id, err)
		return nil, false
	}
	return &item, true
}

func (r *ItemRepository) set(ctx context.Context, item *entity.Item) {
	data, err := json.Marshal(item)
	if err != nil {
		log.Warnf("cache: encode item %d: %v", item.ID, err)
		return
	}
	if err := r.client.Set(ctx, itemKey(item.ID), data, r.ttl).Err(); err != nil {
		log.Warnf("cache: set item %d: %v", item.ID, err)
	}
}

func (r *ItemRepository) invalidate(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, itemKey(id)).Err(); err != nil {
		log.Warnf("cache: invalidate item %d: %v", id, err)
	}
}
