package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	catalogCacheSizeBytes = 10 * 1024 * 1024
	// the catalog is reference data mutated only by maintenance jobs,
	// a few minutes of staleness is fine
	catalogCacheExpireSeconds = 5 * 60
)

// store is the read surface of the catalog Repo that the cache layer
// delegates to.
type store interface {
	ListMovements(ctx context.Context, difficulty Difficulty) ([]Movement, error)
	GetTransition(ctx context.Context, from, to Position) (*Transition, error)
	ListTransitions(ctx context.Context) ([]Transition, error)
	ListFlankingItems(ctx context.Context, sectionType SectionType) ([]FlankingItem, error)
	ListMuscleGroups(ctx context.Context) ([]MuscleGroup, error)
}

// CachedRepo wraps the catalog Repo with an in-process freecache layer.
// The catalog is small and read on every generation request, so cache
// misses or unmarshal problems just fall through to the database.
type CachedRepo struct {
	repo  store
	cache *freecache.Cache
}

func NewCachedRepo(repo store) *CachedRepo {
	return &CachedRepo{
		repo:  repo,
		cache: freecache.NewCache(catalogCacheSizeBytes),
	}
}

func (c *CachedRepo) ListMovements(ctx context.Context, difficulty Difficulty) ([]Movement, error) {
	cacheKey := fmt.Sprintf("movements::%s", difficulty)
	if cached, err := c.cache.Get([]byte(cacheKey)); err == nil {
		var movements []Movement
		unmarshalErr := json.Unmarshal(cached, &movements)
		if unmarshalErr == nil {
			return movements, nil
		}
		log.Errorf("unmarshal cached movements [%s]: %s", cacheKey, unmarshalErr)
	}

	movements, err := c.repo.ListMovements(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	c.set(cacheKey, movements)
	return movements, nil
}

func (c *CachedRepo) GetTransition(ctx context.Context, from, to Position) (*Transition, error) {
	return c.repo.GetTransition(ctx, from, to)
}

func (c *CachedRepo) ListTransitions(ctx context.Context) ([]Transition, error) {
	cacheKey := "transitions"
	if cached, err := c.cache.Get([]byte(cacheKey)); err == nil {
		var transitions []Transition
		unmarshalErr := json.Unmarshal(cached, &transitions)
		if unmarshalErr == nil {
			return transitions, nil
		}
		log.Errorf("unmarshal cached transitions: %s", unmarshalErr)
	}

	transitions, err := c.repo.ListTransitions(ctx)
	if err != nil {
		return nil, err
	}

	c.set(cacheKey, transitions)
	return transitions, nil
}

func (c *CachedRepo) ListFlankingItems(ctx context.Context, sectionType SectionType) ([]FlankingItem, error) {
	cacheKey := fmt.Sprintf("flanking::%s", sectionType)
	if cached, err := c.cache.Get([]byte(cacheKey)); err == nil {
		var items []FlankingItem
		unmarshalErr := json.Unmarshal(cached, &items)
		if unmarshalErr == nil {
			return items, nil
		}
		log.Errorf("unmarshal cached flanking items [%s]: %s", cacheKey, unmarshalErr)
	}

	items, err := c.repo.ListFlankingItems(ctx, sectionType)
	if err != nil {
		return nil, err
	}

	c.set(cacheKey, items)
	return items, nil
}

func (c *CachedRepo) ListMuscleGroups(ctx context.Context) ([]MuscleGroup, error) {
	return c.repo.ListMuscleGroups(ctx)
}

func (c *CachedRepo) set(cacheKey string, value any) {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		log.Errorf("marshal catalog cache value [%s]: %s", cacheKey, err)
		return
	}
	if err := c.cache.Set([]byte(cacheKey), valueBytes, catalogCacheExpireSeconds); err != nil {
		log.Errorf("set catalog cache [%s]: %s", cacheKey, err)
	}
}
