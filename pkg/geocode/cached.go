package geocode

import "context"

// CacheErrorFunc receives cache failures; op is "get" or "set".
type CacheErrorFunc func(op, key string, err error)

// CachedResolver memoizes another Resolver. Cache failures fall through to
// the upstream resolver; only successful lookups are stored.
type CachedResolver struct {
	next      Resolver
	cache     Cache
	precision int
	onError   CacheErrorFunc
}

func NewCachedResolver(next Resolver, cache Cache, precision int) *CachedResolver {
	return &CachedResolver{next: next, cache: cache, precision: precision}
}

// OnCacheError registers fn to observe cache failures. Lookups still succeed.
func (r *CachedResolver) OnCacheError(fn CacheErrorFunc) *CachedResolver {
	r.onError = fn
	return r
}

func (r *CachedResolver) Reverse(ctx context.Context, lat, lng float64) (*Address, error) {
	addr, _, err := r.Lookup(ctx, lat, lng)
	return addr, err
}

// Lookup is Reverse that also reports whether the cache answered.
func (r *CachedResolver) Lookup(ctx context.Context, lat, lng float64) (*Address, bool, error) {
	if !ValidCoordinates(lat, lng) {
		return nil, false, ErrInvalidCoordinates
	}

	key := Key(lat, lng, r.precision)
	addr, found, err := r.cache.Get(ctx, key)
	if err != nil {
		r.report("get", key, err)
	} else if found {
		return addr, true, nil
	}

	addr, err = r.next.Reverse(ctx, lat, lng)
	if err != nil {
		return nil, false, err
	}
	if err := r.cache.Set(ctx, key, addr); err != nil {
		r.report("set", key, err)
	}
	return addr, false, nil
}

func (r *CachedResolver) report(op, key string, err error) {
	if r.onError != nil {
		r.onError(op, key, err)
	}
}
