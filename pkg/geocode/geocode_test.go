package geocode

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name      string
		lat, lng  float64
		precision int
		want      string
	}{
		{"four decimals", 45.46421, 9.18951, 4, "45.4642,9.1895"},
		{"negative zero folds", -0.00001, 0.00004, 4, "0.0000,0.0000"},
		{"two decimals pads", 1.23456, 2.5, 2, "1.23,2.50"},
		{"zero precision", 10.6, -10.6, 0, "11,-11"},
		{"negative precision clamps", 10.6, -10.6, -3, "11,-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.lat, tt.lng, tt.precision))
		})
	}
}

func TestKeyGroupsNearbyPoints(t *testing.T) {
	assert.Equal(t, Key(45.46421, 9.18951, 4), Key(45.46419, 9.18949, 4))
	assert.NotEqual(t, Key(45.4642, 9.1895, 4), Key(45.4652, 9.1895, 4))
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(0, 0))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(90.1, 0))
	assert.False(t, ValidCoordinates(0, -180.1))
	assert.False(t, ValidCoordinates(math.NaN(), 0))
	assert.False(t, ValidCoordinates(0, math.Inf(1)))
}

const milanResponse = `{"results":[{"formatted":"Piazza del Duomo, 20122 Milano MI, Italy","street":"Piazza del Duomo","city":"Milano","postcode":"20122","country":"Italy","country_code":"it","lat":45.4642,"lon":9.19}]}`

func TestClientReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode/reverse", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "45.4642", q.Get("lat"))
		assert.Equal(t, "9.19", q.Get("lon"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "secret", q.Get("apiKey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(milanResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	addr, err := client.Reverse(context.Background(), 45.4642, 9.19)
	require.NoError(t, err)
	assert.Equal(t, "Piazza del Duomo, 20122 Milano MI, Italy", addr.Formatted)
	assert.Equal(t, "Milano", addr.City)
	assert.Equal(t, "it", addr.CountryCode)
}

func TestClientReverseErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		apiKey  string
		lat     float64
		wantErr error
	}{
		{"no results", http.StatusOK, `{"results":[]}`, "k", 1, ErrNotFound},
		{"missing key", http.StatusOK, milanResponse, "", 1, ErrNotConfigured},
		{"bad coordinates", http.StatusOK, milanResponse, "k", 123, ErrInvalidCoordinates},
		{"upstream failure", http.StatusUnauthorized, `{"error":"Unauthorized"}`, "k", 1, nil},
		{"garbage body", http.StatusOK, `not json`, "k", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, tt.apiKey, time.Second).Reverse(context.Background(), tt.lat, 2)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	_, found, err := c.Get(ctx, "1,2")
	require.NoError(t, err)
	assert.False(t, found)

	addr := &Address{Formatted: "Somewhere"}
	require.NoError(t, c.Set(ctx, "1,2", addr))
	addr.Formatted = "mutated after store"

	got, found, err := c.Get(ctx, "1,2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Somewhere", got.Formatted)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(20 * time.Millisecond)
	require.NoError(t, c.Set(ctx, "k", &Address{Formatted: "x"}))

	assert.Eventually(t, func() bool {
		_, found, _ := c.Get(ctx, "k")
		return !found
	}, time.Second, 10*time.Millisecond)
}

type countingResolver struct {
	calls int
	err   error
}

func (r *countingResolver) Reverse(_ context.Context, lat, lng float64) (*Address, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &Address{Formatted: "Via Roma 1", Latitude: lat, Longitude: lng}, nil
}

func TestCachedResolver(t *testing.T) {
	ctx := context.Background()
	upstream := &countingResolver{}
	resolver := NewCachedResolver(upstream, NewMemoryCache(time.Minute), 4)

	addr, cached, err := resolver.Lookup(ctx, 45.46421, 9.18951)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Via Roma 1", addr.Formatted)

	addr, cached, err = resolver.Lookup(ctx, 45.46419, 9.18949)
	require.NoError(t, err)
	assert.True(t, cached, "nearby point shares the rounded key")
	assert.Equal(t, "Via Roma 1", addr.Formatted)
	assert.Equal(t, 1, upstream.calls)

	_, err = resolver.Reverse(ctx, 95, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
	assert.Equal(t, 1, upstream.calls)
}

func TestCachedResolverDoesNotStoreFailures(t *testing.T) {
	ctx := context.Background()
	upstream := &countingResolver{err: errors.New("boom")}
	resolver := NewCachedResolver(upstream, NewMemoryCache(time.Minute), 4)

	_, err := resolver.Reverse(ctx, 1, 1)
	require.Error(t, err)
	_, err = resolver.Reverse(ctx, 1, 1)
	require.Error(t, err)
	assert.Equal(t, 2, upstream.calls)
}

type brokenCache struct {
	getErr error
	setErr error
}

func (c brokenCache) Get(context.Context, string) (*Address, bool, error) {
	return nil, false, c.getErr
}

func (c brokenCache) Set(context.Context, string, *Address) error {
	return c.setErr
}

func TestCachedResolverReportsCacheErrors(t *testing.T) {
	getErr := errors.New("redis: get timeout")
	setErr := errors.New("redis: set timeout")

	tests := []struct {
		name  string
		cache brokenCache
		want  []string
	}{
		{"set fails", brokenCache{setErr: setErr}, []string{"set"}},
		{"get and set fail", brokenCache{getErr: getErr, setErr: setErr}, []string{"get", "set"}},
		{"healthy", brokenCache{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ops []string
			var errs []error
			resolver := NewCachedResolver(&countingResolver{}, tt.cache, 4).
				OnCacheError(func(op, key string, err error) {
					assert.Equal(t, Key(1, 1, 4), key)
					ops = append(ops, op)
					errs = append(errs, err)
				})

			addr, cached, err := resolver.Lookup(context.Background(), 1, 1)
			require.NoError(t, err)
			assert.False(t, cached)
			assert.Equal(t, "Via Roma 1", addr.Formatted)
			assert.Equal(t, tt.want, ops)
			for i, op := range ops {
				if op == "get" {
					assert.ErrorIs(t, errs[i], getErr)
				} else {
					assert.ErrorIs(t, errs[i], setErr)
				}
			}
		})
	}
}

func TestCachedResolverWithoutErrorHandler(t *testing.T) {
	resolver := NewCachedResolver(&countingResolver{}, brokenCache{setErr: errors.New("down")}, 4)

	addr, err := resolver.Reverse(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Via Roma 1", addr.Formatted)
}

func TestRedisCache(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("Skipping redis test: REDIS_URL not set")
	}
	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	ctx := context.Background()
	c := NewRedisCache(rdb, time.Minute)
	key := Key(12.3456, 65.4321, 4) + ":" + time.Now().Format(time.RFC3339Nano)

	_, found, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, key, &Address{Formatted: "Redis Street", City: "Cache City"}))
	got, found, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Cache City", got.City)
}
