package redisstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
)

type mockCmdable struct {
	mu          sync.Mutex
	incr        map[string]int64
	expireCalls map[string]time.Duration
	incrErr     error
	expireErr   error
	pingErr     error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		incr:        make(map[string]int64),
		expireCalls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.pingErr)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incrErr != nil {
		return redis.NewIntResult(0, m.incrErr)
	}
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireCalls[key] = expiration
	return redis.NewBoolResult(m.expireErr == nil, m.expireErr)
}

func TestCounterKey(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "ordertrack:counter:daily_order:20250307", client.CounterKey("daily_order", "20250307"))
	assert.Equal(t, "ordertrack:counter:hits", client.CounterKey("hits", " "))
}

func TestIncrWithTTLSetsExpiryOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	n, err := client.IncrWithTTL(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, time.Minute, mock.expireCalls["k"])

	delete(mock.expireCalls, "k")
	n, err = client.IncrWithTTL(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NotContains(t, mock.expireCalls, "k")
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	_, err := client.Incr(context.Background(), "k")
	require.Error(t, err)
	require.Error(t, client.Ping(context.Background()))
	require.NoError(t, client.Close())
}

func TestNewValidatesURL(t *testing.T) {
	_, err := New(context.Background(), "")
	require.Error(t, err)

	_, err = New(context.Background(), "http://not-redis")
	require.Error(t, err)
}

func TestSequenceAllocatorNext(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	allocator := NewSequenceAllocator(&Client{store: mock})
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	first, err := allocator.Next(ctx, day)
	require.NoError(t, err)
	second, err := allocator.Next(ctx, day)
	require.NoError(t, err)
	other, err := allocator.Next(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 1, other)
	assert.Equal(t, counterTTL, mock.expireCalls["ordertrack:counter:daily_order:20250307"])
}

func TestSequenceAllocatorConcurrentNumbersAreDistinct(t *testing.T) {
	ctx := context.Background()
	allocator := NewSequenceAllocator(&Client{store: newMockCmdable()})
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	const workers = 50
	results := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := allocator.Next(ctx, day)
			assert.NoError(t, err)
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool, workers)
	for n := range results {
		assert.False(t, seen[n], "duplicate number %d", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
}

func TestSequenceAllocatorFailure(t *testing.T) {
	mock := newMockCmdable()
	mock.incrErr = errors.New("connection refused")
	allocator := NewSequenceAllocator(&Client{store: mock})

	_, err := allocator.Next(context.Background(), time.Now())
	require.ErrorIs(t, err, domainErrors.ErrSequenceUnavailable)
}

func TestSequenceAllocatorKeepsNumberWhenExpireFails(t *testing.T) {
	mock := newMockCmdable()
	mock.expireErr = errors.New("readonly replica")
	allocator := NewSequenceAllocator(&Client{store: mock})

	n, err := allocator.Next(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSequenceAllocatorHealthCheck(t *testing.T) {
	mock := newMockCmdable()
	allocator := NewSequenceAllocator(&Client{store: mock})
	require.NoError(t, allocator.HealthCheck(context.Background()))

	mock.pingErr = errors.New("connection refused")
	err := allocator.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}
