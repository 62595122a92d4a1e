package prefetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"raffle-storefront/config"
	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/repository/memory"
)

type downloaderMock struct {
	mock.Mock
}

func (m *downloaderMock) DownloadDataURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type countingDownloader struct {
	calls atomic.Int32
	fail  map[string]bool
}

func (d *countingDownloader) DownloadDataURL(_ context.Context, id string) (string, error) {
	d.calls.Add(1)
	if d.fail[id] {
		return "", errors.New("boom")
	}
	return "data:image/png;base64," + id, nil
}

func newCache() *memory.MediaCache {
	return memory.NewMediaCache(config.MediaConfig{CachePrefix: "p_", CacheTTL: 1 << 62}, clock.NewSystem())
}

func TestFilter(t *testing.T) {
	got := Filter([]string{"", " a ", "http://x/y.png", "https://x", "data:image/png;base64,AA==", "b", "a"})
	require.Equal(t, []string{"a", "b"}, got)
}

func TestRunNothingToDo(t *testing.T) {
	p := New(newCache(), &countingDownloader{}, zap.NewNop().Sugar(), 5)

	var calls [][2]int
	rep := p.Run(context.Background(), []string{"", "https://cdn/x.png"}, func(l, tot int) {
		calls = append(calls, [2]int{l, tot})
	})
	require.Equal(t, Report{}, rep)
	require.Equal(t, [][2]int{{0, 0}}, calls)
}

func TestRunProgressIsMonotonicDespiteFailures(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	dl := &countingDownloader{fail: map[string]bool{"c": true, "h": true, "l": true}}
	p := New(newCache(), dl, zap.NewNop().Sugar(), 5)

	var (
		mu   sync.Mutex
		seen []int
	)
	rep := p.Run(context.Background(), ids, func(loaded, total int) {
		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, len(ids), total)
		seen = append(seen, loaded)
	})

	require.Equal(t, Report{Total: 12, Loaded: 12, Failed: 3}, rep)
	require.Len(t, seen, 12)
	for i, v := range seen {
		require.Equal(t, i+1, v)
	}
}

func TestRunUsesCache(t *testing.T) {
	cache := newCache()
	require.NoError(t, cache.Put(context.Background(), "a", "data:image/png;base64,cached"))

	dl := &downloaderMock{}
	dl.On("DownloadDataURL", mock.Anything, "b").Return("data:image/png;base64,fresh", nil).Once()

	p := New(cache, dl, zap.NewNop().Sugar(), 0)
	rep := p.Run(context.Background(), []string{"a", "b"}, nil)
	require.Equal(t, Report{Total: 2, Loaded: 2}, rep)
	dl.AssertExpectations(t)

	got, ok, err := cache.Get(context.Background(), "b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "data:image/png;base64,fresh", got)
}

func TestRunStopsOnCancel(t *testing.T) {
	dl := &countingDownloader{}
	p := New(newCache(), dl, zap.NewNop().Sugar(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	rep := p.Run(ctx, []string{"a", "b", "c", "d", "e"}, func(loaded, _ int) {
		if loaded == 2 {
			cancel()
		}
	})
	require.Equal(t, 5, rep.Total)
	require.Equal(t, 2, rep.Loaded)
	require.EqualValues(t, 2, dl.calls.Load())
}

func TestResolveDownloadError(t *testing.T) {
	dl := &downloaderMock{}
	dl.On("DownloadDataURL", mock.Anything, "x").Return("", errors.New("drive down"))

	p := New(newCache(), dl, zap.NewNop().Sugar(), 5)
	_, err := p.Resolve(context.Background(), "x")
	require.EqualError(t, err, "drive down")
}
