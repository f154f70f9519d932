package modelholder

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeEncoder struct{ dim int }

func (f fakeEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, f.dim), nil
}
func (f fakeEncoder) Dimension() int { return f.dim }

func TestGetLoadsOnce(t *testing.T) {
	var loads int64
	loader := func(ctx context.Context, name string) (Encoder, error) {
		atomic.AddInt64(&loads, 1)
		return fakeEncoder{dim: 8}, nil
	}
	h := New(loader)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Get(context.Background(), "bge-m3")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), loads)
	stats := h.Stats("bge-m3")
	require.Equal(t, int64(1), stats.LoadCount)
	require.True(t, stats.CacheHits >= int64(49))
}

func TestGetKeepsModelsIndependent(t *testing.T) {
	loader := func(ctx context.Context, name string) (Encoder, error) {
		return fakeEncoder{dim: len(name)}, nil
	}
	h := New(loader)
	_, _ = h.Get(context.Background(), "a")
	_, _ = h.Get(context.Background(), "bb")
	require.Equal(t, int64(1), h.Stats("a").LoadCount)
	require.Equal(t, int64(1), h.Stats("bb").LoadCount)
}
