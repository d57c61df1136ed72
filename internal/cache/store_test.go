package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreNamespaces(t *testing.T) {
	root := NewStore(Options{DefaultTTL: time.Minute})
	reports := root.Namespace("report")
	limits := root.Namespace(":limit:")

	reports.Set("k", "doc", 0)
	v, ok := reports.Get("k")
	require.True(t, ok)
	assert.Equal(t, "doc", v)

	_, ok = limits.Get("k")
	assert.False(t, ok)
	_, ok = root.Get("report:k")
	assert.True(t, ok)

	reports.Delete("k")
	_, ok = reports.Get("k")
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	s := NewStore(Options{DefaultTTL: time.Minute})
	s.Set("short", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	_, ok := s.Get("short")
	assert.False(t, ok)
}

func TestStoreIncrement(t *testing.T) {
	s := NewStore(Options{}).Namespace("rl")

	n, exp, err := s.Increment("1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	n, exp2, err := s.Increment("1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, exp, exp2, "the window is not extended")

	s.Set("text", "x", 0)
	_, _, err = s.Increment("text", 1, 0)
	assert.Error(t, err)
}

func TestStoreIncrementConcurrent(t *testing.T) {
	s := NewStore(Options{})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = s.Increment("c", 1, time.Minute)
		}()
	}
	wg.Wait()
	v, ok := s.Get("c")
	require.True(t, ok)
	assert.Equal(t, int64(100), v)
}
