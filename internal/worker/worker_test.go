package worker

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool(3, 4)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		ok := p.Submit("count", func() error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})
		require.True(t, ok)
	}
	p.Stop()
	require.Equal(t, 5, count)
}

func TestPoolSurvivesFailingTasks(t *testing.T) {
	p := NewPool(0, -1)
	var done atomic.Int32
	require.True(t, p.Submit("err", func() error { return errors.New("boom") }))
	require.True(t, p.Submit("panic", func() error { panic("boom") }))
	require.True(t, p.Submit("ok", func() error { done.Add(1); return nil }))
	p.Stop()
	require.Equal(t, int32(1), done.Load())
}

func TestSubmitAfterStop(t *testing.T) {
	p := NewPool(1, 0)
	p.Stop()
	p.Stop()
	require.False(t, p.Submit("late", func() error { return nil }))
	require.False(t, NewPool(1, 0).Submit("nil", nil))
}
