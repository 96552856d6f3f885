package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run("код выполняется и ошибка возвращается", func(t *testing.T) {
		ok, err := WithDelay(context.Background(), "k1", time.Second, func() error {
			return errors.New("boom")
		})
		require.True(t, ok)
		require.EqualError(t, err, "boom")
	})
	t.Run("один писатель на ключ", func(t *testing.T) {
		var inside, maxInside int32
		wg := sync.WaitGroup{}
		for n := 0; n < 10; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := WithDelay(context.Background(), ApplicationKey("a1"), 5*time.Second, func() error {
					cur := atomic.AddInt32(&inside, 1)
					for {
						prev := atomic.LoadInt32(&maxInside)
						if cur <= prev || atomic.CompareAndSwapInt32(&maxInside, prev, cur) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					return nil
				})
				require.True(t, ok)
				require.NoError(t, err)
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), maxInside)
	})
	t.Run("таймаут ожидания", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.Background(), "k2", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started
		ok, err := WithDelay(context.Background(), "k2", 30*time.Millisecond, func() error { return nil })
		close(release)
		require.False(t, ok)
		require.NoError(t, err)
	})
}
