// SPDX-License-Identifier: Apache-2.0

package syncqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueue_PushPopOrder(t *testing.T) {
	q := New[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)

	for _, want := range []int{1, 2, 3} {
		got, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := q.Pop()
	require.False(t, ok)
}

func TestQueue_WaitForData_TimesOut(t *testing.T) {
	q := New[int]()
	start := time.Now()
	ok := q.WaitForData(30 * time.Millisecond)
	require.False(t, ok)
	require.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestQueue_WaitForData_WakesOnPush(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup
	wg.Add(1)

	var woke bool
	go func() {
		defer wg.Done()
		woke = q.WaitForData(time.Second)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(42)
	wg.Wait()

	require.True(t, woke)
	require.False(t, q.Empty())
}

func TestQueue_MultipleProducers(t *testing.T) {
	q := New[int]()
	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Push(j)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, q.Len())
}
