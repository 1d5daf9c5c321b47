package allocator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dagucloud/wfengine/pkg/wf"
)

func TestAllocatorGrantsWithinTotals(t *testing.T) {
	a := New(4, 4096)
	defer a.Close()

	ctx := context.Background()
	res, err := a.Request(ctx, wf.Resource{NP: 2, Mem: 1024})
	require.NoError(t, err)
	require.Equal(t, 2, res.NP)
	a.Release(res)
}

func TestAllocatorRejectsOverTotal(t *testing.T) {
	a := New(2, 2048)
	defer a.Close()

	_, err := a.Request(context.Background(), wf.Resource{NP: 3, Mem: 512})
	require.Error(t, err)
	var allocErr *AllocationError
	require.ErrorAs(t, err, &allocErr)
}

// TestAllocatorSequencesUnderContention mirrors spec scenario S6: a
// total of np=2 scheduling two independent tasks each requiring np=2
// must run them sequentially, never overlapping.
func TestAllocatorSequencesUnderContention(t *testing.T) {
	a := New(2, 2048)
	defer a.Close()

	var inFlight atomic.Int32
	var sawOverlap atomic.Bool

	run := func() {
		res, err := a.Request(context.Background(), wf.Resource{NP: 2, Mem: 256})
		require.NoError(t, err)
		if inFlight.Add(1) > 1 {
			sawOverlap.Store(true)
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		a.Release(res)
	}

	done := make(chan struct{}, 2)
	go func() { run(); done <- struct{}{} }()
	go func() { run(); done <- struct{}{} }()
	<-done
	<-done

	require.False(t, sawOverlap.Load())
}

func TestAllocatorFIFOOrder(t *testing.T) {
	a := New(1, 1024)
	defer a.Close()

	first, err := a.Request(context.Background(), wf.Resource{NP: 1, Mem: 100})
	require.NoError(t, err)

	var order []int
	orderCh := make(chan int, 2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			res, err := a.Request(context.Background(), wf.Resource{NP: 1, Mem: 100})
			require.NoError(t, err)
			orderCh <- i
			a.Release(res)
		}()
		time.Sleep(5 * time.Millisecond)
	}

	a.Release(first)
	order = append(order, <-orderCh)
	order = append(order, <-orderCh)
	require.Equal(t, []int{0, 1}, order)
}
