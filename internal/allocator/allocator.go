// Package allocator implements the resource allocator from spec.md §4.4:
// a FIFO counting semaphore over a CPU-slot budget and a megabyte budget,
// granting requests as both become available and failing permanently
// unsatisfiable requests immediately rather than queueing them forever.
package allocator

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/dagucloud/wfengine/pkg/wf"
)

// AllocationError reports a request that can never be satisfied against
// the allocator's configured totals.
type AllocationError struct {
	Requested wf.Resource
	TotalNP   int
	TotalMem  int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocator: request {np:%d mem:%d} exceeds totals {np:%d mem:%d}",
		e.Requested.NP, e.Requested.Mem, e.TotalNP, e.TotalMem)
}

// request is a waiter's ask, and the channel the grantor signals back on.
type request struct {
	want wf.Resource
	ok   chan struct{}
}

// Allocator is a FIFO counting semaphore over np and mem. Waiters are
// granted strictly in request order; a waiter at the head of the queue
// blocks every waiter behind it until its requirement is met, matching
// the spec's "granting in FIFO order" minimal-correctness requirement.
type Allocator struct {
	totalNP  int
	totalMem int

	acquire chan request
	release chan wf.Resource
	done    chan struct{}
}

// New constructs an Allocator with the given totals and starts its
// granting loop. Callers in tests pass fixed totals for hermetic
// behaviour; DetectHostTotals supplies real-host defaults.
func New(totalNP, totalMem int) *Allocator {
	a := &Allocator{
		totalNP:  totalNP,
		totalMem: totalMem,
		acquire:  make(chan request),
		release:  make(chan wf.Resource),
		done:     make(chan struct{}),
	}
	go a.run()
	return a
}

// DetectHostTotals queries the host's CPU count and total memory via
// gopsutil, for use as the allocator's default totals when the caller
// hasn't pinned one via configuration.
func DetectHostTotals(ctx context.Context) (np int, memMB int, err error) {
	counts, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0, 0, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	return counts, int(vm.Total / (1024 * 1024)), nil
}

func (a *Allocator) run() {
	var avail = wf.Resource{NP: a.totalNP, Mem: a.totalMem}
	var queue []request

	grantHead := func() bool {
		if len(queue) == 0 {
			return false
		}
		head := queue[0]
		if head.want.NP > avail.NP || head.want.Mem > avail.Mem {
			return false
		}
		avail.NP -= head.want.NP
		avail.Mem -= head.want.Mem
		close(head.ok)
		queue = queue[1:]
		return true
	}

	for {
		select {
		case req := <-a.acquire:
			queue = append(queue, req)
			for grantHead() {
			}
		case res := <-a.release:
			avail.NP += res.NP
			avail.Mem += res.Mem
			for grantHead() {
			}
		case <-a.done:
			return
		}
	}
}

// Request asynchronously yields once req.NP CPU slots and req.Mem MB are
// available, honoring FIFO order among waiters. It fails immediately
// with *AllocationError if req exceeds the allocator's configured
// totals, and returns ctx's error if ctx is cancelled first.
func (a *Allocator) Request(ctx context.Context, req wf.Resource) (wf.Resource, error) {
	if req.NP > a.totalNP || req.Mem > a.totalMem {
		return wf.Resource{}, &AllocationError{Requested: req, TotalNP: a.totalNP, TotalMem: a.totalMem}
	}
	r := request{want: req, ok: make(chan struct{})}
	select {
	case a.acquire <- r:
	case <-ctx.Done():
		return wf.Resource{}, ctx.Err()
	case <-a.done:
		return wf.Resource{}, fmt.Errorf("allocator: closed")
	}
	select {
	case <-r.ok:
		return req, nil
	case <-ctx.Done():
		return wf.Resource{}, ctx.Err()
	case <-a.done:
		return wf.Resource{}, fmt.Errorf("allocator: closed")
	}
}

// Release returns res's slots to the pool.
func (a *Allocator) Release(res wf.Resource) {
	select {
	case a.release <- res:
	case <-a.done:
	}
}

// Close stops the allocator's granting loop. Waiters blocked in Request
// at the time of Close return its error.
func (a *Allocator) Close() {
	close(a.done)
}
