package taskctl

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// ProcessorCount is the number of cooperative harts the kernel models
// (spec.md §5: "multi-hart (PROCESSOR_COUNT = 2)").
const ProcessorCount = 2

// HartGate bounds the number of syscall handlers running concurrently
// to ProcessorCount, giving §5's "only N harts run handlers
// concurrently" rule a concrete, testable mechanism rather than an
// unenforced comment. Grounded on golang.org/x/sync/semaphore, already
// part of the retrieval pack's domain stack (gcsfuse depends on
// golang.org/x/sync).
type HartGate struct {
	sem *semaphore.Weighted
}

// NewHartGate builds a gate sized to ProcessorCount.
func NewHartGate() *HartGate {
	return &HartGate{sem: semaphore.NewWeighted(ProcessorCount)}
}

// Acquire blocks until a hart slot is free or ctx is done.
func (g *HartGate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release frees a hart slot.
func (g *HartGate) Release() {
	g.sem.Release(1)
}

// TryAcquire attempts to acquire a hart slot without blocking.
func (g *HartGate) TryAcquire() bool {
	return g.sem.TryAcquire(1)
}
