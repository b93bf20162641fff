package syscalls

// SyncHandler is a handler that runs to completion without suspending
// (spec.md §4.6: "may be synchronous (returns a result)").
type SyncHandler func(ctx *Context) int64

// Yielder is the scheduler's only surface visible to a cooperative
// handler (spec.md §9: "the scheduler is an external collaborator
// exposing only yield_now()").
type Yielder interface {
	Yield()
}

// AsyncHandler is a handler that may suspend at designated yield points
// (spec.md §4.6: "or cooperative (returns a future polled to completion,
// yielding to the scheduler at suspension points)"). Go has no bare
// `async fn`, so the cooperative loop is expressed directly: the handler
// itself calls y.Yield() at its suspension point instead of returning an
// intermediate "not yet ready" value for an external poller to drive.
type AsyncHandler func(ctx *Context, y Yielder) int64

type registryEntry struct {
	name  string
	sync  SyncHandler
	async AsyncHandler
}

// Registry maps syscall numbers to handlers (spec.md §4.6: "Looks up a
// handler").
type Registry struct {
	entries map[uint64]registryEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint64]registryEntry)}
}

// RegisterSync installs a synchronous handler at num.
func (r *Registry) RegisterSync(num uint64, name string, h SyncHandler) {
	r.entries[num] = registryEntry{name: name, sync: h}
}

// RegisterAsync installs a cooperative handler at num.
func (r *Registry) RegisterAsync(num uint64, name string, h AsyncHandler) {
	r.entries[num] = registryEntry{name: name, async: h}
}

// Lookup returns the entry registered at num, if any.
func (r *Registry) Lookup(num uint64) (registryEntry, bool) {
	e, ok := r.entries[num]
	return e, ok
}

// Name returns the handler's registered name, for logging.
func (e registryEntry) Name() string { return e.name }
