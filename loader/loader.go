package loader

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"

	"github.com/status-im/asset-loader/asset"
	"github.com/status-im/asset-loader/cache"
	"github.com/status-im/asset-loader/config"
	"github.com/status-im/asset-loader/events"
	"github.com/status-im/asset-loader/interfaces"
	"github.com/status-im/asset-loader/metrics"
	"github.com/status-im/asset-loader/scheduler"
)

// Counters are the loader's aggregate load statistics. Errors reflects
// currently outstanding failures, not cumulative ones: a retried item
// that eventually succeeds takes its retries back out of the counter.
type Counters struct {
	Total    int `json:"total"`
	Complete int `json:"complete"`
	Errors   int `json:"errors"`
}

// Status is the payload of the status event and the status endpoint
type Status struct {
	Counters
	Active             int `json:"active"`
	Queued             int `json:"queued"`
	Cached             int `json:"cached"`
	WaitingInteraction int `json:"waiting_interaction"`
}

// Loader owns the request queue, the cache store, the bounded active
// set and the dispatch tick. One Loader per application; it is an
// explicitly constructed value with a Start/Stop lifecycle.
type Loader struct {
	cfg     *config.Config
	store   *cache.Store
	bus     events.IBus
	fetcher interfaces.Fetcher
	caps    asset.Capabilities
	sched   *scheduler.Scheduler

	mu       sync.Mutex
	queue    requestQueue
	active   []*asset.Item
	counters Counters
	dirty    bool
	started  bool
	waiting  int
	runCtx   context.Context
	basePath string
	mirrors  []string
	auth     asset.AuthContext
}

// New creates the loader. The capability bundle supplies the decode
// and resource-registry collaborators; nil members use built-ins.
func New(cfg *config.Config, store *cache.Store, fetcher interfaces.Fetcher, caps asset.Capabilities, bus events.IBus) *Loader {
	if caps.Gate == nil {
		caps.Gate = asset.NewInteractionGate()
	}
	l := &Loader{
		cfg:      cfg,
		store:    store,
		bus:      bus,
		fetcher:  fetcher,
		caps:     caps,
		basePath: cfg.BasePath,
		mirrors:  cfg.Mirrors,
	}
	l.sched = scheduler.New(cfg.Loader.TickInterval, l.tick)
	return l
}

// Start implements core.Interface. Work enqueued before Start stays
// pending; the dispatch loop begins ticking as soon as both a run
// context and work are present.
func (l *Loader) Start(ctx context.Context) error {
	l.mu.Lock()
	l.runCtx = ctx
	l.mu.Unlock()
	l.kick()
	return nil
}

// Stop aborts every active item's in-flight attempt and re-inserts
// each as a pending entry at the front of the queue, preserving their
// relative order, so a later Start resumes where the run left off.
func (l *Loader) Stop() {
	l.sched.Stop()
	ctx := l.emitCtx()

	l.mu.Lock()
	active := l.active
	l.active = nil
	for i := len(active) - 1; i >= 0; i-- {
		it := active[i]
		l.queue.pushFront(entry{item: it, identity: it.Identity()})
	}
	stopped := l.started
	l.started = false
	l.mu.Unlock()

	for _, it := range active {
		it.Cancel()
	}
	if stopped {
		l.bus.Emit(ctx, events.Event{Name: events.LoadStop})
	}
}

// Release discards every pending and active item, rolls the error
// counter back, and clears the cache store. No events are emitted.
func (l *Loader) Release() {
	l.sched.Stop()

	l.mu.Lock()
	items := l.queue.drain()
	items = append(items, l.active...)
	l.active = nil
	evicted := l.store.Clear()
	l.counters = Counters{}
	l.dirty = false
	l.started = false
	l.mu.Unlock()

	for _, it := range items {
		it.ResetFailures()
		it.Cancel()
	}
	for _, it := range evicted {
		it.Cancel()
	}
}

// SetBasePath sets the base path prepended to relative resource URIs
func (l *Loader) SetBasePath(basePath string) {
	l.mu.Lock()
	l.basePath = basePath
	l.mu.Unlock()
}

// SetMirrors replaces the fallback mirror list
func (l *Loader) SetMirrors(mirrors []string) {
	l.mu.Lock()
	l.mirrors = mirrors
	l.mu.Unlock()
}

// SetAuthToken attaches a bearer token to future outgoing data requests
func (l *Loader) SetAuthToken(token string) {
	l.mu.Lock()
	l.auth.Token = token
	l.mu.Unlock()
}

// SetSession attaches a session identifier to future outgoing data requests
func (l *Loader) SetSession(session string) {
	l.mu.Lock()
	l.auth.Session = session
	l.mu.Unlock()
}

// SignalInteraction fires the user-interaction signal, releasing every
// sound item parked on the gesture gate
func (l *Loader) SignalInteraction() {
	l.caps.Gate.Fire()
}

// LoadFile enqueues one resource under (group, key). Passing empty
// group or key makes the item anonymous: it loads but never enters the
// cache store. A second request for an occupied (group, key) cancels
// and replaces the earlier one.
func (l *Loader) LoadFile(group, key, uri string, onDone func(*asset.Item, error)) *asset.Item {
	l.mu.Lock()
	resolved := asset.ResolveAddress(l.basePath, l.mirrors, uri)

	var superseded []*asset.Item
	if group != "" && key != "" {
		if old, ok := l.queue.removeItem(group, key); ok {
			l.counters.Total--
			superseded = append(superseded, old)
		}
		if old := l.takeActive(group, key); old != nil {
			l.counters.Total--
			l.counters.Errors -= old.FailureCount()
			if l.counters.Errors < 0 {
				l.counters.Errors = 0
			}
			superseded = append(superseded, old)
		}
	}

	it := l.newItemLocked(group, key, resolved, onDone)
	l.queue.push(entry{item: it, identity: it.Identity()})
	l.counters.Total++
	l.dirty = true
	l.mu.Unlock()

	for _, old := range superseded {
		old.ResetFailures()
		old.Cancel()
	}
	l.kick()
	return it
}

// LoadGroup enqueues a named group of resources followed by a barrier
// that fires onDone once every earlier-queued load has settled. The
// resource URI doubles as the item key.
func (l *Loader) LoadGroup(group string, uris []string, onDone func(group string)) {
	for _, uri := range uris {
		l.LoadFile(group, uri, uri, nil)
	}
	if onDone != nil {
		group := group
		l.Barrier("barrier:"+group, func() { onDone(group) })
	}
}

// LoadManifest enqueues a map of named groups. Groups are enqueued in
// sorted name order so repeated runs dispatch deterministically.
func (l *Loader) LoadManifest(manifest map[string][]string, onGroup func(group string)) {
	groups := make([]string, 0, len(manifest))
	for group := range manifest {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	for _, group := range groups {
		l.LoadGroup(group, manifest[group], onGroup)
	}
}

// Barrier enqueues a callback that fires only once the active set is
// empty and every earlier queue entry has been dispatched and settled
func (l *Loader) Barrier(identity string, cb func()) {
	l.mu.Lock()
	l.queue.push(entry{barrier: cb, identity: identity})
	l.mu.Unlock()
	l.kick()
}

// Query issues a fire-and-forget API request carrying the message.
// Rapid repeated calls for the same address coalesce into one network
// round trip: if a pending queue entry already targets the address the
// message joins its batch instead of creating a new entry.
func (l *Loader) Query(address string, message json.RawMessage) {
	l.mu.Lock()
	resolved := asset.ResolveAddress(l.basePath, l.mirrors, address)
	primary := resolved.Addresses[0]

	if existing := l.queue.findDataItem(primary); existing != nil {
		existing.AttachMessage(message)
		l.mu.Unlock()
		return
	}

	it := l.newItemLocked("", "", resolved, nil)
	it.AttachMessage(message)
	l.queue.push(entry{item: it, identity: "api:query:" + primary})
	l.counters.Total++
	l.dirty = true
	l.mu.Unlock()
	l.kick()
}

// Lookup returns the cached ready item for (group, key)
func (l *Loader) Lookup(group, key string) (*asset.Item, bool) {
	return l.store.Get(group, key)
}

// UnloadFile removes the first pending request for (group, key), or
// cancels it if already active, and evicts any ready cached entry
func (l *Loader) UnloadFile(group, key string) {
	l.mu.Lock()
	var dropped []*asset.Item
	if it, ok := l.queue.removeItem(group, key); ok {
		l.counters.Total--
		l.dirty = true
		dropped = append(dropped, it)
	} else if it := l.takeActive(group, key); it != nil {
		l.counters.Total--
		l.counters.Errors -= it.FailureCount()
		if l.counters.Errors < 0 {
			l.counters.Errors = 0
		}
		l.dirty = true
		dropped = append(dropped, it)
	}
	cached, wasCached := l.store.Get(group, key)
	if wasCached {
		l.store.Remove(group, key)
	}
	l.mu.Unlock()

	for _, it := range dropped {
		it.ResetFailures()
		it.Cancel()
	}
	if wasCached {
		cached.Cancel()
	}
}

// UnloadGroup removes every pending, active and cached item of a group
func (l *Loader) UnloadGroup(group string) {
	l.mu.Lock()
	dropped := l.queue.removeGroup(group)
	for i := 0; i < len(l.active); {
		it := l.active[i]
		if it.Group() == group {
			l.active = append(l.active[:i], l.active[i+1:]...)
			dropped = append(dropped, it)
			continue
		}
		i++
	}
	for _, it := range dropped {
		l.counters.Total--
		l.counters.Errors -= it.FailureCount()
	}
	if l.counters.Errors < 0 {
		l.counters.Errors = 0
	}
	if len(dropped) > 0 {
		l.dirty = true
	}
	evicted := l.store.RemoveGroup(group)
	l.mu.Unlock()

	for _, it := range dropped {
		it.ResetFailures()
		it.Cancel()
	}
	for _, it := range evicted {
		it.Cancel()
	}
}

// UnloadAll discards every pending, active and cached item
func (l *Loader) UnloadAll() {
	l.Release()
}

// Counters returns a snapshot of the aggregate counters
func (l *Loader) Counters() Counters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counters
}

// Status returns a snapshot of the loader state
func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statusLocked()
}

// ActiveCount returns the current active-set size
func (l *Loader) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}

// QueueLen returns the number of pending queue entries
func (l *Loader) QueueLen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.len()
}

// tick is one pass of the dispatch loop. Returning false stops the
// scheduler until new work kicks it again.
func (l *Loader) tick(ctx context.Context) bool {
	var barriers []func()
	var statusEvt *Status

	l.mu.Lock()

	if !l.started && (l.queue.len() > 0 || len(l.active) > 0) {
		l.started = true
		l.bus.Emit(ctx, events.Event{Name: events.LoadStart})
	}

	capacity := l.cfg.Loader.MaxParallelJobs - len(l.active)
	if l.counters.Errors > 0 {
		// Outage condition: no new dispatch while failures are outstanding
		capacity = 0
	}
	if capacity > l.queue.len() {
		capacity = l.queue.len()
	}

	if l.dirty {
		l.dirty = false
		s := l.statusLocked()
		statusEvt = &s
	}

	for capacity > 0 && l.queue.len() > 0 {
		front := l.queue.peek()
		if front.barrier != nil {
			// A barrier fires only against a fully settled prefix
			if len(l.active) != 0 {
				break
			}
			e := l.queue.pop()
			barriers = append(barriers, e.barrier)
			continue
		}
		e := l.queue.pop()
		l.active = append(l.active, e.item)
		e.item.Start(ctx)
		capacity--
	}

	metrics.SetActiveJobs(len(l.active))
	metrics.SetQueueDepth(l.queue.len())

	keepTicking := true
	if len(l.active) == 0 && l.queue.len() == 0 {
		keepTicking = false
		if l.started {
			l.started = false
			if l.counters.Errors > 0 {
				l.bus.Emit(ctx, events.Event{Name: events.LoadTerminated, Payload: l.counters})
			} else {
				l.bus.Emit(ctx, events.Event{Name: events.LoadComplete, Payload: l.store.Snapshot()})
			}
			l.bus.Emit(ctx, events.Event{Name: events.LoadStop})
		}
	}
	l.mu.Unlock()

	if statusEvt != nil {
		l.bus.Emit(ctx, events.Event{Name: events.Status, Payload: *statusEvt})
	}
	for _, cb := range barriers {
		cb()
	}
	return keepTicking
}

// ItemSucceeded implements asset.Reporter. Ordering matters: the item
// is registered in the store before the caller's callback runs, so the
// callback always observes a cache hit. A report from an item no longer
// in the active set is stale (it lost a race with unload, replace or
// stop) and is dropped without touching the store or the counters.
func (l *Loader) ItemSucceeded(it *asset.Item, retries int) {
	ctx := l.emitCtx()

	l.mu.Lock()
	if !l.removeActive(it) {
		l.mu.Unlock()
		return
	}
	l.store.Put(it)
	l.counters.Complete++
	if retries > 0 {
		l.counters.Errors -= retries
		if l.counters.Errors < 0 {
			l.counters.Errors = 0
		}
	}
	l.dirty = true
	l.mu.Unlock()

	it.NotifyDone(nil)
	l.bus.Emit(ctx, events.Event{Name: events.FileLoaded, Payload: it})
	l.kick()
}

// ItemFailedTransiently implements asset.Reporter
func (l *Loader) ItemFailedTransiently(it *asset.Item) {
	l.mu.Lock()
	l.counters.Errors++
	l.dirty = true
	l.mu.Unlock()
}

// ItemFailed implements asset.Reporter. Stale reports from items
// already removed from the active set are dropped, like in ItemSucceeded.
func (l *Loader) ItemFailed(it *asset.Item) {
	ctx := l.emitCtx()

	l.mu.Lock()
	if !l.removeActive(it) {
		l.mu.Unlock()
		return
	}
	l.dirty = true
	l.mu.Unlock()

	log.Printf("Loader: %s failed permanently: %v", it.PrimaryAddress(), it.Err())
	it.NotifyDone(it.Err())
	l.bus.Emit(ctx, events.Event{Name: events.FileError, Payload: it})
	l.kick()
}

// ItemAwaitingInteraction implements asset.Reporter
func (l *Loader) ItemAwaitingInteraction(it *asset.Item, waiting bool) {
	ctx := l.emitCtx()

	l.mu.Lock()
	if waiting {
		l.waiting++
	} else if l.waiting > 0 {
		l.waiting--
	}
	count := l.waiting
	l.dirty = true
	l.mu.Unlock()

	metrics.SetInteractionWaiters(count)
	if waiting && count == 1 {
		l.bus.Emit(ctx, events.Event{Name: events.InteractionRequired, Payload: count})
	}
}

func (l *Loader) newItemLocked(group, key string, resolved asset.Resolved, onDone func(*asset.Item, error)) *asset.Item {
	kind := asset.KindForExtension(resolved.Extension)
	return asset.New(asset.Options{
		Group:     group,
		Key:       key,
		Addresses: resolved.Addresses,
		Extension: resolved.Extension,
		Fetcher:   l.fetcher,
		Runtime:   asset.RuntimeFor(kind, l.caps),
		Backoff:   l.cfg.Retry,
		Reporter:  l,
		Gate:      l.caps.Gate,
		OnDone:    onDone,
		Auth:      l.auth,
	})
}

func (l *Loader) statusLocked() Status {
	return Status{
		Counters:           l.counters,
		Active:             len(l.active),
		Queued:             l.queue.len(),
		Cached:             l.store.Count(),
		WaitingInteraction: l.waiting,
	}
}

// removeActive removes the item from the active set and reports whether
// it was still a member
func (l *Loader) removeActive(it *asset.Item) bool {
	for i, a := range l.active {
		if a == it {
			l.active = append(l.active[:i], l.active[i+1:]...)
			return true
		}
	}
	return false
}

// takeActive removes and returns the active item for (group, key)
func (l *Loader) takeActive(group, key string) *asset.Item {
	for i, a := range l.active {
		if a.Group() == group && a.Key() == key {
			l.active = append(l.active[:i], l.active[i+1:]...)
			return a
		}
	}
	return nil
}

func (l *Loader) kick() {
	l.mu.Lock()
	ctx := l.runCtx
	hasWork := l.queue.len() > 0 || len(l.active) > 0
	l.mu.Unlock()

	if ctx == nil || !hasWork {
		return
	}
	l.sched.Kick(ctx)
}

func (l *Loader) emitCtx() context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.runCtx != nil {
		return l.runCtx
	}
	return context.Background()
}
