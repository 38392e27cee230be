package asset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/status-im/asset-loader/backoff"
	"github.com/status-im/asset-loader/fetch"
	"github.com/status-im/asset-loader/interfaces"
	"github.com/status-im/asset-loader/metrics"
)

// State is the position of an item inside its load pipeline
type State int

const (
	StateIdle State = iota
	StateFetching
	StateWaitingRetry
	StateDecoding
	StateReady
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateWaitingRetry:
		return "waiting-retry"
	case StateDecoding:
		return "decoding"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Reporter is the orchestrator-side sink for item lifecycle reports.
// Counter ownership stays with the orchestrator; items only report
// what happened to them.
type Reporter interface {
	// ItemSucceeded: the item is ready; retries is the number of
	// transient failures it consumed on the way
	ItemSucceeded(it *Item, retries int)
	// ItemFailedTransiently: one more transient failure was recorded
	// and the item is about to consult the retry policy
	ItemFailedTransiently(it *Item)
	// ItemFailed: terminal failure, the item will not recover
	ItemFailed(it *Item)
	// ItemAwaitingInteraction reports enter/leave of the gesture-wait set
	ItemAwaitingInteraction(it *Item, waiting bool)
}

// AuthContext is the caller-supplied auth attached to outgoing data requests
type AuthContext struct {
	Token   string
	Session string
}

// Options configures a new item
type Options struct {
	Group     string
	Key       string
	Addresses []string
	Extension string
	Fetcher   interfaces.Fetcher
	Runtime   Runtime
	Backoff   backoff.Policy
	Reporter  Reporter
	Gate      *InteractionGate
	OnDone    func(*Item, error)
	Auth      AuthContext
}

// Item is one retrieval unit: it owns the candidate-address failover,
// the retry/backoff bookkeeping, and the decode step for a single
// logical resource.
type Item struct {
	group     string
	key       string
	addresses []string
	kind      Kind
	extension string

	fetcher  interfaces.Fetcher
	runtime  Runtime
	policy   backoff.Policy
	reporter Reporter
	gate     *InteractionGate
	onDone   func(*Item, error)

	mu           sync.Mutex
	state        State
	index        int
	ready        bool
	failureCount int
	accumDelay   time.Duration
	payload      interface{}
	served       string
	lastErr      error
	cancel       context.CancelFunc

	// generic-data request state
	pending  []json.RawMessage
	inflight []json.RawMessage
	auth     AuthContext
}

// New creates an item in the Idle state
func New(opts Options) *Item {
	return &Item{
		group:     opts.Group,
		key:       opts.Key,
		addresses: opts.Addresses,
		kind:      KindForExtension(opts.Extension),
		extension: opts.Extension,
		fetcher:   opts.Fetcher,
		runtime:   opts.Runtime,
		policy:    opts.Backoff,
		reporter:  opts.Reporter,
		gate:      opts.Gate,
		onDone:    opts.OnDone,
		auth:      opts.Auth,
		state:     StateIdle,
	}
}

// Group returns the item's group; empty for anonymous items
func (it *Item) Group() string { return it.group }

// Key returns the item's key; empty for anonymous items
func (it *Item) Key() string { return it.key }

// Kind returns the asset kind derived from the file extension
func (it *Item) Kind() Kind { return it.kind }

// Addressable reports whether the item can live in the cache store
func (it *Item) Addressable() bool { return it.group != "" && it.key != "" }

// Identity is the queue identity triple group:key:address
func (it *Item) Identity() string {
	return it.group + ":" + it.key + ":" + it.PrimaryAddress()
}

// PrimaryAddress returns the first candidate address
func (it *Item) PrimaryAddress() string {
	if len(it.addresses) == 0 {
		return ""
	}
	return it.addresses[0]
}

// CurrentAddress returns the candidate address of the current attempt
func (it *Item) CurrentAddress() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.addresses[it.index]
}

// ServedAddress returns the address that produced the payload, once ready
func (it *Item) ServedAddress() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.served
}

// State returns the current pipeline state
func (it *Item) State() State {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.state
}

// Ready reports whether the full fetch+decode pipeline has succeeded
func (it *Item) Ready() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.ready
}

// FailureCount returns the transient failures consumed since the last reset
func (it *Item) FailureCount() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.failureCount
}

// Payload returns the decoded result once the item is ready
func (it *Item) Payload() interface{} {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.payload
}

// Err returns the terminal error of a failed item
func (it *Item) Err() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.lastErr
}

// AttachMessage appends an outgoing message to the pending batch of a
// generic-data item. Messages attached before dispatch ride along in
// one batched write.
func (it *Item) AttachMessage(msg json.RawMessage) {
	it.mu.Lock()
	it.pending = append(it.pending, msg)
	it.mu.Unlock()
}

// PendingMessages returns the number of not-yet-delivered messages
func (it *Item) PendingMessages() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return len(it.pending) + len(it.inflight)
}

// SetAuth updates the auth context attached to outgoing data requests
func (it *Item) SetAuth(auth AuthContext) {
	it.mu.Lock()
	it.auth = auth
	it.mu.Unlock()
}

// Start launches the item's pipeline. All further progress happens on
// the item's own goroutine and is reported through the Reporter.
func (it *Item) Start(ctx context.Context) {
	it.mu.Lock()
	ctx, it.cancel = context.WithCancel(ctx)
	it.state = StateFetching
	it.mu.Unlock()

	go it.run(ctx)
}

// Cancel stops any pending retry timer and the in-flight attempt, and
// demotes a ready item. Evicting the item from the cache store is the
// orchestrator's job.
func (it *Item) Cancel() {
	it.mu.Lock()
	cancel := it.cancel
	it.cancel = nil
	wasReady := it.ready
	it.ready = false
	it.state = StateCancelled
	it.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	// Messages caught inside the aborted attempt go back to the batch
	it.requeueInflight()
	if wasReady && it.runtime != nil {
		it.runtime.OnRelease(it)
	}
}

// ResetFailures zeroes the retry bookkeeping and returns the failure
// count that was outstanding, so the orchestrator can roll its error
// counter back by exactly that amount.
func (it *Item) ResetFailures() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	n := it.failureCount
	it.failureCount = 0
	it.accumDelay = 0
	return n
}

// NotifyDone invokes the caller's completion callback, if any
func (it *Item) NotifyDone(err error) {
	if it.onDone != nil {
		it.onDone(it, err)
	}
}

func (it *Item) run(ctx context.Context) {
	for {
		req := it.buildRequest()
		out, err := it.fetcher.Fetch(ctx, req)
		if ctx.Err() != nil {
			return
		}

		switch {
		case err == nil && fetch.IsSuccess(out.Status):
			it.mu.Lock()
			it.served = it.addresses[it.index]
			it.inflight = nil // batched messages delivered
			it.mu.Unlock()
			it.finish(ctx, out.Payload)
			return

		case err == nil && fetch.IsClientError(out.Status):
			// Client failures burn the candidate, not a retry
			if it.advance() {
				log.Printf("Loader: %s: status %d, failing over to %s",
					it.PrimaryAddress(), out.Status, it.CurrentAddress())
				continue
			}
			it.fail(fmt.Errorf("all %d candidate addresses exhausted for %s (last status %d)",
				len(it.addresses), it.PrimaryAddress(), out.Status))
			return

		default:
			if err == nil {
				err = fmt.Errorf("fetch %s: server status %d", it.CurrentAddress(), out.Status)
			}
			if !it.retryAfter(ctx, err) {
				return
			}
		}
	}
}

// retryAfter records a transient failure and waits out the backoff
// delay. It returns false when the pipeline must stop (retry limit hit
// or cancellation).
func (it *Item) retryAfter(ctx context.Context, cause error) bool {
	it.mu.Lock()
	it.failureCount++
	failures := it.failureCount
	it.accumDelay = it.policy.Next(it.accumDelay)
	delay := it.accumDelay
	it.lastErr = cause
	it.mu.Unlock()

	if it.runtime != nil {
		it.runtime.OnFailure(it)
	}
	it.reporter.ItemFailedTransiently(it)

	if !it.policy.Allows(failures) {
		it.fail(fmt.Errorf("retry limit reached after %d failures: %w", failures, cause))
		return false
	}

	metrics.RecordHTTPRetry(it.kind.String())
	log.Printf("Loader: %s failed (%v), retry %d in %.1fs",
		it.CurrentAddress(), cause, failures, delay.Seconds())

	it.setState(StateWaitingRetry)
	timer := time.NewTimer(delay)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
		return false
	}
	it.setState(StateFetching)
	return true
}

// finish runs the decode step and reports completion. Decode failures
// do not abort the pipeline: the payload becomes nil and the item still
// completes (malformed data is the caller's problem, not the queue's).
func (it *Item) finish(ctx context.Context, raw []byte) {
	it.setState(StateDecoding)

	payload, err := it.runtime.Decode(ctx, it, raw)
	for errors.Is(err, interfaces.ErrInteractionRequired) && it.gate != nil {
		it.reporter.ItemAwaitingInteraction(it, true)
		released := it.gate.Wait()
		select {
		case <-released:
		case <-ctx.Done():
			it.reporter.ItemAwaitingInteraction(it, false)
			return
		}
		it.reporter.ItemAwaitingInteraction(it, false)
		payload, err = it.runtime.Decode(ctx, it, raw)
	}
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		log.Printf("Loader: decode failed for %s: %v", it.PrimaryAddress(), err)
		payload = nil
	}

	it.mu.Lock()
	it.payload = payload
	it.ready = true
	it.state = StateReady
	it.lastErr = nil
	retries := it.failureCount
	it.mu.Unlock()

	it.runtime.OnReady(it)
	it.reporter.ItemSucceeded(it, retries)
}

func (it *Item) fail(cause error) {
	it.mu.Lock()
	it.state = StateFailed
	it.lastErr = cause
	it.mu.Unlock()

	it.reporter.ItemFailed(it)
}

// advance moves to the next candidate address. When the list is
// exhausted it rewinds to the first candidate and reports false.
func (it *Item) advance() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.index+1 < len(it.addresses) {
		it.index++
		return true
	}
	it.index = 0
	return false
}

func (it *Item) setState(s State) {
	it.mu.Lock()
	it.state = s
	it.mu.Unlock()
}

// batchEnvelope is the wire shape of a batched data write
type batchEnvelope struct {
	Messages []json.RawMessage `json:"messages"`
	Session  string            `json:"session,omitempty"`
}

func (it *Item) buildRequest() fetch.Request {
	it.mu.Lock()
	defer it.mu.Unlock()

	req := fetch.Request{
		Address: it.addresses[it.index],
		Method:  http.MethodGet,
	}

	if it.kind.IsData() && (len(it.pending) > 0 || len(it.inflight) > 0) {
		// Move the pending batch into the attempt; a transient failure
		// hands it back through the OnFailure hook
		it.inflight = append(it.inflight, it.pending...)
		it.pending = nil

		body, err := json.Marshal(batchEnvelope{Messages: it.inflight, Session: it.auth.Session})
		if err == nil {
			req.Method = http.MethodPost
			req.Body = body
			req.Headers = map[string]string{"Content-Type": "application/json"}
			if it.auth.Token != "" {
				req.Headers["Authorization"] = "Bearer " + it.auth.Token
			}
		}
	}
	return req
}

// requeueInflight hands messages from a failed attempt back to the
// front of the pending batch, preserving their original order
func (it *Item) requeueInflight() {
	it.mu.Lock()
	if len(it.inflight) > 0 {
		it.pending = append(append([]json.RawMessage{}, it.inflight...), it.pending...)
		it.inflight = nil
	}
	it.mu.Unlock()
}

// Info is the item's externally visible description, used by the API
// surface and the event stream
type Info struct {
	Group        string `json:"group,omitempty"`
	Key          string `json:"key,omitempty"`
	Kind         string `json:"kind"`
	State        string `json:"state"`
	Ready        bool   `json:"ready"`
	FailureCount int    `json:"failure_count,omitempty"`
	Address      string `json:"address"`
}

// Describe snapshots the item for external consumers
func (it *Item) Describe() Info {
	it.mu.Lock()
	defer it.mu.Unlock()

	addr := it.served
	if addr == "" && len(it.addresses) > 0 {
		addr = it.addresses[it.index]
	}
	return Info{
		Group:        it.group,
		Key:          it.key,
		Kind:         it.kind.String(),
		State:        it.state.String(),
		Ready:        it.ready,
		FailureCount: it.failureCount,
		Address:      addr,
	}
}
