package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/status-im/asset-loader/backoff"
	"github.com/status-im/asset-loader/fetch"
	"github.com/status-im/asset-loader/interfaces"
	mock_interfaces "github.com/status-im/asset-loader/interfaces/mocks"
)

// fetcherFunc adapts a function to interfaces.Fetcher
type fetcherFunc func(ctx context.Context, req fetch.Request) (fetch.Outcome, error)

func (f fetcherFunc) Fetch(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
	return f(ctx, req)
}

// testReporter forwards item reports onto channels so tests can wait
// for pipeline progress
type testReporter struct {
	succeeded chan int
	transient chan struct{}
	failed    chan error
	waiting   chan bool
}

func newTestReporter() *testReporter {
	return &testReporter{
		succeeded: make(chan int, 16),
		transient: make(chan struct{}, 16),
		failed:    make(chan error, 16),
		waiting:   make(chan bool, 16),
	}
}

func (r *testReporter) ItemSucceeded(it *Item, retries int) { r.succeeded <- retries }
func (r *testReporter) ItemFailedTransiently(it *Item)      { r.transient <- struct{}{} }
func (r *testReporter) ItemFailed(it *Item)                 { r.failed <- it.Err() }
func (r *testReporter) ItemAwaitingInteraction(it *Item, waiting bool) { r.waiting <- waiting }

func fastPolicy() backoff.Policy {
	return backoff.Policy{
		MinDelay: time.Millisecond,
		MaxDelay: 2 * time.Millisecond,
		Cap:      10 * time.Millisecond,
	}
}

func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestItem_FailoverOnClientError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock_interfaces.NewMockFetcher(ctrl)
	reporter := newTestReporter()

	primary := "https://cdn.example.com/hero.dat"
	fallback := "https://mirror.example.com/hero.dat"

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
			switch req.Address {
			case primary:
				return fetch.Outcome{Status: http.StatusNotFound}, nil
			case fallback:
				return fetch.Outcome{Status: http.StatusOK, Payload: []byte{1, 2, 3}}, nil
			default:
				return fetch.Outcome{}, fmt.Errorf("unexpected address %s", req.Address)
			}
		}).Times(2)

	it := New(Options{
		Group:     "g",
		Key:       "hero.dat",
		Addresses: []string{primary, fallback},
		Extension: "dat",
		Fetcher:   fetcher,
		Runtime:   dataRuntime{},
		Backoff:   fastPolicy(),
		Reporter:  reporter,
	})
	it.Start(context.Background())

	retries := waitFor(t, reporter.succeeded, "success")
	assert.Equal(t, 0, retries)
	assert.Equal(t, fallback, it.ServedAddress())
	assert.True(t, it.Ready())
	assert.Equal(t, 0, it.FailureCount())
	assert.Empty(t, reporter.transient)
}

func TestItem_SourceExhaustedFailsPermanently(t *testing.T) {
	reporter := newTestReporter()

	var calls int
	var mu sync.Mutex
	fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return fetch.Outcome{Status: http.StatusForbidden}, nil
	})

	it := New(Options{
		Addresses: []string{"https://a.example.com/x.bin", "https://b.example.com/x.bin"},
		Extension: "bin",
		Fetcher:   fetcher,
		Runtime:   dataRuntime{},
		Backoff:   fastPolicy(),
		Reporter:  reporter,
	})
	it.Start(context.Background())

	err := waitFor(t, reporter.failed, "permanent failure")
	assert.Error(t, err)
	assert.Equal(t, StateFailed, it.State())
	assert.False(t, it.Ready())

	// Client failures never consult the retry policy
	assert.Empty(t, reporter.transient)
	assert.Equal(t, 0, it.FailureCount())

	// The candidate index rewound to the first address
	assert.Equal(t, "https://a.example.com/x.bin", it.CurrentAddress())

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
}

func TestItem_TransientRetryThenSuccess(t *testing.T) {
	reporter := newTestReporter()

	var calls int
	var mu sync.Mutex
	fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n <= 3 {
			return fetch.Outcome{Status: http.StatusInternalServerError}, nil
		}
		return fetch.Outcome{Status: http.StatusOK, Payload: []byte(`"done"`)}, nil
	})

	it := New(Options{
		Addresses: []string{"https://cdn.example.com/state.json"},
		Extension: "json",
		Fetcher:   fetcher,
		Runtime:   dataRuntime{},
		Backoff:   fastPolicy(),
		Reporter:  reporter,
	})
	it.Start(context.Background())

	retries := waitFor(t, reporter.succeeded, "success after retries")
	assert.Equal(t, 3, retries)
	assert.Equal(t, 3, len(reporter.transient))
	assert.Equal(t, "done", it.Payload())
	assert.Equal(t, 3, it.FailureCount())
}

func TestItem_RetryLimit(t *testing.T) {
	reporter := newTestReporter()

	fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
		return fetch.Outcome{}, fmt.Errorf("connection refused")
	})

	policy := fastPolicy()
	policy.MaxRetries = 2

	it := New(Options{
		Addresses: []string{"https://cdn.example.com/x.bin"},
		Extension: "bin",
		Fetcher:   fetcher,
		Runtime:   dataRuntime{},
		Backoff:   policy,
		Reporter:  reporter,
	})
	it.Start(context.Background())

	err := waitFor(t, reporter.failed, "retry limit failure")
	assert.ErrorContains(t, err, "retry limit reached")
	// Two permitted retries plus the final rejected failure
	assert.Equal(t, 3, len(reporter.transient))
	assert.Equal(t, StateFailed, it.State())
}

func TestItem_JSONDecoding(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		reporter := newTestReporter()
		fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
			return fetch.Outcome{Status: 200, Payload: []byte(`{"lives": 3}`)}, nil
		})

		it := New(Options{
			Addresses: []string{"https://cdn.example.com/save.json"},
			Extension: "json",
			Fetcher:   fetcher,
			Runtime:   dataRuntime{},
			Backoff:   fastPolicy(),
			Reporter:  reporter,
		})
		it.Start(context.Background())

		waitFor(t, reporter.succeeded, "success")
		payload, ok := it.Payload().(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(3), payload["lives"])
	})

	t.Run("malformed json yields nil payload", func(t *testing.T) {
		reporter := newTestReporter()
		fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
			return fetch.Outcome{Status: 200, Payload: []byte(`{broken`)}, nil
		})

		it := New(Options{
			Addresses: []string{"https://cdn.example.com/save.json"},
			Extension: "json",
			Fetcher:   fetcher,
			Runtime:   dataRuntime{},
			Backoff:   fastPolicy(),
			Reporter:  reporter,
		})
		it.Start(context.Background())

		// Decode failure does not abort the pipeline
		waitFor(t, reporter.succeeded, "success")
		assert.True(t, it.Ready())
		assert.Nil(t, it.Payload())
	})
}

func TestItem_DataBatchPost(t *testing.T) {
	reporter := newTestReporter()

	requests := make(chan fetch.Request, 1)
	fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
		requests <- req
		return fetch.Outcome{Status: 200, Payload: []byte(`{}`)}, nil
	})

	it := New(Options{
		Addresses: []string{"https://api.example.com/sync"},
		Fetcher:   fetcher,
		Runtime:   dataRuntime{},
		Backoff:   fastPolicy(),
		Reporter:  reporter,
		Auth:      AuthContext{Token: "tok-1", Session: "sess-9"},
	})
	it.AttachMessage(json.RawMessage(`{"n":1}`))
	it.AttachMessage(json.RawMessage(`{"n":2}`))
	it.Start(context.Background())

	waitFor(t, reporter.succeeded, "success")
	req := <-requests

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "Bearer tok-1", req.Headers["Authorization"])

	var envelope struct {
		Messages []json.RawMessage `json:"messages"`
		Session  string            `json:"session"`
	}
	require.NoError(t, json.Unmarshal(req.Body, &envelope))
	require.Len(t, envelope.Messages, 2)
	assert.JSONEq(t, `{"n":1}`, string(envelope.Messages[0]))
	assert.JSONEq(t, `{"n":2}`, string(envelope.Messages[1]))
	assert.Equal(t, "sess-9", envelope.Session)

	assert.Equal(t, 0, it.PendingMessages())
}

func TestItem_MessagesRequeuedOnTransientFailure(t *testing.T) {
	reporter := newTestReporter()

	var mu sync.Mutex
	var bodies [][]byte
	fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
		mu.Lock()
		bodies = append(bodies, req.Body)
		n := len(bodies)
		mu.Unlock()
		if n == 1 {
			return fetch.Outcome{}, fmt.Errorf("network down")
		}
		return fetch.Outcome{Status: 200, Payload: []byte(`{}`)}, nil
	})

	it := New(Options{
		Addresses: []string{"https://api.example.com/sync"},
		Fetcher:   fetcher,
		Runtime:   dataRuntime{},
		Backoff:   fastPolicy(),
		Reporter:  reporter,
	})
	it.AttachMessage(json.RawMessage(`{"n":1}`))
	it.Start(context.Background())

	waitFor(t, reporter.succeeded, "success")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	// The failed attempt's messages rode along on the retry
	assert.JSONEq(t, string(bodies[0]), string(bodies[1]))
}

// gatedAudioDecoder refuses the first activation like a browser that
// has not yet seen a user gesture
type gatedAudioDecoder struct {
	mu    sync.Mutex
	calls int
}

func (d *gatedAudioDecoder) DecodeAudio(ctx context.Context, data []byte) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.calls == 1 {
		return nil, interfaces.ErrInteractionRequired
	}
	return &AudioHandle{Data: data, Length: len(data)}, nil
}

func TestItem_SoundWaitsForInteraction(t *testing.T) {
	reporter := newTestReporter()
	gate := NewInteractionGate()

	fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
		return fetch.Outcome{Status: 200, Payload: []byte("riff-data")}, nil
	})

	it := New(Options{
		Group:     "audio",
		Key:       "theme.mp3",
		Addresses: []string{"https://cdn.example.com/theme.mp3"},
		Extension: "mp3",
		Fetcher:   fetcher,
		Runtime:   &soundRuntime{decoder: &gatedAudioDecoder{}},
		Backoff:   fastPolicy(),
		Reporter:  reporter,
		Gate:      gate,
	})
	it.Start(context.Background())

	// The item parks on the gate instead of failing
	assert.True(t, waitFor(t, reporter.waiting, "waiting report"))
	assert.Eventually(t, func() bool { return gate.Waiting() == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, reporter.transient)
	assert.Empty(t, reporter.failed)

	gate.Fire()

	assert.False(t, waitFor(t, reporter.waiting, "waiting cleared"))
	retries := waitFor(t, reporter.succeeded, "success after gesture")
	assert.Equal(t, 0, retries)

	handle, ok := it.Payload().(*AudioHandle)
	require.True(t, ok)
	assert.Equal(t, []byte("riff-data"), handle.Data)
}

func TestItem_CancelDuringRetryWait(t *testing.T) {
	reporter := newTestReporter()

	fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
		return fetch.Outcome{Status: http.StatusBadGateway}, nil
	})

	policy := backoff.Policy{MinDelay: time.Hour, MaxDelay: 2 * time.Hour, Cap: 3 * time.Hour}

	it := New(Options{
		Addresses: []string{"https://cdn.example.com/x.bin"},
		Extension: "bin",
		Fetcher:   fetcher,
		Runtime:   dataRuntime{},
		Backoff:   policy,
		Reporter:  reporter,
	})
	it.Start(context.Background())

	waitFor(t, reporter.transient, "transient failure")
	it.Cancel()

	assert.Equal(t, StateCancelled, it.State())
	select {
	case <-reporter.succeeded:
		t.Fatal("cancelled item must not complete")
	case <-reporter.failed:
		t.Fatal("cancelled item must not report terminal failure")
	case <-time.After(50 * time.Millisecond):
	}

	// Release semantics: the orchestrator rolls back by this amount
	assert.Equal(t, 1, it.ResetFailures())
	assert.Equal(t, 0, it.FailureCount())
}

func TestItem_ImagePipelineRegistersDisplayResource(t *testing.T) {
	ctrl := gomock.NewController(t)
	display := mock_interfaces.NewMockDisplayResourceRegistry(ctrl)
	reporter := newTestReporter()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	fetcher := fetcherFunc(func(ctx context.Context, req fetch.Request) (fetch.Outcome, error) {
		return fetch.Outcome{Status: 200, Payload: buf.Bytes()}, nil
	})

	display.EXPECT().RegisterDisplayResource("ui:logo.png", gomock.Any())
	display.EXPECT().UnregisterDisplayResource("ui:logo.png")

	it := New(Options{
		Group:     "ui",
		Key:       "logo.png",
		Addresses: []string{"https://cdn.example.com/logo.png"},
		Extension: "png",
		Fetcher:   fetcher,
		Runtime:   &imageRuntime{decoder: StdImageDecoder{}, display: display},
		Backoff:   fastPolicy(),
		Reporter:  reporter,
	})
	it.Start(context.Background())

	waitFor(t, reporter.succeeded, "success")

	handle, ok := it.Payload().(*ImageHandle)
	require.True(t, ok)
	assert.Equal(t, "png", handle.Format)
	assert.Equal(t, 2, handle.Width)
	assert.Equal(t, 2, handle.Height)

	// Cancelling a ready item demotes it and releases its resources
	it.Cancel()
	assert.False(t, it.Ready())
}
