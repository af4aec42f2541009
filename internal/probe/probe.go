// Package probe measures endpoint reachability for providers. A single
// worker goroutine serializes the actual network calls; callers enqueue
// targets without blocking and receive results through a delivery
// callback. Each target carries a monotonic sequence number so a slow
// older probe can never overwrite a newer result.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ccswitch/internal/apperr"
	"ccswitch/internal/logger"
)

// Timeout bounds one probe attempt end to end.
const Timeout = 5 * time.Second

const queueSize = 32

// Result is the outcome of one probe. Failures are results too; Err is
// set and Latency is meaningless when Err is non-nil.
type Result struct {
	Target  string
	URL     string
	Seq     uint64
	Latency time.Duration
	Status  int
	Err     error
}

// OK reports whether the endpoint answered.
func (r Result) OK() bool { return r.Err == nil }

type request struct {
	target string
	url    string
	seq    uint64
}

// Prober owns the worker goroutine. Construct with New, enqueue with
// Probe, and Close when done.
type Prober struct {
	deliver func(Result)
	client  *http.Client

	mu   sync.Mutex
	seqs map[string]uint64

	requests chan request
	done     chan struct{}
	closed   sync.Once
}

// New starts a prober delivering results through deliver. The callback
// runs on the worker goroutine; it must hand off quickly (a channel send
// or program.Send) rather than doing work inline.
func New(deliver func(Result)) *Prober {
	p := &Prober{
		deliver:  deliver,
		client:   &http.Client{Timeout: Timeout},
		seqs:     make(map[string]uint64),
		requests: make(chan request, queueSize),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Probe enqueues a latency check for target against url and returns the
// assigned sequence number. It never blocks: when the queue is full the
// request is dropped and reported as a failure result immediately.
func (p *Prober) Probe(target, url string) uint64 {
	p.mu.Lock()
	p.seqs[target]++
	seq := p.seqs[target]
	p.mu.Unlock()

	select {
	case p.requests <- request{target: target, url: url, seq: seq}:
	default:
		p.dispatch(Result{
			Target: target, URL: url, Seq: seq,
			Err: apperr.New(apperr.Probe, "probe queue full"),
		})
	}
	return seq
}

// Stale reports whether seq is no longer the latest probe issued for
// target. Consumers drop stale results instead of rendering them.
func (p *Prober) Stale(target string, seq uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return seq < p.seqs[target]
}

// Close stops the worker. Pending queue entries are abandoned.
func (p *Prober) Close() {
	p.closed.Do(func() { close(p.done) })
}

func (p *Prober) run() {
	for {
		select {
		case <-p.done:
			return
		case req := <-p.requests:
			if p.Stale(req.target, req.seq) {
				continue
			}
			p.dispatch(p.execute(req))
		}
	}
}

// dispatch hands a result to the delivery callback. A panicking callback
// must not kill the worker; the result is lost but the prober keeps
// serving.
func (p *Prober) dispatch(res Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(context.Background(), "Probe delivery recovered from panic", "target", res.Target, "panic", r)
		}
	}()
	p.deliver(res)
}

// execute performs one probe. A panic inside the HTTP stack must not
// kill the worker, so it is converted into a failure result.
func (p *Prober) execute(req request) (res Result) {
	res = Result{Target: req.target, URL: req.url, Seq: req.seq}
	defer func() {
		if r := recover(); r != nil {
			logger.Error(context.Background(), "Probe worker recovered from panic", "target", req.target, "panic", r)
			res.Err = apperr.New(apperr.Probe, "probe panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	start := time.Now()
	status, err := p.attempt(ctx, http.MethodHead, req.url)
	if errors.Is(err, errMethodRejected) {
		// Some gateways refuse HEAD; retry with GET inside the same budget.
		status, err = p.attempt(ctx, http.MethodGet, req.url)
	}
	res.Latency = time.Since(start)
	res.Status = status
	if err != nil {
		res.Err = apperr.Wrap(apperr.Probe, err, "probe %s", req.url)
	}
	return res
}

var errMethodRejected = errors.New("method rejected")

func (p *Prober) attempt(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case method == http.MethodHead && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented):
		return resp.StatusCode, errMethodRejected
	case resp.StatusCode >= 500:
		return resp.StatusCode, fmt.Errorf("endpoint returned %s", resp.Status)
	default:
		// Auth challenges (401/403) still prove the endpoint is up.
		return resp.StatusCode, nil
	}
}
