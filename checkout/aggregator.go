// Package checkout holds the client side of the checkout flow: the cart,
// the shipping estimate aggregator and the session tying them to a display
// currency.
package checkout

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"checkout-service/models"

	"go.uber.org/zap"
)

const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second

	MessageEstimateFailed  = "We couldn't estimate shipping right now. Please try again."
	MessageEstimateTimeout = "Shipping estimate timed out. Please try again."
)

// State is the lifecycle of the current shipping estimate.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Quoter asks the rating backend for an estimate.
type Quoter interface {
	Estimate(ctx context.Context, req models.EstimateRequest) (*models.ShippingEstimate, error)
}

// UserMessager is implemented by errors carrying text fit for the customer.
type UserMessager interface {
	UserMessage() string
}

// Input is everything a shipping estimate depends on.
type Input struct {
	Items       []models.CartLineItem
	Destination models.Destination
	ServiceType models.ServiceType
}

// Quotable reports whether a request may be issued for in.
func (in Input) Quotable() bool {
	return len(in.Items) > 0 && in.Destination.Complete()
}

// Snapshot is a consistent view of the aggregator.
type Snapshot struct {
	State      State
	Estimate   *models.ShippingEstimate
	Error      string
	Generation uint64
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithDebounce sets the quiet period before a request is sent.
func WithDebounce(d time.Duration) Option {
	return func(a *Aggregator) { a.debounce = d }
}

// WithRequestTimeout bounds each estimate request.
func WithRequestTimeout(d time.Duration) Option {
	return func(a *Aggregator) { a.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// Aggregator turns a stream of input changes into at most one in-flight
// estimate that matters. Every Update bumps a generation counter; a result
// is committed only if it carries the current generation, so a slow answer
// for superseded input never overwrites a newer one.
type Aggregator struct {
	quoter   Quoter
	debounce time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	gen      uint64
	timer    *time.Timer
	pending  Input
	state    State
	estimate *models.ShippingEstimate
	errMsg   string
	closed   bool

	listenersMu sync.Mutex
	listeners   []func(Snapshot)
	wake        chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

// NewAggregator starts an aggregator in the Idle state.
func NewAggregator(q Quoter, opts ...Option) *Aggregator {
	a := &Aggregator{
		quoter:   q,
		debounce: DefaultDebounce,
		timeout:  DefaultRequestTimeout,
		logger:   zap.NewNop(),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	go a.dispatch()
	return a
}

// OnChange registers fn to receive snapshots after state changes. Calls are
// serialized on one goroutine and always carry the latest snapshot, so
// intermediate states may be coalesced.
func (a *Aggregator) OnChange(fn func(Snapshot)) {
	a.listenersMu.Lock()
	a.listeners = append(a.listeners, fn)
	a.listenersMu.Unlock()
}

// Snapshot returns the current state.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Update records new input. Incomplete input resets to Idle without any
// request; otherwise the aggregator enters Loading and (re)arms the
// debounce timer.
func (a *Aggregator) Update(in Input) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}

	a.gen++
	a.stopTimerLocked()
	a.estimate = nil
	a.errMsg = ""

	if !in.Quotable() {
		a.state = StateIdle
		a.pending = Input{}
		a.mu.Unlock()
		a.notify()
		return
	}

	a.state = StateLoading
	a.pending = Input{
		Items:       cloneItems(in.Items),
		Destination: in.Destination,
		ServiceType: in.ServiceType,
	}
	gen := a.gen
	a.timer = time.AfterFunc(a.debounce, func() { a.fire(gen) })
	a.mu.Unlock()
	a.notify()
}

// Close stops the pending timer and the listener goroutine. Results that
// arrive afterwards are dropped.
func (a *Aggregator) Close() {
	a.mu.Lock()
	a.closed = true
	a.gen++
	a.stopTimerLocked()
	a.mu.Unlock()
	a.closeOnce.Do(func() { close(a.done) })
}

func (a *Aggregator) fire(gen uint64) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	in := a.pending
	a.timer = nil
	a.mu.Unlock()

	req := models.EstimateRequest{
		Items:       in.Items,
		Destination: in.Destination,
		ServiceType: in.ServiceType,
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	est, err := a.quoter.Estimate(ctx, req)
	cancel()

	a.commit(gen, est, err)
}

func (a *Aggregator) commit(gen uint64, est *models.ShippingEstimate, err error) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		a.logger.Debug("Discarding stale shipping estimate",
			zap.Uint64("generation", gen),
		)
		return
	}

	if err == nil && est == nil {
		err = errors.New("empty estimate")
	}
	if err != nil {
		a.state = StateError
		a.estimate = nil
		a.errMsg = userMessage(err)
		a.mu.Unlock()
		a.logger.Warn("Shipping estimate failed",
			zap.Uint64("generation", gen),
			zap.Error(err),
		)
		a.notify()
		return
	}

	a.state = StateReady
	a.estimate = est
	a.errMsg = ""
	a.mu.Unlock()
	a.notify()
}

func (a *Aggregator) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Aggregator) snapshotLocked() Snapshot {
	return Snapshot{
		State:      a.state,
		Estimate:   a.estimate,
		Error:      a.errMsg,
		Generation: a.gen,
	}
}

func (a *Aggregator) notify() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

func (a *Aggregator) dispatch() {
	for {
		select {
		case <-a.done:
			return
		case <-a.wake:
		}

		snap := a.Snapshot()
		a.listenersMu.Lock()
		fns := slices.Clone(a.listeners)
		a.listenersMu.Unlock()

		for _, fn := range fns {
			fn(snap)
		}
	}
}

func userMessage(err error) string {
	var um UserMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MessageEstimateTimeout
	}
	return MessageEstimateFailed
}
