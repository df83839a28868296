// Package chaos simulates an unreliable network in front of the API handlers:
// every request is delayed by a randomized latency, and a fraction of mutating
// requests fails outright with a 500 before any handler logic runs.
//
// The injected failures are deliberate. They exist to exercise the optimistic
// boards' rollback path, and callers must treat them like any real transient
// fault.
package chaos

import (
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Defaults for the injector, matching the latency and failure profile the
// boards are designed against.
const (
	DefaultFailureRate = 0.10
	DefaultMinLatency  = 200 * time.Millisecond
	DefaultMaxLatency  = 1200 * time.Millisecond
)

// Injector adds latency to every request and fails a random fraction of
// mutating requests. Safe for concurrent use.
type Injector struct {
	mu          sync.Mutex
	rng         *rand.Rand
	failureRate float64
	minLatency  time.Duration
	maxLatency  time.Duration
	enabled     bool
	logger      *slog.Logger
	onFault     func() // optional hook, e.g. a metrics counter
	sleep       func(time.Duration)
}

// Option configures an Injector.
type Option func(*Injector)

// WithFailureRate overrides the fraction of mutating requests that fail.
func WithFailureRate(rate float64) Option {
	return func(in *Injector) { in.failureRate = rate }
}

// WithLatency overrides the latency window.
func WithLatency(min, max time.Duration) Option {
	return func(in *Injector) {
		in.minLatency = min
		in.maxLatency = max
	}
}

// WithRand supplies a deterministic random source for tests.
func WithRand(rng *rand.Rand) Option {
	return func(in *Injector) { in.rng = rng }
}

// WithFaultHook registers a callback invoked for every injected failure.
func WithFaultHook(hook func()) Option {
	return func(in *Injector) { in.onFault = hook }
}

// withSleep replaces the latency sleep, so tests don't wait.
func withSleep(sleep func(time.Duration)) Option {
	return func(in *Injector) { in.sleep = sleep }
}

// New creates an enabled Injector with the default chaos profile.
func New(logger *slog.Logger, opts ...Option) *Injector {
	in := &Injector{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		failureRate: DefaultFailureRate,
		minLatency:  DefaultMinLatency,
		maxLatency:  DefaultMaxLatency,
		enabled:     true,
		logger:      logger,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// SetEnabled toggles the injector at runtime. Disabled, it neither delays
// nor fails anything (used for seeding and tests).
func (in *Injector) SetEnabled(enabled bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.enabled = enabled
}

// SetFaultHook registers a callback invoked for every injected failure. The
// server uses it to count chaos faults.
func (in *Injector) SetFaultHook(hook func()) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.onFault = hook
}

// Latency draws a randomized delay from the configured window.
func (in *Injector) Latency() time.Duration {
	in.mu.Lock()
	defer in.mu.Unlock()
	window := in.maxLatency - in.minLatency
	if window <= 0 {
		return in.minLatency
	}
	return in.minLatency + time.Duration(in.rng.Int63n(int64(window)))
}

// ShouldFail rolls the dice for one mutating request.
func (in *Injector) ShouldFail() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.rng.Float64() < in.failureRate
}

// mutating reports whether the request can change server state.
func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Middleware returns the gin middleware implementing the chaos contract:
// latency on everything, injected 500s on ~failureRate of writes. Reads are
// slow but never fail here.
func (in *Injector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		in.mu.Lock()
		enabled := in.enabled
		onFault := in.onFault
		in.mu.Unlock()
		if !enabled {
			c.Next()
			return
		}

		in.sleep(in.Latency())

		if mutating(c.Request.Method) && in.ShouldFail() {
			if onFault != nil {
				onFault()
			}
			in.logger.Warn("injecting simulated failure",
				"method", c.Request.Method, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "Simulated Network Error: request failed.",
			})
			return
		}

		c.Next()
	}
}
