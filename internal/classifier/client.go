package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sentimind/sentimind/internal/emotion"
	"github.com/sentimind/sentimind/pkg/config"
	"github.com/sentimind/sentimind/pkg/logging"
	"github.com/sentimind/sentimind/pkg/telemetry"
)

// ErrInferenceUnavailable is returned when no backend could be initialized
// or a scoring call failed. Callers should treat it as a degraded-mode
// trigger, not a fatal error.
var ErrInferenceUnavailable = errors.New("inference capability unavailable")

// Client is the gateway to the scoring capability. It holds an ordered chain
// of backends and binds to the first one that initializes successfully.
// Initialization runs at most once per process; concurrent first callers
// wait for the in-flight attempt instead of racing. After a successful init
// the active backend is read-only and Score is safe for concurrent use.
type Client struct {
	backends []Backend
	logger   *zap.Logger

	mu          sync.Mutex
	active      Backend
	initialized bool
}

// New creates a gateway client over the configured backend chain
func New(cfg *config.ClassifierConfig) *Client {
	backends := make([]Backend, 0, len(cfg.Backends))
	for _, b := range cfg.Backends {
		backends = append(backends, NewHTTPBackend(b, cfg.HypothesisTemplate))
	}
	return NewWithBackends(backends)
}

// NewWithBackends creates a gateway client over explicit backends
func NewWithBackends(backends []Backend) *Client {
	return &Client{
		backends: backends,
		logger:   logging.WithComponent("classifier"),
	}
}

// ensureInit binds the client to the first backend whose Init succeeds.
// Holding the mutex across the whole attempt makes concurrent first callers
// block until the attempt finishes. A failed attempt is not sticky: the next
// caller tries again.
func (c *Client) ensureInit(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return c.active, nil
	}

	var errs []error
	for _, backend := range c.backends {
		if err := backend.Init(ctx); err != nil {
			c.logger.Warn("Backend initialization failed",
				zap.String("backend", backend.Name()),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		c.active = backend
		c.initialized = true
		c.logger.Info("Classifier initialized", zap.String("backend", backend.Name()))
		return c.active, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrInferenceUnavailable, errors.Join(errs...))
}

// Score classifies the text against the labels and returns the full ranking
// sorted by descending score. Any failure surfaces as
// ErrInferenceUnavailable; a partial ranking is never returned.
func (c *Client) Score(ctx context.Context, text string, labels []string) ([]emotion.Score, error) {
	ctx, span := telemetry.StartSpan(ctx, "classifier.score")
	defer span.End()

	backend, err := c.ensureInit(ctx)
	if err != nil {
		return nil, err
	}

	ranked, err := backend.Score(ctx, text, labels)
	if err != nil {
		c.logger.Warn("Scoring failed",
			zap.String("backend", backend.Name()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrInferenceUnavailable, err)
	}

	return ranked, nil
}

// ActiveBackend returns the name of the bound backend, or "" before init
func (c *Client) ActiveBackend() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ""
	}
	return c.active.Name()
}
