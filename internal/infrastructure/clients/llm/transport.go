package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/pkg/retry"
)

const retryDelay = 500 * time.Millisecond

// StatusError is returned when the provider answers with a non-2xx status
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
}

// isTransient reports whether a failed call is worth one more attempt
func isTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, providers.ErrSymptomAnalysisUnauthorized) || errors.Is(err, errEmptyOutput) {
		return false
	}
	// network errors and per-attempt timeouts
	return true
}

var errEmptyOutput = errors.New("response missing output text")

// Options bounds every call a client makes
type Options struct {
	Timeout        time.Duration
	MaxRetries     int
	RateLimitRPM   int
	RateLimitBurst int
}

// caller wraps a text-generation call with rate limiting, a circuit breaker,
// a per-attempt timeout and a bounded retry on transient failures.
type caller struct {
	provider   string
	model      string
	timeout    time.Duration
	maxRetries int
	limiter    *tokenBucket
	breaker    *gobreaker.CircuitBreaker
}

func newCaller(provider, model string, opts Options) *caller {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observability.GetLogger().Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("AI provider circuit breaker changed state")
		},
	})

	return &caller{
		provider:   provider,
		model:      model,
		timeout:    timeout,
		maxRetries: opts.MaxRetries,
		limiter:    newTokenBucket(opts.RateLimitRPM, opts.RateLimitBurst),
		breaker:    breaker,
	}
}

func (c *caller) call(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	cfg := retry.SingleRetry(retryDelay)
	cfg.MaxAttempts = c.maxRetries + 1
	cfg.ShouldRetry = isTransient

	logger := observability.LoggerFromContext(ctx)

	var text string
	err := retry.DoWithLog(ctx, cfg, c.provider, func() error {
		if c.limiter != nil {
			waitStart := time.Now()
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Permanent(err)
			}
			recordRateLimitWait(ctx, c.provider, c.model, time.Since(waitStart))
		}

		out, err := c.breaker.Execute(func() (interface{}, error) {
			attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return fn(attemptCtx)
		})
		if err != nil {
			return err
		}
		text = out.(string)
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().
			Err(err).
			Str("provider", c.provider).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Msg("AI request failed, retrying")
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", providers.ErrSymptomAnalysisUnavailable, err)
		}
		return "", err
	}
	return text, nil
}

type tokenBucket struct {
	tokens chan struct{}
	stop   chan struct{}
	once   sync.Once
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}

	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
		stop:   make(chan struct{}),
	}
	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-bucket.stop:
				return
			case <-ticker.C:
				select {
				case bucket.tokens <- struct{}{}:
				default:
				}
			}
		}
	}()

	return bucket
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

func (b *tokenBucket) Close() {
	if b == nil {
		return
	}
	b.once.Do(func() { close(b.stop) })
}
