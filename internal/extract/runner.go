package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultModelRetries is the attempt budget per model before the runner moves
// on to the next one in priority order.
const DefaultModelRetries = 2

// Runner fans a completion request over a priority-ordered list of models.
// Each model gets a fixed number of attempts with backoff; transient errors
// and malformed JSON are retried on the same model, anything else skips to
// the next model. The runner fails only once every model is exhausted.
type Runner struct {
	models  []Model
	retries int
	stats   *CallStats
	logger  *slog.Logger

	// backoff is swappable so tests do not sleep.
	backoff func(attempt int) time.Duration
}

func NewRunner(models []Model, retries int, stats *CallStats, logger *slog.Logger) *Runner {
	if retries <= 0 {
		retries = DefaultModelRetries
	}
	if logger == nil {
		logger = slog.Default()
	}
	if stats == nil {
		stats = NewCallStats(0)
	}
	return &Runner{
		models:  models,
		retries: retries,
		stats:   stats,
		logger:  logger,
		backoff: Backoff,
	}
}

// Stats exposes the per-model call statistics.
func (r *Runner) Stats() *CallStats { return r.stats }

// Complete returns the first successful raw completion.
func (r *Runner) Complete(ctx context.Context, system, user string, expectJSON bool) (string, error) {
	return r.run(ctx, system, user, expectJSON, func(string) error { return nil })
}

// CompleteJSON requests a JSON completion, parses it (code fences and
// wrapping prose tolerated), validates it against schema, and unmarshals into
// v. A completion that fails any of those steps burns an attempt exactly like
// a transport error.
func (r *Runner) CompleteJSON(ctx context.Context, system, user string, schema map[string]any, v any) error {
	_, err := r.run(ctx, system, user, true, func(text string) error {
		var raw json.RawMessage
		if err := DecodeObject(text, &raw); err != nil {
			return err
		}
		if err := validateSchema(schema, raw); err != nil {
			return err
		}
		return json.Unmarshal(raw, v)
	})
	return err
}

func (r *Runner) run(ctx context.Context, system, user string, expectJSON bool, accept func(string) error) (string, error) {
	if len(r.models) == 0 {
		return "", fmt.Errorf("no models configured")
	}

	var failures []string
	for _, m := range r.models {
		var lastErr error
		for attempt := 0; attempt < r.retries; attempt++ {
			if attempt > 0 {
				if err := r.wait(ctx, r.backoff(attempt-1)); err != nil {
					return "", err
				}
			}

			start := time.Now()
			text, err := m.Complete(ctx, system, user, expectJSON)
			elapsed := time.Since(start).Milliseconds()
			if err == nil {
				err = accept(text)
				if err == nil {
					r.stats.Record(m.Name(), elapsed, true)
					return text, nil
				}
				// Malformed payload: retry on the same model.
				err = &RetryableError{Message: err.Error()}
			}
			r.stats.Record(m.Name(), elapsed, false)
			lastErr = err

			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if !IsRetryable(err) {
				r.logger.Warn("model failed permanently, moving on",
					"model", m.Name(), "error", err)
				break
			}
			r.logger.Warn("model call failed",
				"model", m.Name(), "attempt", attempt+1, "error", err)
		}
		failures = append(failures, fmt.Sprintf("%s: %v", m.Name(), lastErr))
	}
	return "", fmt.Errorf("all models exhausted: %s", strings.Join(failures, "; "))
}

func (r *Runner) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
