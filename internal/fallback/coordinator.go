package fallback

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/reelgrab/reel-downloader/internal/engine"
	"github.com/reelgrab/reel-downloader/internal/model"
)

// Coordinator tries the preferred engine first and falls back to the other
// one on total failure. Partial results are accepted as-is: fallback is
// triggered only by EngineUnavailable or FetchFailed, never by a partial
// success, so a valid partial output is never discarded for a potentially
// worse result from the other engine.
type Coordinator struct {
	engines []engine.Engine
}

// NewCoordinator creates a coordinator over the given engines. Exactly two
// engines are expected; the preferred one is chosen per call by name.
func NewCoordinator(engines ...engine.Engine) *Coordinator {
	return &Coordinator{engines: engines}
}

// Resolve fetches the requested assets for the URL and returns one audit
// trail entry per attempted engine, in attempt order. The coordinator never
// touches the queue's records; the caller appends the attempts under its own
// lock. Cancellation is honored between engine attempts, never inside one.
func (c *Coordinator) Resolve(ctx context.Context, preferred, sourceURL string, requested model.AssetSet, destDir string) (*engine.Result, []model.EngineAttempt, error) {
	if len(c.engines) == 0 {
		return nil, nil, errors.New("no engines configured")
	}

	ordered := c.attemptOrder(preferred)

	first := ordered[0]
	result, attempt, firstErr := c.attempt(ctx, first, sourceURL, requested, destDir)
	attempts := []model.EngineAttempt{attempt}
	if firstErr == nil {
		return result, attempts, nil
	}
	if !engine.IsRecoverable(firstErr) {
		return nil, attempts, firstErr
	}
	if len(ordered) == 1 {
		return nil, attempts, firstErr
	}

	if err := ctx.Err(); err != nil {
		return nil, attempts, err
	}

	second := ordered[1]
	log.Printf("Engine %s failed for %s, falling back to %s: %v",
		first.Name(), sourceURL, second.Name(), firstErr)

	result, attempt, secondErr := c.attempt(ctx, second, sourceURL, requested, destDir)
	attempts = append(attempts, attempt)
	if secondErr == nil {
		return result, attempts, nil
	}
	if !engine.IsRecoverable(secondErr) {
		return nil, attempts, secondErr
	}

	return nil, attempts, &engine.BothFailedError{
		PreferredName: first.Name(),
		PreferredErr:  firstErr,
		FallbackName:  second.Name(),
		FallbackErr:   secondErr,
	}
}

// attempt runs one engine and builds the audit trail entry for its outcome
func (c *Coordinator) attempt(ctx context.Context, eng engine.Engine, sourceURL string, requested model.AssetSet, destDir string) (*engine.Result, model.EngineAttempt, error) {
	result, err := eng.Fetch(ctx, sourceURL, requested, destDir)
	if err != nil {
		return nil, model.NewEngineAttempt(eng.Name(), outcomeForError(err), err.Error()), err
	}

	outcome := model.OutcomeSucceeded
	if !result.Covers(requested) {
		outcome = model.OutcomePartial
	}
	return result, model.NewEngineAttempt(eng.Name(), outcome, ""), nil
}

// attemptOrder puts the engine named preferred first. An unknown name keeps
// the configured order.
func (c *Coordinator) attemptOrder(preferred string) []engine.Engine {
	ordered := make([]engine.Engine, 0, len(c.engines))
	for _, e := range c.engines {
		if e.Name() == preferred {
			ordered = append(ordered, e)
		}
	}
	for _, e := range c.engines {
		if e.Name() != preferred {
			ordered = append(ordered, e)
		}
	}
	return ordered
}

func outcomeForError(err error) model.AttemptOutcome {
	if errors.Is(err, engine.ErrEngineUnavailable) {
		return model.OutcomeUnavailable
	}
	return model.OutcomeFetchFailed
}

// Summarize renders a resolve error as a short human-readable message for
// the UI; raw engine errors are never surfaced directly.
func Summarize(err error) string {
	var both *engine.BothFailedError
	if errors.As(err, &both) {
		return fmt.Sprintf("Both engines failed (%s, %s)", both.PreferredName, both.FallbackName)
	}
	if errors.Is(err, context.Canceled) {
		return "Cancelled"
	}
	if errors.Is(err, engine.ErrEngineUnavailable) {
		return "Engine could not be started"
	}
	if errors.Is(err, engine.ErrFetchFailed) {
		return "The video could not be retrieved"
	}
	return err.Error()
}
