package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"resume-analyzer/internal/shared/telemetry"
)

// BreakerSettings configures BreakerClient.
type BreakerSettings struct {
	Name             string
	FailureThreshold int
	Cooldown         time.Duration
}

// BreakerClient fails fast with ErrUnavailable after FailureThreshold
// consecutive backend failures, until Cooldown has elapsed. It never retries.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker[json.RawMessage]
}

// NewBreakerClient wraps next with a circuit breaker.
func NewBreakerClient(next Client, s BreakerSettings) *BreakerClient {
	threshold := s.FailureThreshold
	if threshold <= 0 {
		threshold = 5
	}
	cooldown := s.Cooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	name := s.Name
	if name == "" {
		name = "llm"
	}
	cb := gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.Warn("llm.breaker.state", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
	return &BreakerClient{next: next, cb: cb}
}

func (b *BreakerClient) AnalyzeResume(ctx context.Context, input AnalyzeInput) (json.RawMessage, error) {
	raw, err := b.cb.Execute(func() (json.RawMessage, error) {
		return b.next.AnalyzeResume(ctx, input)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return raw, err
}

// State reports the current breaker state.
func (b *BreakerClient) State() string {
	return b.cb.State().String()
}

var _ Client = (*BreakerClient)(nil)
