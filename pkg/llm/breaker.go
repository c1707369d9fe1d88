package llm

import (
	"context"
	"encoding/json"

	"github.com/sony/gobreaker"
)

// BreakerClient wraps a Client with a circuit breaker so a failing model
// provider sheds load quickly instead of stalling every Turn.
type BreakerClient struct {
	inner   Client
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps the given client. The breaker opens after five
// consecutive failures and probes again after the default timeout.
func NewBreakerClient(inner Client) *BreakerClient {
	return &BreakerClient{
		inner: inner,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "llm",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Chat implements Client.
func (c *BreakerClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.inner.Chat(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Response), nil
}

// ChatWithStructuredOutput implements Client.
func (c *BreakerClient) ChatWithStructuredOutput(ctx context.Context, messages []Message, schema any) (json.RawMessage, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.inner.ChatWithStructuredOutput(ctx, messages, schema)
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

// Close implements Client.
func (c *BreakerClient) Close() error {
	return c.inner.Close()
}
