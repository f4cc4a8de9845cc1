// File path: internal/llm/providers/provider.go
package providers

import "context"

// Message is a single turn sent to a chat provider.
type Message struct {
	Role    string
	Content string
}

// Provider abstracts the external text generation and embedding services.
// Implementations must be safe for concurrent use; generation output is
// non-deterministic and callers must not depend on exact wording.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Embed(ctx context.Context, input []string) ([][]float32, error)
	Name() string
}
