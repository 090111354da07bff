package finagent

import "context"

// Generator is the whole contract the core requires from a language
// model: prompt in, text out. The gemini package provides the real
// implementation; tests use stubs.
//
// A failed or timed-out call is recoverable everywhere: categorization
// degrades to Other, advisory functions return an unavailability
// notice, analysis returns a typed failure.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// JSONGenerator is optionally implemented by generators that can
// constrain a response to JSON. Plan requests prefer it; plain
// Generate remains the fallback.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
