package ports

import "context"

// CompletionRequest is a single call to the text-to-structured-data
// capability. Instruction carries the fixed contract (schema, enum maps,
// examples); Input carries the variable text.
type CompletionRequest struct {
	Instruction string
	Input       string
	// Temperature near zero makes the reply effectively deterministic.
	Temperature float64
	// MaxTokens caps the reply length; 0 means provider default.
	MaxTokens int
	// JSON asks the provider for a structured JSON reply where supported.
	JSON bool
}

// Completer is the narrow seam around the language-model capability. The
// core only ever sends text and demands text back; everything else (repair,
// parsing, rejection) happens on this side of the boundary.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
