package core

// Usage captures token accounting reported by a provider.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// TextResult is the outcome of a successful generation call.
type TextResult struct {
	Text     string `json:"text"`
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"`
	Usage    Usage  `json:"usage"`
}

// Capabilities describes a provider adapter.
type Capabilities struct {
	Provider string   // Provider identifier (e.g. "groq")
	Models   []string // Models the adapter is known to serve
	Local    bool     // Runs against a local engine, no credential required
}
