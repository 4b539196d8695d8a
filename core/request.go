package core

// Request represents a single generation request handed to a model provider.
type Request struct {
	Model string `json:"model,omitempty"`

	Messages []Message `json:"messages"`

	Temperature float32  `json:"temperature,omitempty"`
	TopP        float32  `json:"top_p,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Stop        []string `json:"stop,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// Clone returns a shallow copy of the request with safe slice and map
// duplication where mutation would otherwise leak between providers.
func (r Request) Clone() Request {
	clone := r
	if len(r.Messages) > 0 {
		clone.Messages = append([]Message(nil), r.Messages...)
	}
	if len(r.Stop) > 0 {
		clone.Stop = append([]string(nil), r.Stop...)
	}
	if r.Metadata != nil {
		clone.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}
