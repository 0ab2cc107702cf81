package models

// EmbedKind tells the player how to render a resolved source.
type EmbedKind string

const (
	EmbedKindIframe     EmbedKind = "iframe"
	EmbedKindVideo      EmbedKind = "video"
	EmbedKindUnresolved EmbedKind = "unresolved"
)

// VideoSource is one <source> fallback for native playback.
type VideoSource struct {
	Src  string `json:"src"`
	Type string `json:"type"`
}

// EmbedResult is the normalized form of a stored embed code or URL.
type EmbedResult struct {
	EmbedURL    string        `json:"embedUrl"`
	IsEmbedCode bool          `json:"isEmbedCode"`
	Kind        EmbedKind     `json:"kind"`
	Sources     []VideoSource `json:"sources,omitempty"`
}
