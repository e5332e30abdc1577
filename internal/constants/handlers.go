// Package constants provides shared constants used across the codebase.
package constants

// AI provider names
const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderLlamaCpp = "llamacpp"
)

// Loader constants
const (
	// DefaultConcurrency is the default number of parallel decode workers
	DefaultConcurrency = 5
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100
)

// File upload constants
const (
	// MaxUploadSize is the maximum file upload size in bytes (100MB)
	MaxUploadSize = 100 << 20
)
