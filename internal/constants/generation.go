package constants

const (
	// DefaultModel is the Gemini model used when config does not override it.
	DefaultModel = "gemini-2.5-flash"
	// DefaultEndpoint is the public Generative Language API base URL.
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	// DefaultTemperature for text features.
	DefaultTemperature = 0.9
	// MaxOutputTokens caps a single generateContent response.
	MaxOutputTokens = 8192
)

// Fixed storage key for the raw newline-separated API key text.
const APIKeysStorageKey = "duongtho_api_keys"

// Lyrics defaults applied when the caller leaves fields empty.
const (
	DefaultLyricsTopic = "Tình yêu"
	DefaultLyricsStyle = "Pop"
	DefaultLyricsLang  = "vi"
)
