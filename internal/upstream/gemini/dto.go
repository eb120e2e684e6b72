package gemini

// DTO (Data Transfer Objects) for the public generateContent API.

// Request represents the request payload for models/{model}:generateContent
type Request struct {
	Contents          []Content          `json:"contents"`
	GenerationConfig  *GenerationConfig  `json:"generationConfig,omitempty"`
	SystemInstruction *SystemInstruction `json:"systemInstruction,omitempty"`
	SafetySettings    []SafetySetting    `json:"safetySettings,omitempty"`
}

// Content represents a content item in the request
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part represents a part of content (text or inline data)
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData represents inline binary data
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

// GenerationConfig represents generation configuration
type GenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	MaxOutputTokens  *int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

// SystemInstruction represents system instruction
type SystemInstruction struct {
	Parts []Part `json:"parts,omitempty"`
}

// SafetySetting represents a safety setting
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// TextRequest builds a single-turn text prompt.
func TextRequest(prompt string) *Request {
	return &Request{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
	}
}

// ImageRequest builds a single-turn prompt with one inline image that asks
// for a JSON answer.
func ImageRequest(prompt, mimeType, base64Data string) *Request {
	return &Request{
		Contents: []Content{{
			Role: "user",
			Parts: []Part{
				{Text: prompt},
				{InlineData: &InlineData{MimeType: mimeType, Data: base64Data}},
			},
		}},
		GenerationConfig: &GenerationConfig{ResponseMimeType: "application/json"},
	}
}
