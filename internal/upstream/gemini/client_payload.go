package gemini

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// applyGenerationDefaults fills generationConfig fields the caller left unset.
func applyGenerationDefaults(body []byte, temperature float64, maxTokens int) []byte {
	if temperature > 0 && !gjson.GetBytes(body, "generationConfig.temperature").Exists() {
		if out, err := sjson.SetBytes(body, "generationConfig.temperature", temperature); err == nil {
			body = out
		}
	}
	if maxTokens > 0 && !gjson.GetBytes(body, "generationConfig.maxOutputTokens").Exists() {
		if out, err := sjson.SetBytes(body, "generationConfig.maxOutputTokens", maxTokens); err == nil {
			body = out
		}
	}
	return body
}

// extractText joins every text part of the first candidate.
func extractText(body []byte) string {
	parts := gjson.GetBytes(body, "candidates.0.content.parts.#.text")
	var sb strings.Builder
	for _, p := range parts.Array() {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// blockReason reports why the backend produced no text, if it said so.
func blockReason(body []byte) string {
	if r := gjson.GetBytes(body, "promptFeedback.blockReason").String(); r != "" {
		return r
	}
	return gjson.GetBytes(body, "candidates.0.finishReason").String()
}
