// Package fallback holds the deterministic, offline generators used whenever
// the generative backend is unavailable or unusable.
package fallback

import (
	"strings"
)

type ideaRule struct {
	keywords []string
	text     string
}

// Checked in order; the first rule with a matching keyword wins.
var ideaRules = []ideaRule{
	{
		keywords: []string{"sad", "mưa", "buồn", "khóc"},
		text:     "A melancholic and somber piano ballad, evoking feelings of a rainy day, with soft strings and a gentle, breathy female vocal, Lo-Fi production.",
	},
	{
		keywords: []string{"epic", "chiến", "hùng tráng", "sử thi"},
		text:     "An epic, soaring orchestral soundtrack for a cinematic battle scene, powerful timpani, dramatic choir, and a rising crescendo, studio quality.",
	},
	{
		keywords: []string{"happy", "vui", "hạnh phúc", "cười"},
		text:     "An upbeat, energetic and happy J-Pop song, fast tempo, with bright synthesizers, electric guitar, and a clear, high-pitched female vocal, 1990s style.",
	},
	{
		keywords: []string{"cyber", "tương lai", "future", "máy móc"},
		text:     "Dark, futuristic synthwave, 1980s style, with pulsing analog synths, arpeggiators, and a driving drum machine rhythm, vocoder vocals.",
	},
	{
		keywords: []string{"lofi", "học", "chill", "thư giãn"},
		text:     "A cozy, nostalgic Lo-Fi hip hop beat, perfect for studying, with mellow electric piano, soft drums, and vinyl crackle, instrumental.",
	},
}

// OptimizeIdea turns a free-text idea into an English style description.
func OptimizeIdea(input string) string {
	lower := strings.ToLower(input)
	for _, r := range ideaRules {
		if containsAny(lower, r.keywords) {
			return r.text
		}
	}
	return "A high-quality song about: " + input + ", featuring rich instrumentation, studio production, and clear structure."
}

// GeneratePrompt wraps OptimizeIdea in the multi-part prompt layout.
func GeneratePrompt(input string) string {
	return "[Part 1]\n" + OptimizeIdea(input) + "\n(Detailed instrumentation: high fidelity, studio recording)"
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
