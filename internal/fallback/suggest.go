package fallback

import (
	"strings"

	"promptstudio-go/internal/taxonomy"
)

// Suggestion is one (category, tag) pair proposed for the current idea.
type Suggestion struct {
	Category string `json:"category"`
	Tag      string `json:"tag"`
}

// Categories scanned by SuggestTags, in order.
var suggestCategories = []string{
	taxonomy.Genres,
	taxonomy.Instruments,
	taxonomy.Moods,
	taxonomy.Effects,
	taxonomy.Production,
	taxonomy.V5Advanced,
	taxonomy.MixingPresets,
	taxonomy.V5Performance,
}

type association struct {
	keywords []string
	adds     []Suggestion
}

var associations = []association{
	{
		keywords: []string{"buồn", "sad"},
		adds: []Suggestion{
			{taxonomy.Moods, "Sad"},
			{taxonomy.Instruments, "Piano"},
			{taxonomy.V5Performance, "Expressive"},
		},
	},
	{
		keywords: []string{"rock", "mạnh"},
		adds: []Suggestion{
			{taxonomy.Genres, "Rock"},
			{taxonomy.Instruments, "Electric Guitar"},
			{taxonomy.Instruments, "Drum Kit"},
			{taxonomy.V5Performance, "Dynamic"},
		},
	},
	{
		keywords: []string{"điện tử", "edm"},
		adds: []Suggestion{
			{taxonomy.Genres, "EDM"},
			{taxonomy.Instruments, "Synthesizer"},
			{taxonomy.V5Performance, "Wide Stereo"},
		},
	},
}

// SuggestTags proposes tags whose key or label appears in input, followed by
// fixed keyword associations. Pairs are unique and keep discovery order.
func SuggestTags(tax *taxonomy.Taxonomy, input string) []Suggestion {
	lower := strings.ToLower(input)
	out := make([]Suggestion, 0)
	seen := make(map[Suggestion]struct{})
	add := func(s Suggestion) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if tax != nil {
		tax.Walk(suggestCategories, func(category string, tag taxonomy.Tag) {
			if strings.Contains(lower, strings.ToLower(tag.Key)) || strings.Contains(lower, strings.ToLower(tag.Label)) {
				add(Suggestion{Category: category, Tag: tag.Key})
			}
		})
	}
	for _, a := range associations {
		if containsAny(lower, a.keywords) {
			for _, s := range a.adds {
				add(s)
			}
		}
	}
	return out
}
