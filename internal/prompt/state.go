// Package prompt models the editable prompt-builder state and the pure
// reducer that applies user actions to it.
package prompt

import (
	"strings"

	"promptstudio-go/internal/taxonomy"
)

// Languages accepted for lyric generation. LangCustom defers to State.CustomLang.
const (
	LangVietnamese = "vi"
	LangEnglish    = "en"
	LangJapanese   = "ja"
	LangCustom     = "custom"
)

// State is the prompt-builder state. Values are never mutated in place by
// Reduce; every transition returns a fresh copy.
type State struct {
	Selections    map[string][]string `json:"selections"`
	OptimizedIdea string              `json:"optimized_idea"`
	AIInput       string              `json:"ai_input"`
	Lyrics        string              `json:"lyrics"`
	LyricsLang    string              `json:"lyrics_lang"`
	CustomLang    string              `json:"custom_lang"`
}

// NewState returns the empty state with every category present.
func NewState() State {
	return State{Selections: emptySelections(), LyricsLang: LangVietnamese}
}

func emptySelections() map[string][]string {
	m := make(map[string][]string, len(taxonomy.Keys))
	for _, k := range taxonomy.Keys {
		m[k] = []string{}
	}
	return m
}

// Clone deep-copies the selection lists.
func (s State) Clone() State {
	out := s
	out.Selections = emptySelections()
	for k, v := range s.Selections {
		out.Selections[k] = append([]string{}, v...)
	}
	if out.LyricsLang == "" {
		out.LyricsLang = LangVietnamese
	}
	return out
}

// Selected reports whether tag is selected in category.
func (s State) Selected(category, tag string) bool {
	for _, t := range s.Selections[category] {
		if t == tag {
			return true
		}
	}
	return false
}

// assembleOrder is the prompt order, not the display order.
var assembleOrder = []string{
	taxonomy.Genres,
	taxonomy.Moods,
	taxonomy.AnimeDrama,
	taxonomy.Production,
	taxonomy.MixingPresets,
	taxonomy.V5Performance,
	taxonomy.Instruments,
	taxonomy.Effects,
	taxonomy.Vocals,
	taxonomy.Structure,
	taxonomy.V5Advanced,
}

// Assemble builds the style prompt: the optimized idea, then every non-empty
// category in assembleOrder.
func Assemble(s State) string {
	parts := make([]string, 0, len(assembleOrder)+1)
	if s.OptimizedIdea != "" {
		parts = append(parts, s.OptimizedIdea)
	}
	for _, k := range assembleOrder {
		if tags := s.Selections[k]; len(tags) > 0 {
			parts = append(parts, strings.Join(tags, ", "))
		}
	}
	return strings.Join(parts, ", ")
}

// MetaHeader renders the [Style]/[Mood]/[Tempo] block prepended to lyrics.
func MetaHeader(s State) string {
	style := "Pop"
	if g := s.Selections[taxonomy.Genres]; len(g) > 0 {
		style = g[0]
	}
	lines := "[Style: " + style + "]\n"
	if m := s.Selections[taxonomy.Moods]; len(m) > 0 {
		lines += "[Mood: " + m[0] + "]"
	}
	lines += "\n"
	for _, t := range s.Selections[taxonomy.Structure] {
		if strings.Contains(t, "Tempo") {
			lines += "[Tempo: " + t + "]"
			break
		}
	}
	lines += "\n\n"
	return strings.TrimSpace(strings.ReplaceAll(lines, "\n\n\n", "\n")) + "\n\n"
}

// LyricsLanguage resolves the effective lyric language.
func LyricsLanguage(s State) string {
	if s.LyricsLang == LangCustom {
		return s.CustomLang
	}
	if s.LyricsLang == "" {
		return LangVietnamese
	}
	return s.LyricsLang
}
