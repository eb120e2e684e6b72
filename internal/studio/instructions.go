package studio

import (
	"fmt"
	"strings"
)

const imageInstruction = `Analyze this image for music inspiration.
Return a STRICT JSON object (no markdown) with two keys:
1. 'topic': A short, creative song description in Vietnamese based on the visual mood.
2. 'tags': An array of 5-8 English musical style tags that fit the image (genres, instruments, moods).`

var languageNames = map[string]string{
	"vi": "Vietnamese",
	"en": "English",
	"ja": "Japanese",
}

func languageName(code string) string {
	if n, ok := languageNames[code]; ok {
		return n
	}
	return code
}

func withStyle(sb *strings.Builder, style string) {
	if style = strings.TrimSpace(style); style != "" {
		fmt.Fprintf(sb, "\nCurrently selected style tags: %s", style)
	}
}

func optimizeInstruction(idea, style string) string {
	var sb strings.Builder
	sb.WriteString("You are a prompt engineer for an AI music generator (Suno v5). ")
	sb.WriteString("Rewrite the song idea below as ONE vivid English sentence describing genre, mood, instrumentation, vocals and production quality. ")
	sb.WriteString("Return only the sentence, no quotes, no markdown.")
	fmt.Fprintf(&sb, "\nIdea: %s", idea)
	withStyle(&sb, style)
	return sb.String()
}

func generateInstruction(idea, style string) string {
	var sb strings.Builder
	sb.WriteString("You are a prompt engineer for an AI music generator (Suno v5). ")
	sb.WriteString("Write a complete English style prompt for the idea below. ")
	sb.WriteString("Start with the line \"[Part 1]\", then a detailed description of genre, mood, tempo, instrumentation, vocals and mix. ")
	sb.WriteString("Return plain text only, no markdown.")
	fmt.Fprintf(&sb, "\nIdea: %s", idea)
	withStyle(&sb, style)
	return sb.String()
}

func lyricsInstruction(topic, style, lang string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write original song lyrics in %s about: %s.", languageName(lang), topic)
	fmt.Fprintf(&sb, "\nMusical style: %s", style)
	sb.WriteString("\nUse section tags such as [Intro], [Verse 1], [Chorus], [Bridge] and [Outro] on their own lines. ")
	sb.WriteString("Return only the lyrics, no explanations, no markdown.")
	return sb.String()
}
