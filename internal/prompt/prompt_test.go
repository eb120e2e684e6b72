package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"promptstudio-go/internal/fallback"
	"promptstudio-go/internal/taxonomy"
)

func toggle(cat, tag string) Action {
	return Action{Type: ActionToggleTag, Category: cat, Tag: tag}
}

func TestAssemble_Order(t *testing.T) {
	s := NewState()
	s.OptimizedIdea = "A melancholic ballad"
	s.Selections[taxonomy.Instruments] = []string{"Piano", "Strings"}
	s.Selections[taxonomy.Genres] = []string{"Pop"}
	s.Selections[taxonomy.Moods] = []string{"Sad"}
	s.Selections[taxonomy.V5Advanced] = []string{"[Hook]"}

	require.Equal(t, "A melancholic ballad, Pop, Sad, Piano, Strings, [Hook]", Assemble(s))
}

func TestAssemble_Empty(t *testing.T) {
	require.Equal(t, "", Assemble(NewState()))
}

func TestReduce_ToggleTag(t *testing.T) {
	s0 := NewState()
	s1, n := Reduce(s0, toggle(taxonomy.Genres, "Rock"))
	require.Equal(t, LevelSuccess, n.Level)
	require.Equal(t, "Đã chọn: Rock", n.Message)
	require.Equal(t, []string{"Rock"}, s1.Selections[taxonomy.Genres])
	require.Empty(t, s0.Selections[taxonomy.Genres], "input state must not change")

	s2, n := Reduce(s1, toggle(taxonomy.Genres, "Rock"))
	require.Equal(t, "Đã bỏ: Rock", n.Message)
	require.Empty(t, s2.Selections[taxonomy.Genres])

	_, n = Reduce(s2, toggle("nope", "x"))
	require.Equal(t, LevelError, n.Level)
}

func TestReduce_ClearAll(t *testing.T) {
	s := NewState()
	s.OptimizedIdea = "x"
	s.Lyrics = "y"
	s.LyricsLang = LangCustom
	s.CustomLang = "fr"
	s.Selections[taxonomy.Moods] = []string{"Sad"}

	got, n := Reduce(s, Action{Type: ActionClearAll})
	require.Equal(t, "Đã xóa tất cả", n.Message)
	require.Equal(t, NewState(), got)
}

func TestReduce_ApplyDemoTemplate(t *testing.T) {
	tax := taxonomy.MustLoad()
	a, err := Action{Type: ActionApplyDemoTemplate, Template: "Cyber Metal"}.Resolve(tax)
	require.NoError(t, err)

	s := NewState()
	s.Selections[taxonomy.Effects] = []string{"Reverb"}
	got, n := Reduce(s, a)
	require.Equal(t, "Đã áp dụng mẫu: Cyber Metal", n.Message)
	require.Empty(t, got.Selections[taxonomy.Effects])
	require.Equal(t, []string{"Industrial Metal", "Cyberpunk"}, got.Selections[taxonomy.Genres])

	_, err = Action{Type: ActionApplyDemoTemplate, Template: "missing"}.Resolve(tax)
	require.Error(t, err)
}

func TestReduce_AddSuggestions(t *testing.T) {
	sugg := []fallback.Suggestion{
		{Category: taxonomy.Moods, Tag: "Sad"},
		{Category: taxonomy.Instruments, Tag: "Piano"},
	}
	s, n := Reduce(NewState(), Action{Type: ActionAddSuggestions, Suggestions: sugg})
	require.Equal(t, "Đã thêm 2 thẻ gợi ý!", n.Message)

	s, n = Reduce(s, Action{Type: ActionAddSuggestions, Suggestions: sugg})
	require.Equal(t, "Thẻ đã có sẵn", n.Message)
	require.Equal(t, []string{"Sad"}, s.Selections[taxonomy.Moods])

	_, n = Reduce(s, Action{Type: ActionAddSuggestions})
	require.Equal(t, LevelInfo, n.Level)
}

func TestReduce_InsertStructureTag(t *testing.T) {
	s := NewState()
	s.Lyrics = "ab cd"
	got, _ := Reduce(s, Action{Type: ActionInsertStructureTag, Tag: "[Chorus]", Start: 2, End: 3})
	require.Equal(t, "ab\n[Chorus]\ncd", got.Lyrics)

	got, _ = Reduce(s, Action{Type: ActionInsertStructureTag, Tag: "[Outro]", Start: 99, End: 99})
	require.Equal(t, "ab cd\n[Outro]\n", got.Lyrics)
}

func TestReduce_StructureTemplate(t *testing.T) {
	tax := taxonomy.MustLoad()
	st := tax.StructureTemplates[0]
	s := NewState()
	s.Lyrics = "old"
	got, n := Reduce(s, WithStructureTemplate(st))
	require.Equal(t, st.Content, got.Lyrics)
	require.Equal(t, "Đã áp dụng mẫu cấu trúc", n.Message)
}

func TestReduce_InjectMetaTags(t *testing.T) {
	_, n := Reduce(NewState(), Action{Type: ActionInjectMetaTags})
	require.Equal(t, LevelError, n.Level)

	s := NewState()
	s.Selections[taxonomy.Genres] = []string{"Rock", "Pop"}
	s.Selections[taxonomy.Moods] = []string{"Sad"}
	s.Selections[taxonomy.Structure] = []string{"[Intro]", "Fast Tempo"}
	s.Lyrics = "[Verse 1]"

	got, n := Reduce(s, Action{Type: ActionInjectMetaTags})
	require.Equal(t, "Đã chèn thẻ Meta V5!", n.Message)
	require.Equal(t, "[Style: Rock]\n[Mood: Sad]\n[Tempo: Fast Tempo]\n\n[Verse 1]", got.Lyrics)
}

func TestMetaHeader_StyleOnly(t *testing.T) {
	require.Equal(t, "[Style: Pop]\n\n", MetaHeader(NewState()))
}

func TestLyricsLanguage(t *testing.T) {
	s, _ := Reduce(NewState(), Action{Type: ActionSetLyricsLang, Text: "Korean"})
	require.Equal(t, LangCustom, s.LyricsLang)
	require.Equal(t, "Korean", LyricsLanguage(s))

	s, _ = Reduce(s, Action{Type: ActionSetLyricsLang, Text: LangJapanese})
	require.Equal(t, LangJapanese, LyricsLanguage(s))
	require.Equal(t, LangVietnamese, LyricsLanguage(State{}))
}

func TestReduceAll(t *testing.T) {
	s, notices := ReduceAll(NewState(), []Action{
		{Type: ActionSetIdea, Text: "idea"},
		toggle(taxonomy.Genres, "Jazz"),
		toggle(taxonomy.Moods, "Calm"),
	})
	require.Len(t, notices, 2)
	require.Equal(t, "idea, Jazz, Calm", Assemble(s))
}
