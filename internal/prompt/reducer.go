package prompt

import (
	"fmt"
	"strings"

	"promptstudio-go/internal/fallback"
	"promptstudio-go/internal/taxonomy"
)

// ActionType names a state transition.
type ActionType string

const (
	ActionToggleTag              ActionType = "toggle_tag"
	ActionClearAll               ActionType = "clear_all"
	ActionApplyDemoTemplate      ActionType = "apply_demo_template"
	ActionAddSuggestions         ActionType = "add_suggestions"
	ActionSetIdea                ActionType = "set_idea"
	ActionSetInput               ActionType = "set_input"
	ActionSetLyrics              ActionType = "set_lyrics"
	ActionSetLyricsLang          ActionType = "set_lyrics_lang"
	ActionApplyStructureTemplate ActionType = "apply_structure_template"
	ActionInsertStructureTag     ActionType = "insert_structure_tag"
	ActionInjectMetaTags         ActionType = "inject_meta_tags"
)

// Action is one user intent. Only the fields relevant to Type are read.
// Template names are resolved against the taxonomy by Resolve before reduction.
type Action struct {
	Type        ActionType            `json:"type"`
	Category    string                `json:"category,omitempty"`
	Tag         string                `json:"tag,omitempty"`
	Text        string                `json:"text,omitempty"`
	Template    string                `json:"template,omitempty"`
	Start       int                   `json:"start,omitempty"`
	End         int                   `json:"end,omitempty"`
	Suggestions []fallback.Suggestion `json:"suggestions,omitempty"`

	demo    *taxonomy.DemoTemplate
	content string
}

// Notice levels.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// Notice is the transient feedback message produced by a transition.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func info(msg string) Notice    { return Notice{Level: LevelInfo, Message: msg} }
func failure(msg string) Notice { return Notice{Level: LevelError, Message: msg} }

// Resolve looks up template names carried by a and validates category keys.
func (a Action) Resolve(tax *taxonomy.Taxonomy) (Action, error) {
	switch a.Type {
	case ActionToggleTag:
		if !tax.IsCategory(a.Category) {
			return a, fmt.Errorf("unknown category %q", a.Category)
		}
	case ActionApplyDemoTemplate:
		d, ok := tax.DemoTemplate(a.Template)
		if !ok {
			return a, fmt.Errorf("unknown demo template %q", a.Template)
		}
		a.demo = &d
	case ActionApplyStructureTemplate:
		st, ok := tax.StructureTemplate(a.Template)
		if !ok {
			return a, fmt.Errorf("unknown structure template %q", a.Template)
		}
		a.content = st.Content
	case ActionAddSuggestions:
		for _, sg := range a.Suggestions {
			if !tax.IsCategory(sg.Category) {
				return a, fmt.Errorf("unknown category %q", sg.Category)
			}
		}
	case "":
		return a, fmt.Errorf("missing action type")
	}
	return a, nil
}

// WithDemoTemplate returns an apply-demo action for an already resolved template.
func WithDemoTemplate(d taxonomy.DemoTemplate) Action {
	return Action{Type: ActionApplyDemoTemplate, Template: d.Name, demo: &d}
}

// WithStructureTemplate returns an apply-structure action carrying content directly.
func WithStructureTemplate(st taxonomy.StructureTemplate) Action {
	return Action{Type: ActionApplyStructureTemplate, Template: st.Name, content: st.Content}
}

// Reduce applies a to s and returns the next state plus user feedback.
// s itself is left untouched.
func Reduce(s State, a Action) (State, Notice) {
	next := s.Clone()
	switch a.Type {
	case ActionToggleTag:
		cur, ok := next.Selections[a.Category]
		if !ok {
			return next, failure("Danh mục không tồn tại: " + a.Category)
		}
		if next.Selected(a.Category, a.Tag) {
			kept := make([]string, 0, len(cur))
			for _, t := range cur {
				if t != a.Tag {
					kept = append(kept, t)
				}
			}
			next.Selections[a.Category] = kept
			return next, info("Đã bỏ: " + a.Tag)
		}
		next.Selections[a.Category] = append(cur, a.Tag)
		return next, success("Đã chọn: " + a.Tag)

	case ActionClearAll:
		return NewState(), info("Đã xóa tất cả")

	case ActionApplyDemoTemplate:
		if a.demo == nil {
			return s.Clone(), failure("Không tìm thấy mẫu")
		}
		next.Selections = emptySelections()
		for cat, tags := range a.demo.Tags {
			if _, ok := next.Selections[cat]; ok {
				next.Selections[cat] = append([]string{}, tags...)
			}
		}
		return next, success("Đã áp dụng mẫu: " + a.demo.Name)

	case ActionAddSuggestions:
		if len(a.Suggestions) == 0 {
			return next, info("Không tìm thấy thẻ liên quan")
		}
		added := 0
		for _, sg := range a.Suggestions {
			if _, ok := next.Selections[sg.Category]; !ok {
				continue
			}
			if !next.Selected(sg.Category, sg.Tag) {
				next.Selections[sg.Category] = append(next.Selections[sg.Category], sg.Tag)
				added++
			}
		}
		if added > 0 {
			return next, success(fmt.Sprintf("Đã thêm %d thẻ gợi ý!", added))
		}
		return next, success("Thẻ đã có sẵn")

	case ActionSetIdea:
		next.OptimizedIdea = a.Text
		return next, Notice{}

	case ActionSetInput:
		next.AIInput = a.Text
		return next, Notice{}

	case ActionSetLyrics:
		next.Lyrics = a.Text
		return next, Notice{}

	case ActionSetLyricsLang:
		switch a.Text {
		case LangVietnamese, LangEnglish, LangJapanese:
			next.LyricsLang = a.Text
		default:
			next.LyricsLang = LangCustom
			next.CustomLang = a.Text
		}
		return next, Notice{}

	case ActionApplyStructureTemplate:
		next.Lyrics = a.content
		return next, success("Đã áp dụng mẫu cấu trúc")

	case ActionInsertStructureTag:
		next.Lyrics = insertAt(next.Lyrics, a.Start, a.End, "\n"+a.Tag+"\n")
		return next, Notice{}

	case ActionInjectMetaTags:
		if Assemble(next) == "" {
			return next, failure("Vui lòng chọn thẻ phong cách trước")
		}
		next.Lyrics = MetaHeader(next) + next.Lyrics
		return next, success("Đã chèn thẻ Meta V5!")
	}
	return next, failure("Thao tác không hợp lệ: " + string(a.Type))
}

// insertAt replaces the rune range [start, end) of text with ins. Out of range
// positions are clamped.
func insertAt(text string, start, end int, ins string) string {
	r := []rune(text)
	clamp := func(i int) int {
		if i < 0 {
			return 0
		}
		if i > len(r) {
			return len(r)
		}
		return i
	}
	start, end = clamp(start), clamp(end)
	if end < start {
		end = start
	}
	var sb strings.Builder
	sb.WriteString(string(r[:start]))
	sb.WriteString(ins)
	sb.WriteString(string(r[end:]))
	return sb.String()
}

// ReduceAll folds actions over s, returning the final state and every notice
// that carried a message.
func ReduceAll(s State, actions []Action) (State, []Notice) {
	notices := make([]Notice, 0, len(actions))
	for _, a := range actions {
		var n Notice
		s, n = Reduce(s, a)
		if n.Message != "" {
			notices = append(notices, n)
		}
	}
	return s, notices
}
