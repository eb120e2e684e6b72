package studio

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/tidwall/gjson"

	"promptstudio-go/internal/constants"
	apierrors "promptstudio-go/internal/errors"
	"promptstudio-go/internal/fallback"
	"promptstudio-go/internal/upstream/gemini"
)

// Request is the free-text input of the idea features.
type Request struct {
	Input string `json:"input"`
	// Style is the currently assembled style prompt, if any.
	Style string `json:"style,omitempty"`
}

// TextResult is the outcome of a text feature.
type TextResult struct {
	Resolution
	Text string `json:"text"`
}

// GenerateResult is a full prompt plus tag suggestions for the same idea.
type GenerateResult struct {
	TextResult
	Suggestions []fallback.Suggestion `json:"suggestions"`
}

// LyricsRequest describes a lyric sheet to write. Empty Topic, Style and Lang
// default to "Tình yêu", "Pop" and "vi".
type LyricsRequest struct {
	Topic string `json:"topic"`
	Style string `json:"style"`
	Lang  string `json:"lang"`
}

// ImageRequest carries one uploaded image.
type ImageRequest struct {
	Data     []byte
	MimeType string
}

// ImageResult is the outcome of image analysis.
type ImageResult struct {
	Resolution
	fallback.ImageAnalysis
}

// SuggestResult lists tags proposed for an idea.
type SuggestResult struct {
	Suggestions []fallback.Suggestion `json:"suggestions"`
	Notice      string                `json:"notice"`
}

func textOp(prompt string) func(context.Context, *gemini.Client) (string, error) {
	return func(ctx context.Context, c *gemini.Client) (string, error) {
		text, err := c.Generate(ctx, gemini.TextRequest(prompt))
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", apierrors.ErrShape
		}
		return text, nil
	}
}

// OptimizeIdea rewrites a free-text idea into an English style description.
func (s *Service) OptimizeIdea(ctx context.Context, req Request) (TextResult, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return TextResult{}, apierrors.ErrEmptyInput
	}
	text, r, ok := attempt(ctx, s, FeatureOptimize, textOp(optimizeInstruction(input, req.Style)))
	if !ok {
		text = fallback.OptimizeIdea(input)
	}
	s.finish(ctx, FeatureOptimize, &r, "Đã tối ưu hóa ý tưởng!")
	return TextResult{Resolution: r, Text: text}, nil
}

// GeneratePrompt produces a full multi-part prompt and the matching tag
// suggestions.
func (s *Service) GeneratePrompt(ctx context.Context, req Request) (GenerateResult, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return GenerateResult{}, apierrors.ErrEmptyInput
	}
	text, r, ok := attempt(ctx, s, FeatureGenerate, textOp(generateInstruction(input, req.Style)))
	if !ok {
		text = fallback.GeneratePrompt(input)
	}
	s.finish(ctx, FeatureGenerate, &r, "Đã tạo Prompt AI!")
	return GenerateResult{
		TextResult:  TextResult{Resolution: r, Text: text},
		Suggestions: fallback.SuggestTags(s.tax, input),
	}, nil
}

// GenerateLyrics writes lyrics for a topic in the requested language.
func (s *Service) GenerateLyrics(ctx context.Context, req LyricsRequest) (TextResult, error) {
	topic := strings.TrimSpace(req.Topic)
	style := strings.TrimSpace(req.Style)
	if topic == "" && style == "" {
		return TextResult{}, apierrors.ErrEmptyInput
	}
	if topic == "" {
		topic = constants.DefaultLyricsTopic
	}
	if style == "" {
		style = constants.DefaultLyricsStyle
	}
	lang := strings.TrimSpace(req.Lang)
	if lang == "" {
		lang = constants.DefaultLyricsLang
	}

	text, r, ok := attempt(ctx, s, FeatureLyrics, textOp(lyricsInstruction(topic, style, lang)))
	if !ok {
		text = fallback.GenerateLyrics(topic, style, lang)
	}
	s.finish(ctx, FeatureLyrics, &r, "Đã viết xong lời bài hát!")
	return TextResult{Resolution: r, Text: text}, nil
}

// AnalyzeImage derives a song topic and style tags from a picture.
func (s *Service) AnalyzeImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	if len(req.Data) == 0 {
		return ImageResult{}, apierrors.ErrEmptyInput
	}
	mime := req.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	b64 := base64.StdEncoding.EncodeToString(req.Data)
	op := func(ctx context.Context, c *gemini.Client) (fallback.ImageAnalysis, error) {
		text, err := c.Generate(ctx, gemini.ImageRequest(imageInstruction, mime, b64))
		if err != nil {
			return fallback.ImageAnalysis{}, err
		}
		return ParseImageAnalysis(text)
	}

	analysis, r, ok := attempt(ctx, s, FeatureImage, op)
	if !ok {
		analysis = fallback.AnalyzeImage(req.Data)
	}
	s.finish(ctx, FeatureImage, &r, "Đã phân tích xong!")
	return ImageResult{Resolution: r, ImageAnalysis: analysis}, nil
}

// SuggestTags proposes taxonomy tags for an idea. It never calls the backend.
func (s *Service) SuggestTags(req Request) (SuggestResult, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return SuggestResult{}, apierrors.ErrEmptyInput
	}
	out := fallback.SuggestTags(s.tax, input)
	notice := "Không tìm thấy thẻ liên quan"
	if len(out) > 0 {
		notice = "Đã tìm thấy thẻ gợi ý"
	}
	return SuggestResult{Suggestions: out, Notice: notice}, nil
}

// ParseImageAnalysis validates an image-analysis answer. It must be a bare
// JSON object with a non-empty string "topic" and an array of strings "tags".
func ParseImageAnalysis(text string) (fallback.ImageAnalysis, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") || !gjson.Valid(text) {
		return fallback.ImageAnalysis{}, apierrors.ErrShape
	}
	topic := gjson.Get(text, "topic")
	if topic.Type != gjson.String || strings.TrimSpace(topic.Str) == "" {
		return fallback.ImageAnalysis{}, apierrors.ErrShape
	}
	tagsRes := gjson.Get(text, "tags")
	if !tagsRes.IsArray() {
		return fallback.ImageAnalysis{}, apierrors.ErrShape
	}
	tags := make([]string, 0)
	for _, t := range tagsRes.Array() {
		if t.Type != gjson.String {
			return fallback.ImageAnalysis{}, apierrors.ErrShape
		}
		tags = append(tags, t.Str)
	}
	return fallback.ImageAnalysis{Topic: topic.Str, Tags: tags}, nil
}
