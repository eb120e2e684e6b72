// Package studio exposes the prompt studio over HTTP.
package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/constants"
	"promptstudio-go/internal/credential"
	apierrors "promptstudio-go/internal/errors"
	"promptstudio-go/internal/logging"
	"promptstudio-go/internal/prompt"
	svc "promptstudio-go/internal/studio"
	"promptstudio-go/internal/taxonomy"
)

// KeyStore is the persisted key text.
type KeyStore interface {
	Raw() string
	Save(ctx context.Context, raw string) (int, error)
}

// Handler serves the studio API.
type Handler struct {
	svc  *svc.Service
	keys KeyStore
	tax  *taxonomy.Taxonomy
}

// New builds a Handler.
func New(service *svc.Service, keys KeyStore) *Handler {
	return &Handler{svc: service, keys: keys, tax: service.Taxonomy()}
}

type ideaBody struct {
	Input string `json:"input"`
	Style string `json:"style"`
}

func (b ideaBody) request() svc.Request { return svc.Request{Input: b.Input, Style: b.Style} }

// bind decodes the JSON body; an empty body decodes to the zero value.
func bind(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		apierrors.WriteError(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// fail maps service errors onto HTTP responses.
func fail(c *gin.Context, err error, emptyNotice string) {
	if errors.Is(err, apierrors.ErrEmptyInput) {
		apierrors.WriteError(c, http.StatusBadRequest, emptyNotice)
		return
	}
	logging.WithReq(c, log.Fields{"error": err.Error()}).Error("studio request failed")
	_ = c.Error(err)
	apierrors.WriteError(c, http.StatusInternalServerError, "internal error")
}

func tag(c *gin.Context, feature string, r svc.Resolution) {
	logging.Tag(c, feature, r.Source)
}

// Taxonomy returns the tag catalogue and templates.
func (h *Handler) Taxonomy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"order":                taxonomy.Keys,
		"categories":           h.tax.Categories,
		"demo_templates":       h.tax.DemoTemplates,
		"structure_templates":  h.tax.StructureTemplates,
		"quick_structure_tags": h.tax.QuickStructureTags,
	})
}

// GetKeys reports how many keys are stored. The keys themselves never leave the server.
func (h *Handler) GetKeys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": credential.CountKeys(h.keys.Raw())})
}

// PutKeys replaces the stored key text.
func (h *Handler) PutKeys(c *gin.Context) {
	var body struct {
		Keys string `json:"keys"`
	}
	if !bind(c, &body) {
		return
	}
	n, err := h.keys.Save(c.Request.Context(), body.Keys)
	if err != nil {
		fail(c, err, "")
		return
	}
	logging.WithReq(c, log.Fields{"count": n}).Info("api keys saved")
	c.JSON(http.StatusOK, gin.H{"count": n, "notice": fmt.Sprintf("Đã lưu %d API Keys!", n)})
}

// Optimize rewrites an idea into a style description.
func (h *Handler) Optimize(c *gin.Context) {
	var body ideaBody
	if !bind(c, &body) {
		return
	}
	res, err := h.svc.OptimizeIdea(c.Request.Context(), body.request())
	if err != nil {
		fail(c, err, "Vui lòng nhập từ khóa ý tưởng")
		return
	}
	tag(c, svc.FeatureOptimize, res.Resolution)
	c.JSON(http.StatusOK, res)
}

// Suggest proposes tags for an idea.
func (h *Handler) Suggest(c *gin.Context) {
	var body ideaBody
	if !bind(c, &body) {
		return
	}
	res, err := h.svc.SuggestTags(body.request())
	if err != nil {
		fail(c, err, "Vui lòng nhập ý tưởng")
		return
	}
	c.Set(logging.KeyFeature, svc.FeatureSuggest)
	c.JSON(http.StatusOK, res)
}

// Generate builds a full prompt plus suggestions.
func (h *Handler) Generate(c *gin.Context) {
	var body ideaBody
	if !bind(c, &body) {
		return
	}
	res, err := h.svc.GeneratePrompt(c.Request.Context(), body.request())
	if err != nil {
		fail(c, err, "Vui lòng nhập ý tưởng")
		return
	}
	tag(c, svc.FeatureGenerate, res.Resolution)
	c.JSON(http.StatusOK, res)
}

// Lyrics writes lyrics.
func (h *Handler) Lyrics(c *gin.Context) {
	var body svc.LyricsRequest
	if !bind(c, &body) {
		return
	}
	res, err := h.svc.GenerateLyrics(c.Request.Context(), body)
	if err != nil {
		fail(c, err, "Vui lòng nhập chủ đề")
		return
	}
	tag(c, svc.FeatureLyrics, res.Resolution)
	c.JSON(http.StatusOK, res)
}

// AnalyzeImage reads the multipart "image" field.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxImageUploadBytes+1<<20)
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.WriteError(c, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		apierrors.WriteError(c, http.StatusBadRequest, "multipart field \"image\" is required")
		return
	}
	if fh.Size > constants.MaxImageUploadBytes {
		apierrors.WriteError(c, http.StatusRequestEntityTooLarge, "image too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err, "")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, constants.MaxImageUploadBytes))
	if err != nil {
		fail(c, err, "")
		return
	}

	res, err := h.svc.AnalyzeImage(c.Request.Context(), svc.ImageRequest{
		Data:     data,
		MimeType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		fail(c, err, "Ảnh trống")
		return
	}
	tag(c, svc.FeatureImage, res.Resolution)
	c.JSON(http.StatusOK, res)
}

type assembleBody struct {
	State   *prompt.State   `json:"state"`
	Actions []prompt.Action `json:"actions"`
}

// Assemble applies actions to a prompt state and returns the assembled prompt.
func (h *Handler) Assemble(c *gin.Context) {
	var body assembleBody
	if !bind(c, &body) {
		return
	}
	state := prompt.NewState()
	if body.State != nil {
		state = body.State.Clone()
	}
	actions := make([]prompt.Action, 0, len(body.Actions))
	for i, a := range body.Actions {
		resolved, err := a.Resolve(h.tax)
		if err != nil {
			apierrors.WriteError(c, http.StatusBadRequest, fmt.Sprintf("actions[%d]: %v", i, err))
			return
		}
		actions = append(actions, resolved)
	}
	next, notices := prompt.ReduceAll(state, actions)
	c.JSON(http.StatusOK, gin.H{
		"state":       next,
		"prompt":      prompt.Assemble(next),
		"lyrics_lang": prompt.LyricsLanguage(next),
		"notices":     notices,
	})
}
