package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func emptyKeysFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o600))
	return path
}

func TestOptimizeFallsBackWithoutKeys(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-keys-file", emptyKeysFile(t), "optimize", "một", "ngày", "mưa"}, nil, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "A melancholic and somber piano ballad")
}

func TestOptimizeJSONCarriesResolution(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-keys-file", emptyKeysFile(t), "-json", "optimize", "cyber city"}, nil, &out)
	require.NoError(t, err)

	var res struct {
		Source string `json:"source"`
		Reason string `json:"reason"`
		Text   string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Equal(t, "fallback", res.Source)
	require.Equal(t, "no_credentials", res.Reason)
	require.Contains(t, res.Text, "synthwave")
}

func TestOptimizeEmptyInput(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-keys-file", emptyKeysFile(t), "optimize"}, nil, &out)
	require.Error(t, err)
}

func TestLyricsDefaults(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-keys-file", emptyKeysFile(t), "lyrics", "-topic", "Biển", "-lang", "en"}, nil, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Biển")
}

func TestAssembleFromStdin(t *testing.T) {
	in := strings.NewReader(`{"actions":[
		{"type":"toggle_tag","category":"genres","tag":"Lo-Fi"},
		{"type":"toggle_tag","category":"moods","tag":"Chill"}
	]}`)
	var out bytes.Buffer
	err := run(context.Background(), []string{"-keys-file", emptyKeysFile(t), "assemble"}, in, &out)
	require.NoError(t, err)

	var res struct {
		Prompt     string `json:"prompt"`
		LyricsLang string `json:"lyrics_lang"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Equal(t, "Lo-Fi, Chill", res.Prompt)
	require.Equal(t, "vi", res.LyricsLang)
}

func TestAssembleRejectsUnknownCategory(t *testing.T) {
	in := strings.NewReader(`{"actions":[{"type":"toggle_tag","category":"nope","tag":"x"}]}`)
	err := run(context.Background(), []string{"-keys-file", emptyKeysFile(t), "assemble"}, in, &bytes.Buffer{})
	require.ErrorContains(t, err, "actions[0]")
}

func TestUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"-keys-file", emptyKeysFile(t), "dance"}, nil, &bytes.Buffer{})
	require.ErrorContains(t, err, "unknown command")
}

func TestMissingCommand(t *testing.T) {
	err := run(context.Background(), nil, nil, &bytes.Buffer{})
	require.ErrorContains(t, err, "missing command")
}
