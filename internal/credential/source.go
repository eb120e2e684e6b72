package credential

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Source 定义原始 key 文本的读取接口（环境变量、文件等）。
type Source interface {
	Name() string
	Load(ctx context.Context) (string, error)
}

// EnvSource reads keys from PROMPTSTUDIO_API_KEYS (newline or comma separated)
// and from numbered variables PROMPTSTUDIO_API_KEY_1, PROMPTSTUDIO_API_KEY_2, ...
type EnvSource struct {
	listVar string
	prefix  string
}

// NewEnvSource creates a new environment variable key source
func NewEnvSource() *EnvSource {
	return &EnvSource{
		listVar: "PROMPTSTUDIO_API_KEYS",
		prefix:  "PROMPTSTUDIO_API_KEY_",
	}
}

// Name returns the source identifier
func (s *EnvSource) Name() string {
	return "env"
}

// Load returns the raw key text assembled from the environment, one key per line.
func (s *EnvSource) Load(ctx context.Context) (string, error) {
	var lines []string
	if v := os.Getenv(s.listVar); v != "" {
		lines = append(lines, strings.Split(strings.ReplaceAll(v, ",", "\n"), "\n")...)
	}

	numbered := make([]string, 0)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], s.prefix) {
			continue
		}
		numbered = append(numbered, parts[0])
	}
	// 按变量名排序，保证顺序稳定
	sort.Strings(numbered)
	for _, name := range numbered {
		lines = append(lines, os.Getenv(name))
	}

	raw := strings.Join(lines, "\n")
	if n := CountKeys(raw); n > 0 {
		log.Infof("Loaded %d API key(s) from environment variables", n)
	}
	return raw, nil
}

// FileSource reads raw key text from a file, one key per line.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read keys file %s: %w", s.path, err)
	}
	return string(data), nil
}

// StaticSource returns fixed raw text. Used for config-seeded keys.
type StaticSource struct {
	name string
	raw  string
}

func NewStaticSource(name, raw string) *StaticSource {
	return &StaticSource{name: name, raw: raw}
}

func (s *StaticSource) Name() string { return s.name }

func (s *StaticSource) Load(context.Context) (string, error) { return s.raw, nil }
