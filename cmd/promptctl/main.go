package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/config"
	"promptstudio-go/internal/credential"
	"promptstudio-go/internal/prompt"
	store "promptstudio-go/internal/storage"
	"promptstudio-go/internal/studio"
	"promptstudio-go/internal/taxonomy"
	"promptstudio-go/internal/upstream/gemini"
)

const usage = `usage: promptctl [global flags] <optimize|suggest|lyrics|assemble> [flags]

global flags:
  -config string     path to configuration file
  -keys-file string  newline-separated Gemini API keys (default: PROMPTSTUDIO_API_KEYS)
  -timeout duration  overall timeout (default 2m)
  -json              print the full JSON result
`

type options struct {
	configPath string
	keysFile   string
	timeout    time.Duration
	asJSON     bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options
	fs := flag.NewFlagSet("promptctl", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	fs.StringVar(&opts.configPath, "config", "", "path to configuration file")
	fs.StringVar(&opts.keysFile, "keys-file", "", "file with one Gemini API key per line")
	fs.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall timeout")
	fs.BoolVar(&opts.asJSON, "json", false, "print the full JSON result")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	// 命令行只输出结果，日志降到 warn
	log.SetLevel(log.WarnLevel)
	log.SetOutput(os.Stderr)

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	svc, err := buildService(ctx, opts)
	if err != nil {
		return err
	}

	cmd, rest := strings.ToLower(fs.Arg(0)), fs.Args()[1:]
	switch cmd {
	case "optimize":
		return runOptimize(ctx, svc, rest, stdout, opts.asJSON)
	case "suggest":
		return runSuggest(svc, rest, stdout, opts.asJSON)
	case "lyrics":
		return runLyrics(ctx, svc, rest, stdout, opts.asJSON)
	case "assemble":
		return runAssemble(svc, rest, stdin, stdout)
	default:
		return fmt.Errorf("unknown command %q (expected optimize|suggest|lyrics|assemble)", cmd)
	}
}

// buildService wires the studio service over an in-memory key store.
func buildService(ctx context.Context, opts options) (*studio.Service, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	var seed credential.Source = credential.NewEnvSource()
	if opts.keysFile != "" {
		seed = credential.NewFileSource(opts.keysFile)
	}
	keys := credential.NewKeyStore(store.NewMemoryBackend(), nil, seed)
	if err := keys.Load(ctx); err != nil {
		return nil, err
	}
	g := cfg.Gemini
	dialer := gemini.NewDialer(gemini.Options{
		Endpoint:              g.Endpoint,
		Model:                 g.Model,
		ProxyURL:              g.ProxyURL,
		Temperature:           g.Temperature,
		MaxTokens:             g.MaxTokens,
		DialTimeout:           g.DialTimeout(),
		TLSHandshakeTimeout:   g.TLSHandshakeTimeout(),
		ResponseHeaderTimeout: g.ResponseHeaderTimeout(),
		RequestTimeout:        g.RequestTimeout(),
	})
	return studio.New(keys, dialer, taxonomy.MustLoad()), nil
}

func runOptimize(ctx context.Context, svc *studio.Service, args []string, out io.Writer, asJSON bool) error {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	full := fs.Bool("full", false, "generate a complete prompt with tag suggestions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req := studio.Request{Input: strings.Join(fs.Args(), " ")}
	if *full {
		res, err := svc.GeneratePrompt(ctx, req)
		if err != nil {
			return err
		}
		return emit(out, asJSON, res, res.Text, res.Notice)
	}
	res, err := svc.OptimizeIdea(ctx, req)
	if err != nil {
		return err
	}
	return emit(out, asJSON, res, res.Text, res.Notice)
}

func runSuggest(svc *studio.Service, args []string, out io.Writer, asJSON bool) error {
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := svc.SuggestTags(studio.Request{Input: strings.Join(fs.Args(), " ")})
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(res.Suggestions))
	for _, s := range res.Suggestions {
		lines = append(lines, s.Category+"\t"+s.Tag)
	}
	return emit(out, asJSON, res, strings.Join(lines, "\n"), res.Notice)
}

func runLyrics(ctx context.Context, svc *studio.Service, args []string, out io.Writer, asJSON bool) error {
	fs := flag.NewFlagSet("lyrics", flag.ContinueOnError)
	var req studio.LyricsRequest
	fs.StringVar(&req.Topic, "topic", "", "song topic")
	fs.StringVar(&req.Style, "style", "", "style prompt")
	fs.StringVar(&req.Lang, "lang", "", "lyrics language code (vi, en, ja)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := svc.GenerateLyrics(ctx, req)
	if err != nil {
		return err
	}
	return emit(out, asJSON, res, res.Text, res.Notice)
}

type assembleInput struct {
	State   *prompt.State   `json:"state"`
	Actions []prompt.Action `json:"actions"`
}

// runAssemble reads {"state":...,"actions":[...]} from -file or stdin and
// prints the final state, prompt and notices as JSON.
func runAssemble(svc *studio.Service, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("assemble", flag.ContinueOnError)
	file := fs.String("file", "", "input JSON file (default: stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}
	var input assembleInput
	if err := json.NewDecoder(in).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode input: %w", err)
	}
	state := prompt.NewState()
	if input.State != nil {
		state = input.State.Clone()
	}
	actions := make([]prompt.Action, 0, len(input.Actions))
	for i, a := range input.Actions {
		resolved, err := a.Resolve(svc.Taxonomy())
		if err != nil {
			return fmt.Errorf("actions[%d]: %w", i, err)
		}
		actions = append(actions, resolved)
	}
	next, notices := prompt.ReduceAll(state, actions)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"state":       next,
		"prompt":      prompt.Assemble(next),
		"lyrics_lang": prompt.LyricsLanguage(next),
		"notices":     notices,
	})
}

func emit(out io.Writer, asJSON bool, v any, text, notice string) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if notice != "" {
		log.Warn(notice)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}
