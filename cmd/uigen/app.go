package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/gnana997/uigen/pkg/cache"
	"github.com/gnana997/uigen/pkg/generator"
	"github.com/gnana997/uigen/pkg/parser"
	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/tokens"
	"github.com/gnana997/uigen/pkg/util"
	"github.com/gnana997/uigen/pkg/verify"
)

// app holds everything a command needs, built once from the resolved
// settings.
type app struct {
	settings settings
	logger   *slog.Logger
	registry *registry.Registry
	tokens   *tokens.Registry
	gen      *cache.Generator

	parser *parser.Manager // created on first verifier() call
}

// newApp resolves settings and loads both registries. Log output goes to
// errOut so stdout carries only command output.
func newApp(flags *globalFlags, errOut io.Writer) (*app, error) {
	s, err := resolveSettings(flags)
	if err != nil {
		return nil, err
	}
	s.Logger.Output = errOut
	logger := util.NewLogger(s.Logger)

	reg, err := loadRegistry(s.RegistryPath)
	if err != nil {
		return nil, err
	}
	tok, err := loadTokens(s.TokensPath)
	if err != nil {
		return nil, err
	}

	gen := generator.New(reg, tok, generator.WithLogger(logger))
	cached, err := cache.New(gen, s.CacheSize, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded registries",
		"components", len(reg.Components),
		"token_families", len(tok.Families),
		"engine", gen.Engine())

	return &app{settings: s, logger: logger, registry: reg, tokens: tok, gen: cached}, nil
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadFromFile(path)
}

func loadTokens(path string) (*tokens.Registry, error) {
	if path == "" {
		return tokens.Default()
	}
	return tokens.LoadFromFile(path)
}

// verifier returns a verifier for the configured dialect.
func (a *app) verifier() *verify.Verifier {
	if a.parser == nil {
		a.parser = parser.NewManager(a.logger, 0)
	}
	return verify.New(a.parser, a.settings.Dialect, a.registry)
}

func (a *app) Close() {
	if a.parser != nil {
		a.parser.Close()
	}
}

// readSpec reads a spec document from path, or from in when path is ""
// or "-". Files are decoded by extension. Standard input is treated as
// JSON (comments allowed) when it starts with '{', otherwise as YAML.
func readSpec(in io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		format := util.DocumentYAML
		if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] == '{' || bytes.HasPrefix(trimmed, []byte("//")) || bytes.HasPrefix(trimmed, []byte("/*")) {
			format = util.DocumentJSON
		}
		return util.ToJSON(data, format)
	}

	data, err := util.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := util.ToJSON(data, util.DetectDocumentFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
