package sitegen

import (
	"context"
	"strings"

	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

// HugoConfig configures Hugo.
type HugoConfig struct {
	RepoRoot string
	// OutputDir is relative to RepoRoot and defaults to docs.
	OutputDir string
	// Binary defaults to hugo.
	Binary string
	Runner CommandRunner
}

// Hugo rebuilds the static site.
type Hugo struct {
	repoRoot  string
	outputDir string
	binary    string
	runner    CommandRunner
}

var _ interfaces.SiteBuilder = (*Hugo)(nil)

// NewHugo returns a Hugo for cfg.
func NewHugo(cfg HugoConfig) *Hugo {
	outputDir := strings.TrimSpace(cfg.OutputDir)
	if outputDir == "" {
		outputDir = "docs"
	}
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = "hugo"
	}
	runner := cfg.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Hugo{
		repoRoot:  cfg.RepoRoot,
		outputDir: outputDir,
		binary:    binary,
		runner:    runner,
	}
}

// Build runs a minified build into the output folder and returns that
// folder, relative to the repository root.
func (h *Hugo) Build(ctx context.Context) (string, error) {
	if _, err := run(ctx, h.runner, h.repoRoot, h.binary, "--minify", "-d", h.outputDir); err != nil {
		return "", err
	}
	return h.outputDir, nil
}
