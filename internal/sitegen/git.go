package sitegen

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

const stageChunkSize = 100

// GitConfig configures Git.
type GitConfig struct {
	RepoRoot string
	Remote   string
	Branch   string
	Runner   CommandRunner
	Logger   interfaces.Logger
}

// Git drives the git binary inside RepoRoot.
type Git struct {
	repoRoot string
	remote   string
	branch   string
	runner   CommandRunner
	logger   interfaces.Logger
}

var _ interfaces.VersionControl = (*Git)(nil)

// NewGit returns a Git for cfg. Remote defaults to origin and Branch to main.
func NewGit(cfg GitConfig) *Git {
	remote := strings.TrimSpace(cfg.Remote)
	if remote == "" {
		remote = "origin"
	}
	branch := strings.TrimSpace(cfg.Branch)
	if branch == "" {
		branch = "main"
	}
	runner := cfg.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Git{
		repoRoot: cfg.RepoRoot,
		remote:   remote,
		branch:   branch,
		runner:   runner,
		logger:   logger,
	}
}

// CurrentBranch returns the checked out branch name.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := run(ctx, g.runner, g.repoRoot, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Stage adds paths to the index.
func (g *Git) Stage(ctx context.Context, paths ...string) error {
	for start := 0; start < len(paths); start += stageChunkSize {
		end := min(start+stageChunkSize, len(paths))
		args := append([]string{"add", "--"}, paths[start:end]...)
		if _, err := run(ctx, g.runner, g.repoRoot, "git", args...); err != nil {
			return err
		}
	}
	g.logger.Debug("git.staged", "count", len(paths))
	return nil
}

// Commit records the index with one -m flag per message.
func (g *Git) Commit(ctx context.Context, messages []string) error {
	if len(messages) == 0 {
		return goerrors.New("sitegen: commit requires a message", goerrors.CategoryBadInput)
	}
	args := []string{"commit"}
	for _, message := range messages {
		args = append(args, "-m", message)
	}
	_, err := run(ctx, g.runner, g.repoRoot, "git", args...)
	return err
}

// Push sends the configured branch to the configured remote.
func (g *Git) Push(ctx context.Context) error {
	_, err := run(ctx, g.runner, g.repoRoot, "git", "push", g.remote, g.branch)
	return err
}
