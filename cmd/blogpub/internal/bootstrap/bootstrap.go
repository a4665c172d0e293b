// Package bootstrap turns a runtime configuration into the publishers used by
// the blogpub binaries.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"

	publishcmd "github.com/goliatone/go-blogpub/internal/commands/publish"
	"github.com/goliatone/go-blogpub/internal/discovery"
	"github.com/goliatone/go-blogpub/internal/frontmatter"
	"github.com/goliatone/go-blogpub/internal/hashnode"
	"github.com/goliatone/go-blogpub/internal/ledger"
	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/internal/logging/gologger"
	"github.com/goliatone/go-blogpub/internal/publish"
	"github.com/goliatone/go-blogpub/internal/rewrite"
	"github.com/goliatone/go-blogpub/internal/runtimeconfig"
	"github.com/goliatone/go-blogpub/internal/sitegen"
	"github.com/goliatone/go-blogpub/internal/status"
	"github.com/goliatone/go-blogpub/internal/targets"
	"github.com/goliatone/go-blogpub/internal/urls"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

// DefaultConfigFile is read from the working directory when no -config flag
// is given. It is optional.
const DefaultConfigFile = "blogpub.toml"

// Options captures CLI input.
type Options struct {
	ConfigPath     string
	Lookup         runtimeconfig.LookupFunc
	LoggerProvider interfaces.LoggerProvider
	// Runner replaces the os/exec runner used for git and hugo.
	Runner sitegen.CommandRunner
	// HTTPClient replaces the client used for the remote API.
	HTTPClient hashnode.Doer
}

// Paths holds the absolute locations derived from the configuration.
type Paths struct {
	RepoRoot string
	Source   string
	Content  string
	Docs     string
}

// Module carries the shared collaborators of every binary.
type Module struct {
	Config   runtimeconfig.Config
	Paths    Paths
	Provider interfaces.LoggerProvider
	Logger   interfaces.Logger
	Store    *frontmatter.FileStore

	runner     sitegen.CommandRunner
	httpClient hashnode.Doer
	db         *bun.DB
}

// Build loads the configuration and prepares logging and paths.
func Build(opts Options) (*Module, error) {
	path, optional := opts.ConfigPath, false
	if strings.TrimSpace(path) == "" {
		path, optional = DefaultConfigFile, true
	}
	cfg, err := runtimeconfig.Load(path, optional)
	if err != nil {
		return nil, err
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg.ApplyEnv(lookup)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	paths, err := resolvePaths(cfg.Paths)
	if err != nil {
		return nil, err
	}

	provider := opts.LoggerProvider
	if provider == nil {
		goProvider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("configure logging: %w", err)
		}
		provider = goProvider
	}

	runner := opts.Runner
	if runner == nil {
		runner = sitegen.ExecRunner{}
	}

	return &Module{
		Config:     cfg,
		Paths:      paths,
		Provider:   provider,
		Logger:     logging.PublishLogger(provider),
		Store:      frontmatter.NewFileStore(),
		runner:     runner,
		httpClient: opts.HTTPClient,
	}, nil
}

// Close releases the ledger database when one was opened.
func (m *Module) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// Walker returns a walker over the source tree.
func (m *Module) Walker(warnMissingIndex bool) *discovery.Walker {
	return discovery.NewWalker(discovery.WalkerConfig{
		Root:             m.Paths.Source,
		IndexName:        m.Config.Paths.Index,
		WarnMissingIndex: warnMissingIndex,
		Logger:           logging.DiscoveryLogger(m.Provider),
	})
}

// PagesFactory builds mirror publishers.
func (m *Module) PagesFactory() publishcmd.RunnerFactory {
	return func(opts publishcmd.RunOptions) (publishcmd.Runner, error) {
		git := sitegen.NewGit(sitegen.GitConfig{
			RepoRoot: m.Paths.RepoRoot,
			Remote:   m.Config.Pages.Remote,
			Branch:   m.Config.Pages.Branch,
			Runner:   m.runner,
			Logger:   m.Logger,
		})
		hugo := sitegen.NewHugo(sitegen.HugoConfig{
			RepoRoot:  m.Paths.RepoRoot,
			OutputDir: m.Paths.Docs,
			Binary:    m.Config.Pages.Hugo,
			Runner:    m.runner,
		})
		return publish.NewMirrorPublisher(publish.MirrorConfig{
			Target:     targets.Pages(),
			Posts:      publish.OnlyPosts(m.Walker(false), opts.Posts),
			Documents:  m.Store,
			MirrorRoot: m.Paths.Content,
			VCS:        git,
			Builder:    hugo,
			Status:     status.NewUpdater(m.Store, m.Logger),
			Branch:     m.Config.Pages.Branch,
			DryRun:     opts.DryRun,
			Logger:     m.Logger,
		}), nil
	}
}

// PreviewFactory builds preview syncers.
func (m *Module) PreviewFactory() publishcmd.RunnerFactory {
	return func(opts publishcmd.RunOptions) (publishcmd.Runner, error) {
		return publish.NewPreviewSyncer(publish.PreviewConfig{
			Target:     targets.Pages(),
			Posts:      publish.OnlyPosts(m.Walker(true), opts.Posts),
			Documents:  m.Store,
			Syncer:     sitegen.FolderSync{},
			MirrorRoot: m.Paths.Content,
			Logger:     m.Logger,
		}), nil
	}
}

// HashnodeFactory validates the remote settings, opens the ledger and
// returns a factory building remote publishers.
func (m *Module) HashnodeFactory(ctx context.Context) (publishcmd.RunnerFactory, error) {
	cfg := m.Config
	if err := cfg.ValidateRemote(); err != nil {
		return nil, err
	}

	resolver, err := urls.New(urls.Config{
		PagesBaseURL:  cfg.Pages.Host,
		BlogSlug:      cfg.Pages.BlogSlug,
		RemoteBaseURL: cfg.Hashnode.Host,
	})
	if err != nil {
		return nil, err
	}

	repo, err := m.openLedger(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := m.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(cfg.Hashnode.TimeoutSeconds) * time.Second}
	}
	client := hashnode.NewClient(hashnode.ClientConfig{
		Endpoint:   cfg.Hashnode.Endpoint,
		Token:      cfg.Hashnode.Token,
		HTTPClient: httpClient,
		Logger:     m.Logger,
	})

	target := targets.Hashnode(targets.HashnodeOptions{
		RequireMirrorPublished: cfg.Hashnode.RequireMirrorPublished,
	})

	return func(opts publishcmd.RunOptions) (publishcmd.Runner, error) {
		walker := m.Walker(false)
		rewriter := rewrite.New(rewrite.Config{
			Posts:     walker,
			Documents: m.Store,
			IDField:   target.IDField,
			RemoteURL: resolver.RemotePost,
			Logger:    logging.RewriteLogger(m.Provider),
		})
		return publish.NewRemotePublisher(publish.RemoteConfig{
			Target:    target,
			Host:      cfg.Hashnode.Host,
			Posts:     publish.OnlyPosts(walker, opts.Posts),
			Documents: m.Store,
			Rewriter:  rewriter,
			URLs:      resolver,
			API:       client,
			Status:    status.NewUpdater(m.Store, m.Logger),
			Ledger:    repo,
			DryRun:    opts.DryRun,
			Resubmit:  opts.Resubmit,
			Logger:    m.Logger,
		}), nil
	}, nil
}

func (m *Module) openLedger(ctx context.Context) (ledger.Repository, error) {
	path := strings.TrimSpace(m.Config.Ledger.Path)
	if path == "" {
		logging.LedgerLogger(m.Provider).Warn("ledger.memory", "reason", "no ledger path configured")
		return ledger.NewMemoryRepository(), nil
	}
	if path != ":memory:" && !filepath.IsAbs(path) {
		path = filepath.Join(m.Paths.RepoRoot, path)
	}
	db, err := ledger.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	m.db = db
	return ledger.NewBunRepository(db), nil
}

func resolvePaths(cfg runtimeconfig.PathsConfig) (Paths, error) {
	root, err := filepath.Abs(strings.TrimSpace(cfg.RepoRoot))
	if err != nil {
		return Paths{}, fmt.Errorf("resolve repository root: %w", err)
	}
	join := func(value string) string {
		value = filepath.FromSlash(strings.TrimSpace(value))
		if filepath.IsAbs(value) {
			return filepath.Clean(value)
		}
		return filepath.Join(root, value)
	}
	return Paths{
		RepoRoot: root,
		Source:   join(cfg.Source),
		Content:  join(cfg.Content),
		Docs:     join(cfg.Docs),
	}, nil
}
