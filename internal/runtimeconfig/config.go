package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	ErrRepoRootRequired       = errors.New("blogpub config: repository root is required")
	ErrSourceDirRequired      = errors.New("blogpub config: source directory is required")
	ErrContentDirRequired     = errors.New("blogpub config: mirror content directory is required")
	ErrDocsDirRequired        = errors.New("blogpub config: docs output directory is required")
	ErrPagesHostRequired      = errors.New("blogpub config: pages host is required")
	ErrPagesHostInvalid       = errors.New("blogpub config: pages host is invalid")
	ErrHashnodeTokenRequired  = errors.New("blogpub config: hashnode token is required")
	ErrHashnodeHostRequired   = errors.New("blogpub config: hashnode host is required")
	ErrHashnodeEndpointFormat = errors.New("blogpub config: hashnode endpoint must be a URL")
	ErrLoggingLevelInvalid    = errors.New("blogpub config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("blogpub config: logging format is invalid")
)

// Config holds everything the publisher binaries need. It is built once at
// startup and handed to constructors.
type Config struct {
	Paths    PathsConfig    `toml:"paths"`
	Pages    PagesConfig    `toml:"pages"`
	Hashnode HashnodeConfig `toml:"hashnode"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Logging  LoggingConfig  `toml:"logging"`
}

// PathsConfig locates the source tree, the mirror and the generated site.
// Relative paths are resolved against RepoRoot.
type PathsConfig struct {
	RepoRoot string `toml:"repo_root"`
	Source   string `toml:"source"`
	Content  string `toml:"content"`
	Docs     string `toml:"docs"`
	Index    string `toml:"index"`
}

// PagesConfig describes the static site mirror.
type PagesConfig struct {
	Host     string `toml:"host"`
	BlogSlug string `toml:"blog_slug"`
	Branch   string `toml:"branch"`
	Remote   string `toml:"remote"`
	Hugo     string `toml:"hugo"`
}

// HashnodeConfig describes the remote publishing API.
type HashnodeConfig struct {
	Endpoint string `toml:"endpoint"`
	Token    string `toml:"token"`
	Host     string `toml:"host"`
	// RequireMirrorPublished only submits posts already live on the mirror.
	RequireMirrorPublished bool `toml:"require_mirror_published"`
	TimeoutSeconds         int  `toml:"timeout_seconds"`
}

// LedgerConfig points at the sqlite file recording remote submissions. An
// empty path keeps the ledger in memory.
type LedgerConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig captures options for the go-logger provider.
type LoggingConfig struct {
	Level     string   `toml:"level"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// DefaultConfig returns defaults matching the usual repository layout:
// posts under blog-posts, the Hugo mirror under content/posts and the built
// site under docs.
func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			RepoRoot: ".",
			Source:   "blog-posts",
			Content:  "content/posts",
			Docs:     "docs",
			Index:    "index.md",
		},
		Pages: PagesConfig{
			Branch: "main",
			Remote: "origin",
			Hugo:   "hugo",
		},
		Hashnode: HashnodeConfig{
			Endpoint:               "https://gql.hashnode.com",
			RequireMirrorPublished: true,
			TimeoutSeconds:         30,
		},
		Ledger: LedgerConfig{
			Path: ".blogpub/ledger.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the settings every binary relies on.
func (cfg Config) Validate() error {
	if blank(cfg.Paths.RepoRoot) {
		return ErrRepoRootRequired
	}
	if blank(cfg.Paths.Source) {
		return ErrSourceDirRequired
	}
	if blank(cfg.Paths.Content) {
		return ErrContentDirRequired
	}
	if blank(cfg.Paths.Docs) {
		return ErrDocsDirRequired
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

// ValidatePages checks what building canonical mirror URLs needs.
func (cfg Config) ValidatePages() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if blank(cfg.Pages.Host) {
		return ErrPagesHostRequired
	}
	if err := validation.Validate(hostOnly(cfg.Pages.Host), is.Host); err != nil {
		return fmt.Errorf("%w: %s", ErrPagesHostInvalid, cfg.Pages.Host)
	}
	return nil
}

// ValidateRemote checks what talking to the remote API needs on top of the
// mirror settings used for canonical URLs.
func (cfg Config) ValidateRemote() error {
	if err := cfg.ValidatePages(); err != nil {
		return err
	}
	if blank(cfg.Hashnode.Token) {
		return ErrHashnodeTokenRequired
	}
	if blank(cfg.Hashnode.Host) {
		return ErrHashnodeHostRequired
	}
	if endpoint := strings.TrimSpace(cfg.Hashnode.Endpoint); endpoint != "" {
		if err := validation.Validate(endpoint, is.URL); err != nil {
			return fmt.Errorf("%w: %s", ErrHashnodeEndpointFormat, endpoint)
		}
	}
	return nil
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// hostOnly strips a scheme and path so hosts may be configured either way.
func hostOnly(value string) string {
	value = strings.TrimSpace(value)
	if _, rest, ok := strings.Cut(value, "://"); ok {
		value = rest
	}
	host, _, _ := strings.Cut(value, "/")
	return host
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
