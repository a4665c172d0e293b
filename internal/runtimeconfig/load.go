package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrUnknownConfigKey is returned when a config file carries keys Config does
// not define.
var ErrUnknownConfigKey = errors.New("blogpub config: unknown key")

// Environment variables read by ApplyEnv.
const (
	EnvHashnodeToken = "HASHNODE_TOKEN"
	EnvHashnodeHost  = "HASHNODE_HOST"
	EnvBlogSlug      = "GITHUB_PAGES_BLOG_SLUG"
	EnvPagesHost     = "GITHUB_PAGES_HOST"
	EnvLogLevel      = "BLOGPUB_LOG_LEVEL"
	EnvLogFormat     = "BLOGPUB_LOG_FORMAT"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads a TOML file over DefaultConfig. An empty path returns the
// defaults. When optional is set a missing file also returns the defaults.
func Load(path string, optional bool) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("blogpub config: read %s: %w", path, err)
	}

	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("blogpub config: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return cfg, fmt.Errorf("%w in %s: %s", ErrUnknownConfigKey, path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the environment values that are set and not
// empty.
func (cfg *Config) ApplyEnv(lookup LookupFunc) {
	if cfg == nil || lookup == nil {
		return
	}
	set := func(key string, dst *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	set(EnvHashnodeToken, &cfg.Hashnode.Token)
	set(EnvHashnodeHost, &cfg.Hashnode.Host)
	set(EnvBlogSlug, &cfg.Pages.BlogSlug)
	set(EnvPagesHost, &cfg.Pages.Host)
	set(EnvLogLevel, &cfg.Logging.Level)
	set(EnvLogFormat, &cfg.Logging.Format)
}
