// Package urls builds the public addresses of posts on the mirror and on the
// remote host.
package urls

import (
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-blogpub/internal/discovery"
)

const (
	pagesGroup  = "pages"
	remoteGroup = "remote"
	postRoute   = "post"
)

// Config holds the hosts posts are served from.
type Config struct {
	// PagesBaseURL is the mirror origin, for example https://user.github.io.
	PagesBaseURL string
	// BlogSlug is the first path segment of the mirror site.
	BlogSlug string
	// RemoteBaseURL is the remote host origin, for example
	// https://blog.example.dev.
	RemoteBaseURL string
}

// Resolver builds post URLs through a go-urlkit route manager.
type Resolver struct {
	manager *urlkit.RouteManager
}

// New validates cfg and registers the mirror and remote route groups.
func New(cfg Config) (*Resolver, error) {
	pagesBase, err := normalizeBaseURL(cfg.PagesBaseURL)
	if err != nil {
		return nil, fmt.Errorf("urls: pages base url: %w", err)
	}

	postPath := "/posts/:year/:month/:slug"
	if blog := strings.Trim(strings.TrimSpace(cfg.BlogSlug), "/"); blog != "" {
		postPath = "/" + blog + postPath
	}

	groups := []urlkit.GroupConfig{{
		Name:    pagesGroup,
		BaseURL: pagesBase,
		Paths:   map[string]string{postRoute: postPath},
	}}

	if strings.TrimSpace(cfg.RemoteBaseURL) != "" {
		remoteBase, err := normalizeBaseURL(cfg.RemoteBaseURL)
		if err != nil {
			return nil, fmt.Errorf("urls: remote base url: %w", err)
		}
		groups = append(groups, urlkit.GroupConfig{
			Name:    remoteGroup,
			BaseURL: remoteBase,
			Paths:   map[string]string{postRoute: "/:slug"},
		})
	}

	return &Resolver{manager: urlkit.NewRouteManager(&urlkit.Config{Groups: groups})}, nil
}

// Canonical returns the mirror URL of post with a trailing slash. Relative
// asset references are appended to it unchanged.
func (r *Resolver) Canonical(post discovery.Post) (string, error) {
	url, err := r.build(pagesGroup, map[string]any{
		"year":  post.Year,
		"month": post.Month,
		"slug":  post.Slug,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(url, "/") + "/", nil
}

// RemotePost returns the remote URL for a post published under slug.
func (r *Resolver) RemotePost(slug string) (string, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return "", fmt.Errorf("urls: remote slug is required")
	}
	return r.build(remoteGroup, map[string]any{"slug": slug})
}

func (r *Resolver) build(groupName string, params map[string]any) (url string, err error) {
	if r == nil || r.manager == nil {
		return "", fmt.Errorf("urls: resolver not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route group %q unavailable: %v", groupName, rec)
		}
	}()

	builder := r.manager.Group(groupName).Builder(postRoute)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	built, err := builder.Build()
	if err != nil {
		return "", err
	}
	return collapseEscaping(built)
}

// collapseEscaping undoes the second round of percent-encoding urlkit applies
// when it joins an already escaped route onto the base URL, so every path
// segment ends up escaped exactly once.
func collapseEscaping(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("urls: parse built url: %w", err)
	}
	path, err := url.PathUnescape(parsed.Path)
	if err != nil {
		return "", fmt.Errorf("urls: unescape built path: %w", err)
	}
	parsed.Path = path
	parsed.RawPath = ""
	return parsed.String(), nil
}

func normalizeBaseURL(raw string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return "", fmt.Errorf("value is required")
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return base, nil
}
