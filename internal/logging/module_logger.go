package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

const (
	rootModule      = "blogpub"
	discoveryModule = "blogpub.discovery"
	rewriteModule   = "blogpub.rewrite"
	publishModule   = "blogpub.publish"
	ledgerModule    = "blogpub.ledger"
)

const (
	fieldPostPath = "post"
	fieldTarget   = "target"
	fieldRunID    = "run_id"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields a
// no-op logger. The module name is attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// DiscoveryLogger returns the logger used while walking the source tree.
func DiscoveryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, discoveryModule)
}

// RewriteLogger returns the logger used by the content rewriter.
func RewriteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rewriteModule)
}

// PublishLogger returns the logger used by the publish orchestrators.
func PublishLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, publishModule)
}

// LedgerLogger returns the logger used by the publish ledger.
func LedgerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, ledgerModule)
}

// WithPostContext adds the post path, target name and run id to logger.
// Empty values are left out.
func WithPostContext(logger interfaces.Logger, post, target, runID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(post); trimmed != "" {
		fields[fieldPostPath] = trimmed
	}
	if trimmed := strings.TrimSpace(target); trimmed != "" {
		fields[fieldTarget] = trimmed
	}
	if trimmed := strings.TrimSpace(runID); trimmed != "" {
		fields[fieldRunID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
