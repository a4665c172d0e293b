package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/goliatone/go-blogpub/cmd/blogpub/internal/bootstrap"
	"github.com/goliatone/go-blogpub/internal/commands"
	publishcmd "github.com/goliatone/go-blogpub/internal/commands/publish"
	"github.com/goliatone/go-blogpub/internal/publish"
)

var moduleBuilder = bootstrap.Build

func main() {
	if err := runHashnode(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("blogpub hashnode: %v", err)
	}
}

func runHashnode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("blogpub-hashnode", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a TOML config file (defaults to ./blogpub.toml when present)")
	dryRun := fs.Bool("dry-run", false, "Assemble payloads without submitting or writing frontmatter")
	posts := fs.String("posts", "", "Comma separated YYYY/MM/slug paths to limit the run to")
	resubmit := fs.Bool("resubmit", false, "Submit eligible posts again even when the ledger records an earlier submission")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{ConfigPath: *configPath})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer module.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	factory, err := module.HashnodeFactory(ctx)
	if err != nil {
		return fmt.Errorf("configure remote publisher: %w", err)
	}

	handler := publishcmd.NewPublishHashnodeHandler(factory, commands.CommandLogger(module.Provider, "hashnode"))
	return handler.Execute(ctx, publishcmd.PublishHashnodeCommand{
		Posts:    bootstrap.SplitList(*posts),
		DryRun:   *dryRun,
		Resubmit: *resubmit,
		ResultCallback: func(report *publish.Report) {
			bootstrap.PrintReport(os.Stdout, report)
		},
	})
}
