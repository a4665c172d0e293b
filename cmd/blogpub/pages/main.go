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
	if err := runPages(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("blogpub pages: %v", err)
	}
}

func runPages(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("blogpub-pages", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a TOML config file (defaults to ./blogpub.toml when present)")
	dryRun := fs.Bool("dry-run", false, "Run the preflight checks without committing or marking posts")
	posts := fs.String("posts", "", "Comma separated YYYY/MM/slug paths to limit the run to")
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

	handler := publishcmd.NewPublishPagesHandler(module.PagesFactory(), commands.CommandLogger(module.Provider, "pages"))
	err = handler.Execute(ctx, publishcmd.PublishPagesCommand{
		Posts:  bootstrap.SplitList(*posts),
		DryRun: *dryRun,
		ResultCallback: func(report *publish.Report) {
			bootstrap.PrintReport(os.Stdout, report)
		},
	})
	if err != nil {
		bootstrap.PrintPreflight(os.Stderr, err)
		return err
	}
	return nil
}
