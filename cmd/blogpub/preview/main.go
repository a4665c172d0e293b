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
	if err := runPreview(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("blogpub preview: %v", err)
	}
}

func runPreview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("blogpub-preview", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a TOML config file (defaults to ./blogpub.toml when present)")
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

	handler := publishcmd.NewSyncPreviewHandler(module.PreviewFactory(), commands.CommandLogger(module.Provider, "preview"))
	return handler.Execute(ctx, publishcmd.SyncPreviewCommand{
		Posts: bootstrap.SplitList(*posts),
		ResultCallback: func(report *publish.Report) {
			bootstrap.PrintReport(os.Stdout, report)
		},
	})
}
