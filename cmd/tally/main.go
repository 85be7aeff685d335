package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tally/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand(commands.DefaultOpener).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
