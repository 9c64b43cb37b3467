package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pleimann/rebinder/internal/cli"
)

const Version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, Version)
	stop()
	os.Exit(code)
}
