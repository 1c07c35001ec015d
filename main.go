package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/cadl/cli"
	"github.com/ardnew/cadl/log"
)

func main() {
	if err := cli.Run(context.Background(), os.Exit, os.Args[1:]...); err != nil {
		// slog renders the error through its LogValue()
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
