package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/kdn/cli"
	"github.com/ardnew/kdn/cli/cmd"
	"github.com/ardnew/kdn/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)

	switch {
	case err == nil:
		return
	case errors.Is(err, cmd.ErrScript):
		// The diagnostic has already been written.
		log.Debug("script failed", slog.Any("error", err))
	default:
		log.Error("run failed", slog.Any("error", err))
	}

	os.Exit(1)
}
