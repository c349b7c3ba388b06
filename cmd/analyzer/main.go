package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/es-debug/nginx-latency-report/internal/application/reporter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := reporter.Start(ctx)

	stop()

	if err != nil {
		slog.Error(fmt.Sprintf("reporter.Start(): %s", err))
		os.Exit(1)
	}
}
