package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gunvolt24/orders_ingest/pkg/logger"
	"github.com/Gunvolt24/orders_ingest/pkg/validate"
)

// CLI: проверяет файл с телами заказов ({"orderId": "..."}) по тем же правилам,
// что и POST /orders, и печатает валидные записи в каноническом виде.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	level := flag.String("log-level", "info", "log level for diagnostics on stderr")
	flag.Parse()

	logg, cleanup, err := logger.NewZapLoggerTo(os.Stderr, false, *level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = cleanup() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := *inputPath
	format := validate.InputFormat(*formatStr)
	// stdin: считаем, что jsonl
	if path == "" {
		path = "/dev/stdin"
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
	}

	summary, err := validate.ValidateFile(ctx, validate.NewOrderValidator(), path, format, os.Stdout)
	if err != nil {
		logg.Errorf(ctx, "validation failed file=%s err=%v summary=%s", path, err, summary)
		stop()
		_ = cleanup()
		os.Exit(1)
	}
	logg.Infof(ctx, "validation ok file=%s summary=%s", path, summary)
}
