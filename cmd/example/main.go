// Command busclient-example is a minimal runnable demonstration of
// the busclient library: it connects to a bus, starts a durable
// consumer that just logs every message it sees, and shuts down
// cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	busclient "github.com/foxford/svc-nats-client"
	"github.com/foxford/svc-nats-client/internal/buildinfo"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: busclient.ReplaceLogLevelNames,
	}))

	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Println(buildinfo.String())
		for k, v := range buildinfo.Info() {
			fmt.Printf("  %-12s %s\n", k+":", v)
		}
		return
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: busclient-example -config <path> [version]")
		os.Exit(1)
	}

	if err := run(logger, *configPath); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	cfg, err := busclient.LoadConfig(data)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := busclient.Connect(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Close()

	metrics := busclient.NewMetrics(prometheus.NewRegistry(), "example")

	handler := func(_ context.Context, msg busclient.Message) busclient.Outcome {
		headers, err := busclient.DecodeHeaders(msg.HeaderMap())
		if err != nil {
			return busclient.Permanent(fmt.Errorf("decode headers: %w", err))
		}
		logger.Info("received event",
			"subject", msg.Subject(),
			"event_id", headers.EventID().String(),
			"sender", headers.SenderID().String(),
		)
		return busclient.Processed()
	}

	consumer := busclient.NewConsumer(client, cfg.Consumer, handler,
		busclient.WithLogger(logger),
		busclient.WithMetrics(metrics),
	)

	logger.Info("starting busclient example", "version", buildinfo.Version)
	return consumer.Run(ctx)
}
