package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vkarpov/plantmind/internal/assistant"
	"github.com/vkarpov/plantmind/internal/notify"
	"github.com/vkarpov/plantmind/internal/server"
	"github.com/vkarpov/plantmind/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the PlantMind API server",
		Long:  "Serves the scheduling, reporting and assistant API, and runs the digest scheduler when notifications are configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "plantmind.yaml", "path to PlantMind config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if port <= 0 {
		port = cfg.Server.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	helper := assistant.New(
		assistant.NewClient(cfg.Assistant.OllamaURL, cfg.Assistant.Model),
		assistant.NewDBHistory(gormDB),
	)

	notifier, err := notify.NewFromConfig(cfg.Notify)
	if err != nil {
		return err
	}
	if notifier != nil {
		digester := notify.NewDigester(store.New(gormDB), notifier, cfg.Notify.DigestDays)
		go func() {
			if err := digester.Run(ctx, cfg.Notify.DigestCron); err != nil {
				log.Printf("digest scheduler stopped: %v", err)
			}
		}()
	}

	return server.Start(ctx, server.StartOpts{
		DB:        gormDB,
		Port:      port,
		Out:       cmd.OutOrStdout(),
		Assistant: helper,
	})
}
