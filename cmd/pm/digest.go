package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vkarpov/plantmind/internal/notify"
	"github.com/vkarpov/plantmind/internal/store"
)

func newDigestCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the upcoming diagnostics digest once",
		Long:  "Builds the digest of upcoming diagnostics and posts it to the configured chat platform, then exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "plantmind.yaml", "path to PlantMind config file")
	return cmd
}

func runDigest(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	notifier, err := notify.NewFromConfig(cfg.Notify)
	if err != nil {
		return err
	}
	if notifier == nil {
		return fmt.Errorf("notifications are not configured; set notify.platform in %s", configPath)
	}

	digester := notify.NewDigester(store.New(gormDB), notifier, cfg.Notify.DigestDays)
	if err := digester.SendDigest(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Digest sent")
	return nil
}
