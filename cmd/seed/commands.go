package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/evohome/evohome-cms/config"
	"github.com/evohome/evohome-cms/internal/database"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/internal/seed"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/spf13/cobra"
)

type options struct {
	fixturesDir string
	storage     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "seed",
		Short:         "Load EvoHome fixture content into the document store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.fixturesDir, "fixtures", "", "fixture directory (default: bundled fixtures)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Upsert every fixture; running twice changes nothing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}
	run.Flags().StringVar(&opts.storage, "storage", "", "override STORAGE_DRIVER (postgres, redis, memory)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List fixture files that would be loaded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listFixtures(cmd.OutOrStdout(), opts.fixturesDir)
		},
	}

	root.AddCommand(run, list)
	return root
}

func runSeed(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.storage != "" {
		cfg.Storage.Driver = strings.ToLower(opts.storage)
	}
	if opts.fixturesDir != "" {
		cfg.Seed.FixturesDir = opts.fixturesDir
	}

	if err := logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		Environment: "development",
		ServiceName: "evohome-seed",
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := cmd.Context()
	store, closeStore, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	fixtures, err := seed.Fixtures(cfg.Seed.FixturesDir)
	if err != nil {
		return err
	}

	repo := repository.NewContentRepository(store, cfg.Content.Slots)
	report := seed.NewSeeder(repo, fixtures).Run(ctx)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if report.Failed() {
		return fmt.Errorf("seed finished with failures")
	}
	return nil
}

func listFixtures(w io.Writer, dir string) error {
	fixtures, err := seed.Fixtures(dir)
	if err != nil {
		return err
	}
	names, err := fs.Glob(fixtures, "*.json")
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
