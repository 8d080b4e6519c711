package main

import (
	"context"
	"fmt"
	"os"

	"github.com/capricorn-med/litreview/internal/config"
	"github.com/capricorn-med/litreview/internal/store"
	"github.com/capricorn-med/litreview/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed [journal-impact-csv]",
	Short: "Seed the journal impact table from a csv of title,sjr pairs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.InitLog(zap.NewAtomicLevelAt(zap.InfoLevel))
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalf("reading configuration: %v", err)
		}

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalf("running initial migration: %v", err)
		}

		return seedJournalImpact(cmd.Context(), s, args[0])
	},
}

func seedJournalImpact(ctx context.Context, s store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open journal impact file: %w", err)
	}
	defer f.Close()

	seeded, err := s.JournalImpact().Seed(ctx, f)
	if err != nil {
		return err
	}

	zap.S().Infof("seeded %d journal impact scores from %s", seeded, path)
	return nil
}
