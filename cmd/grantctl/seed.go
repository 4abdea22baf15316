package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"grantledger/internal/app"
	"grantledger/internal/logger"
	"grantledger/internal/seed"
)

var (
	flagSeedProjects int
	flagSeedForce    bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the demo dataset to the configured storage backend",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&flagSeedProjects, "projects", 3, "Number of demo projects")
	seedCmd.Flags().BoolVar(&flagSeedForce, "force", false, "Overwrite an existing ledger")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if flagSeedProjects < 1 {
		return fmt.Errorf("--projects must be at least 1")
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	if _, found, err := storage.Repo.Load(ctx); err != nil {
		return err
	} else if found && !flagSeedForce {
		return fmt.Errorf("storage already holds a ledger; rerun with --force to overwrite")
	}

	snap, users := seed.Demo(flagSeedProjects, time.Now().UTC())
	if err := storage.Repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save demo data: %w", err)
	}

	logger.Get().Infow("Demo data written",
		"backend", cfg.StorageBackend,
		"projects", len(snap.Projects),
		"budget_items", len(snap.BudgetItems),
	)
	for _, u := range users {
		fmt.Printf("  %-10s %-9s %s\n", u.Username, u.Role, u.AssignedProjectID)
	}
	return nil
}
