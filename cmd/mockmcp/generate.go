package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/MegaGrindStone/go-mockmcp/internal/config"
	"github.com/MegaGrindStone/go-mockmcp/internal/datagen"
)

func newGenerateCmd() *cobra.Command {
	var (
		seed     int64
		baseDate string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "generate [server...]",
		Short: "Write deterministic sample datasets for the selected servers",
		Long: "Generate writes one dataset file per selected server (all of them when\n" +
			"none are named). Output is fully determined by the seed and base date, so\n" +
			"two runs with equal flags produce byte-identical files.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.DataDir = out
			}

			selected, err := resolveDomains(args)
			if err != nil {
				return err
			}

			base, err := time.Parse("2006-01-02", baseDate)
			if err != nil {
				return fmt.Errorf("invalid base date %q: %w", baseDate, err)
			}

			if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			g := datagen.New(seed, base)
			for _, d := range selected {
				path := filepath.Join(cfg.DataDir, d.datasetFile)
				if err := d.generate(cmd.Context(), path, g); err != nil {
					return fmt.Errorf("failed to generate %s dataset: %w", d.name, err)
				}
				cmd.Printf("wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&baseDate, "base-date", "2025-01-01", "base date all generated times derive from")
	cmd.Flags().StringVar(&out, "out", "", "output directory (defaults to the configured data_dir)")

	return cmd
}
