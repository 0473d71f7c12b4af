package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/ucarion/jcs"

	"github.com/MegaGrindStone/go-mockmcp/internal/config"
)

func newValidateCmd() *cobra.Command {
	var (
		datasetDir string
		pattern    string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate dataset files against their domain contracts",
		Long: "Validate discovers dataset files under the dataset directory, loads each\n" +
			"recognized one through its domain contract, and prints a canonical-JSON\n" +
			"SHA-256 fingerprint per valid dataset. Unrecognized files are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dataset-dir") {
				cfg.DataDir = datasetDir
			}

			return validateDatasets(cmd, cfg, pattern)
		},
	}

	cmd.Flags().StringVar(&datasetDir, "dataset-dir", "", "directory holding the dataset files")
	cmd.Flags().StringVar(&pattern, "pattern", "**/*.json", "glob pattern for dataset discovery")

	return cmd
}

func validateDatasets(cmd *cobra.Command, cfg config.Config, pattern string) error {
	matches, err := doublestar.Glob(os.DirFS(cfg.DataDir), pattern)
	if err != nil {
		return fmt.Errorf("failed to discover datasets: %w", err)
	}

	byFile := make(map[string]domain, len(domains))
	for _, d := range domains {
		byFile[d.datasetFile] = d
		if override := cfg.Servers[d.name].Dataset; override != "" {
			byFile[filepath.Base(override)] = d
		}
	}

	invalid := 0
	checked := 0
	for _, match := range matches {
		name := filepath.Base(match)
		d, ok := byFile[name]
		if !ok {
			continue
		}
		checked++

		bs, err := os.ReadFile(filepath.Join(cfg.DataDir, match))
		if err != nil {
			cmd.PrintErrf("%s: failed to read: %v\n", match, err)
			invalid++
			continue
		}

		if err := d.check(name, bs); err != nil {
			cmd.PrintErrf("%s: %v\n", match, err)
			invalid++
			continue
		}

		fingerprint, err := datasetFingerprint(bs)
		if err != nil {
			cmd.PrintErrf("%s: failed to fingerprint: %v\n", match, err)
			invalid++
			continue
		}
		cmd.Printf("%s: ok sha256:%s\n", match, fingerprint)
	}

	if checked == 0 {
		cmd.Println("no recognized dataset files found")
	}
	if invalid > 0 {
		return fmt.Errorf("%d invalid dataset(s)", invalid)
	}
	return nil
}

// datasetFingerprint hashes the RFC 8785 canonical form of a dataset, so
// formatting and key order don't change the fingerprint.
func datasetFingerprint(bs []byte) (string, error) {
	var normalized any
	if err := json.Unmarshal(bs, &normalized); err != nil {
		return "", err
	}

	canonical, err := jcs.Format(normalized)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:]), nil
}
