package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <file1> <file2>",
		Short: "Semantically compare two dataset files",
		Long: "Diff renders both files in the canonical backing-file format before\n" +
			"comparing, so formatting differences don't count. Exits 1 when the\n" +
			"datasets differ.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := canonicalDataset(args[0])
			if err != nil {
				return err
			}
			right, err := canonicalDataset(args[1])
			if err != nil {
				return err
			}

			if left == right {
				cmd.Println("datasets are identical")
				return nil
			}

			cmd.Print(unifiedDiff(left, right, args[0], args[1]))
			return errors.New("datasets differ")
		},
	}
}

// canonicalDataset renders a dataset file in the canonical backing-file
// format, so key order and whitespace don't show up as differences.
func canonicalDataset(path string) (string, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var v any
	if err := json.Unmarshal(bs, &v); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	canonical, err := dataset.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", path, err)
	}
	return string(canonical), nil
}

func unifiedDiff(left, right, leftName, rightName string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(left, right, true)
	patches := dmp.PatchMake(left, diffs)

	out := fmt.Sprintf("--- %s\n+++ %s\n", leftName, rightName)
	for _, patch := range patches {
		out += dmp.PatchToText([]diffmatchpatch.Patch{patch})
	}
	return out
}
