package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/config"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

func newToolsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools [server...]",
		Short: "List the tools the selected servers expose",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			selected, err := resolveDomains(args)
			if err != nil {
				return err
			}

			toolSet, err := buildToolSet(cfg, selected, nil)
			if err != nil {
				return err
			}
			defer toolSet.Close()

			result, err := toolSet.ListTools(cmd.Context(), mockmcp.ListToolsParams{})
			if err != nil {
				return fmt.Errorf("failed to list tools: %w", err)
			}

			if asJSON {
				bs, err := dataset.Marshal(result.Tools)
				if err != nil {
					return fmt.Errorf("failed to marshal tools: %w", err)
				}
				cmd.Print(string(bs))
				return nil
			}

			printToolTable(cmd, result.Tools)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full tool definitions as JSON")

	return cmd
}

func printToolTable(cmd *cobra.Command, tools []mockmcp.Tool) {
	width := 0
	for _, tool := range tools {
		if len(tool.Name) > width {
			width = len(tool.Name)
		}
	}
	for _, tool := range tools {
		description, _, _ := strings.Cut(tool.Description, "\n")
		cmd.Printf("%-*s  %s\n", width, tool.Name, description)
	}
}
