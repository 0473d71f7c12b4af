package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/config"
)

func newCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <server> <tool> [json-args]",
		Short: "Call one tool through an in-process session and print its result",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			selected, err := resolveDomains(args[:1])
			if err != nil {
				return err
			}

			toolArgs := json.RawMessage("{}")
			if len(args) == 3 {
				if !json.Valid([]byte(args[2])) {
					return fmt.Errorf("arguments are not valid JSON: %s", args[2])
				}
				toolArgs = json.RawMessage(args[2])
			}

			return callTool(cmd, cfg, selected[0], args[1], toolArgs)
		},
	}

	return cmd
}

// callTool runs the domain server and a client in-process, wired over piped
// stdio transports, and prints the tool result.
func callTool(cmd *cobra.Command, cfg config.Config, d domain, tool string, args json.RawMessage) error {
	srvReader, srvWriter := io.Pipe()
	cliReader, cliWriter := io.Pipe()

	cliIO := mockmcp.NewStdIO(cliReader, srvWriter)
	srvIO := mockmcp.NewStdIO(srvReader, cliWriter)

	toolSet, err := buildToolSet(cfg, []domain{d}, nil)
	if err != nil {
		return err
	}
	defer toolSet.Close()

	srv := mockmcp.NewServer(mockmcp.Info{Name: d.name, Version: serverVersion}, srvIO,
		mockmcp.WithToolServer(toolSet),
	)
	go srv.Serve()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			cmd.PrintErrf("failed to shutdown server: %v\n", err)
		}
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	cli := mockmcp.NewClient(mockmcp.Info{Name: "mockmcp-cli", Version: serverVersion}, cliIO)
	if err := cli.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		if err := cli.Disconnect(context.Background()); err != nil {
			cmd.PrintErrf("failed to disconnect: %v\n", err)
		}
	}()

	result, err := cli.CallTool(ctx, mockmcp.CallToolParams{
		Name:      tool,
		Arguments: args,
	})
	if err != nil {
		return fmt.Errorf("failed to call tool: %w", err)
	}

	for _, content := range result.Content {
		cmd.Println(content.Text)
	}
	if result.IsError {
		return errors.New("tool call failed")
	}
	return nil
}
