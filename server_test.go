package mockmcp_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/MegaGrindStone/go-mockmcp"
)

func TestServerInfoPropagation(t *testing.T) {
	ts := newEchoToolSet(t)
	defer ts.Close()

	cli := startStdIOSession(t, []mockmcp.ServerOption{
		mockmcp.WithToolServer(ts),
	}, nil)

	info := cli.ServerInfo()
	if info.Name != "test-server" || info.Version != "1.0" {
		t.Errorf("unexpected server info: %+v", info)
	}
}

func TestServerWithoutToolSupport(t *testing.T) {
	cli := startStdIOSession(t, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := cli.ListTools(ctx, mockmcp.ListToolsParams{}); err == nil {
		t.Error("expected error when server has no tool support")
	}
	if err := cli.SetLogLevel(ctx, mockmcp.LogLevelDebug); err == nil {
		t.Error("expected error when server has no logging support")
	}
}

func TestServerShutdownWithoutClient(t *testing.T) {
	srvReader, _ := io.Pipe()
	_, cliWriter := io.Pipe()

	srv := mockmcp.NewServer(mockmcp.Info{Name: "idle", Version: "1.0"},
		mockmcp.NewStdIO(srvReader, cliWriter))
	go srv.Serve()

	// Give the session loop a moment to start before tearing it down.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("failed to shutdown idle server: %v", err)
	}
}
