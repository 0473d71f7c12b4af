package mockmcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/MegaGrindStone/go-mockmcp"
)

// newEchoToolSet builds a small registry used across the transport and
// session tests: an echo tool with a required argument and a tool that
// always fails in-band.
func newEchoToolSet(t *testing.T) *mockmcp.ToolSet {
	t.Helper()

	ts := mockmcp.NewToolSet()

	ts.MustRegister(mockmcp.Tool{
		Name:        "echo",
		Description: "Echo the given text back.",
		InputSchema: []byte(`{
		  "type": "object",
		  "properties": { "text": { "type": "string" } },
		  "required": ["text"]
		}`),
	}, func(_ context.Context, args json.RawMessage) (any, error) {
		var params struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, err
		}
		return map[string]string{"echo": params.Text}, nil
	})

	ts.MustRegister(mockmcp.Tool{
		Name:        "always_fail",
		Description: "Fail every call.",
	}, func(context.Context, json.RawMessage) (any, error) {
		return nil, fmt.Errorf("this tool always fails")
	})

	return ts
}

type logCollector struct {
	mu     sync.Mutex
	params []mockmcp.LogParams
}

func (l *logCollector) OnLog(params mockmcp.LogParams) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.params = append(l.params, params)
}

func (l *logCollector) collected() []mockmcp.LogParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]mockmcp.LogParams(nil), l.params...)
}

// startStdIOSession wires a server and a connected client over in-process
// pipes. Cleanup disconnects the client and shuts the server down.
func startStdIOSession(
	t *testing.T,
	serverOptions []mockmcp.ServerOption,
	clientOptions []mockmcp.ClientOption,
) *mockmcp.Client {
	t.Helper()

	srvReader, srvWriter := io.Pipe()
	cliReader, cliWriter := io.Pipe()

	cliIO := mockmcp.NewStdIO(cliReader, srvWriter)
	srvIO := mockmcp.NewStdIO(srvReader, cliWriter)

	srv := mockmcp.NewServer(mockmcp.Info{Name: "test-server", Version: "1.0"}, srvIO, serverOptions...)
	go srv.Serve()

	cli := mockmcp.NewClient(mockmcp.Info{Name: "test-client", Version: "1.0"}, cliIO, clientOptions...)

	connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Connect(connectCtx); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cli.Disconnect(ctx); err != nil {
			t.Errorf("failed to disconnect client: %v", err)
		}
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("failed to shutdown server: %v", err)
		}
	})

	return cli
}

func TestEndToEndToolCall(t *testing.T) {
	ts := newEchoToolSet(t)
	defer ts.Close()

	cli := startStdIOSession(t, []mockmcp.ServerOption{
		mockmcp.WithToolServer(ts),
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	list, err := cli.ListTools(ctx, mockmcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("failed to list tools: %v", err)
	}
	if len(list.Tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(list.Tools))
	}

	result, err := cli.CallTool(ctx, mockmcp.CallToolParams{
		Name:      "echo",
		Arguments: json.RawMessage(`{"text":"ping"}`),
	})
	if err != nil {
		t.Fatalf("failed to call tool: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", result.Content[0].Text)
	}

	var body struct {
		Echo string `json:"echo"`
	}
	if err := json.Unmarshal([]byte(result.Content[0].Text), &body); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if body.Echo != "ping" {
		t.Errorf("expected ping, got %q", body.Echo)
	}
}

func TestEndToEndToolError(t *testing.T) {
	ts := newEchoToolSet(t)
	defer ts.Close()

	cli := startStdIOSession(t, []mockmcp.ServerOption{
		mockmcp.WithToolServer(ts),
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := cli.CallTool(ctx, mockmcp.CallToolParams{Name: "always_fail"})
	if err != nil {
		t.Fatalf("expected in-band error, got protocol error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected failed tool result")
	}

	// An unknown tool is a protocol-level failure, not an in-band one.
	if _, err := cli.CallTool(ctx, mockmcp.CallToolParams{Name: "no_such_tool"}); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestEndToEndLogStreaming(t *testing.T) {
	ts := newEchoToolSet(t)
	defer ts.Close()

	logStream := mockmcp.NewLogStream("test")
	defer logStream.Close()

	collector := &logCollector{}
	cli := startStdIOSession(t, []mockmcp.ServerOption{
		mockmcp.WithToolServer(ts),
		mockmcp.WithLogHandler(logStream),
	}, []mockmcp.ClientOption{
		mockmcp.WithLogReceiver(collector),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cli.SetLogLevel(ctx, mockmcp.LogLevelDebug); err != nil {
		t.Fatalf("failed to set log level: %v", err)
	}

	// Give the level change a moment to land before emitting.
	time.Sleep(100 * time.Millisecond)
	logStream.Log(mockmcp.LogLevelDebug, "dataset loaded")

	deadline := time.After(5 * time.Second)
	for {
		if params := collector.collected(); len(params) > 0 {
			if params[0].Logger != "test" {
				t.Errorf("expected logger name test, got %q", params[0].Logger)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for log message")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
