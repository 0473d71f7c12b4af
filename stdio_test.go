package mockmcp_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/MegaGrindStone/go-mockmcp"
)

func TestStdIOSendReceive(t *testing.T) {
	// Two pipe pairs wire a "client" and a "server" transport together the
	// same way the CLI does it in-process.
	srvReader, srvWriter := io.Pipe()
	cliReader, cliWriter := io.Pipe()

	cliIO := mockmcp.NewStdIO(cliReader, srvWriter)
	srvIO := mockmcp.NewStdIO(srvReader, cliWriter)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cliSession, err := cliIO.StartSession(ctx)
	if err != nil {
		t.Fatalf("failed to start client session: %v", err)
	}
	srvSession, err := srvIO.StartSession(ctx)
	if err != nil {
		t.Fatalf("failed to start server session: %v", err)
	}
	defer cliSession.Stop()
	defer srvSession.Stop()

	if cliSession.ID() == "" || cliSession.ID() == srvSession.ID() {
		t.Errorf("expected distinct non-empty session ids, got %q and %q",
			cliSession.ID(), srvSession.ID())
	}

	received := make(chan mockmcp.JSONRPCMessage, 2)
	go func() {
		for msg := range srvSession.Messages() {
			received <- msg
		}
	}()
	// The client side sends only, but its message loop still has to run so
	// Stop can tear the session down.
	go func() {
		for range cliSession.Messages() {
		}
	}()

	// Two messages in sequence verify the newline framing.
	for _, id := range []mockmcp.MustString{"1", "2"} {
		if err := cliSession.Send(ctx, mockmcp.JSONRPCMessage{
			JSONRPC: mockmcp.JSONRPCVersion,
			ID:      id,
			Method:  "ping",
		}); err != nil {
			t.Fatalf("failed to send message %s: %v", id, err)
		}
	}

	for _, want := range []mockmcp.MustString{"1", "2"} {
		select {
		case msg := <-received:
			if msg.ID != want {
				t.Errorf("expected message id %s, got %s", want, msg.ID)
			}
			if msg.Method != "ping" {
				t.Errorf("expected method ping, got %s", msg.Method)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for message")
		}
	}
}

func TestStdIOMessagesEndOnEOF(t *testing.T) {
	reader, writer := io.Pipe()
	transport := mockmcp.NewStdIO(reader, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := transport.StartSession(ctx)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	defer session.Stop()

	ended := make(chan struct{})
	go func() {
		for range session.Messages() {
		}
		close(ended)
	}()

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	select {
	case <-ended:
	case <-ctx.Done():
		t.Fatal("message iterator did not end on EOF")
	}
}

func TestStdIOSkipsMalformedLines(t *testing.T) {
	reader, writer := io.Pipe()
	transport := mockmcp.NewStdIO(reader, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := transport.StartSession(ctx)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	defer session.Stop()

	received := make(chan mockmcp.JSONRPCMessage, 1)
	go func() {
		for msg := range session.Messages() {
			received <- msg
		}
	}()

	go func() {
		_, _ = writer.Write([]byte("not json\n"))
		_, _ = writer.Write([]byte(`{"jsonrpc":"2.0","id":"7","method":"ping"}` + "\n"))
	}()

	select {
	case msg := <-received:
		if msg.ID != mockmcp.MustString("7") {
			t.Errorf("expected id 7, got %s", msg.ID)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for valid message after malformed line")
	}
}
