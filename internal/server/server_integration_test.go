package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gesturetoe/internal/app"
	"github.com/ayusman/gesturetoe/internal/mode"
)

func dialState(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/state/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) app.Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, kind)

	var raw struct {
		SessionID string `json:"session_id"`
		Frame     uint64 `json:"frame"`
		Mode      string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal(msg, &raw))

	snap := app.Snapshot{SessionID: raw.SessionID, Frame: raw.Frame}
	switch raw.Mode {
	case "menu":
		snap.Mode = mode.Menu
	case "playing":
		snap.Mode = mode.Playing
	case "terminated":
		snap.Mode = mode.Terminated
	}
	return snap
}

func TestStateFeed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// Given: a server with a published snapshot
	hub := NewHub()
	first := sampleSnapshot()
	hub.Publish(first, nil)

	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	// When: a client connects
	conn := dialState(t, ts)

	// Then: it first receives the latest snapshot
	got := readSnapshot(t, conn)
	assert.Equal(t, first.Frame, got.Frame)
	assert.Equal(t, mode.Playing, got.Mode)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	// When: new snapshots are published
	for i := uint64(1); i <= 3; i++ {
		next := first
		next.Frame = first.Frame + i
		next.Mode = mode.Menu
		hub.Publish(next, nil)
	}

	// Then: they arrive in order
	for i := uint64(1); i <= 3; i++ {
		got := readSnapshot(t, conn)
		assert.Equal(t, first.Frame+i, got.Frame)
		assert.Equal(t, mode.Menu, got.Mode)
	}

	// When: the client goes away
	conn.Close()

	// Then: the hub forgets it
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStateFeed_SlowClientDoesNotBlock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	hub := NewHub()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	dialState(t, ts)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	// A client that never reads must not stall the publisher
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10*clientBuffer; i++ {
			snap := sampleSnapshot()
			snap.Frame = uint64(i)
			hub.Publish(snap, nil)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow client")
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- New(Config{}).ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
