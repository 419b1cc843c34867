package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gesturetoe/internal/app"
	"github.com/ayusman/gesturetoe/internal/game"
	"github.com/ayusman/gesturetoe/internal/mode"
)

func sampleSnapshot() app.Snapshot {
	triple := [3]int{0, 1, 2}
	return app.Snapshot{
		SessionID:     "session-1",
		GameID:        "game-1",
		Frame:         42,
		Width:         640,
		Height:        480,
		Mode:          mode.Playing,
		Board:         game.Board{game.X, game.X, game.X, game.O, game.O},
		Current:       game.O,
		GameOver:      true,
		Outcome:       game.Win.String(),
		Winner:        game.X,
		WinningTriple: &triple,
	}
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "ok", response["status"])
		assert.Contains(t, response, "uptime")
		assert.Equal(t, "menu", response["mode"])
	})

	t.Run("only allows GET method", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "method %s", method)
		}
	})
}

func TestServer_State(t *testing.T) {
	hub := NewHub()
	s := New(Config{Hub: hub})

	t.Run("unavailable before the first frame", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("returns the latest snapshot", func(t *testing.T) {
		// Given: a published snapshot
		hub.Publish(sampleSnapshot(), nil)

		// When: the state is requested
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

		// Then: it comes back as JSON
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "playing", got["mode"])
		assert.Equal(t, "O", got["current"])
		assert.Equal(t, "X", got["winner"])
		assert.Equal(t, true, got["game_over"])
		assert.Equal(t, []any{"X", "X", "X", "O", "O", "", "", "", ""}, got["board"])
		assert.Equal(t, []any{0.0, 1.0, 2.0}, got["winning_triple"])
	})

	t.Run("rejects POST", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/state", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir := t.TempDir()
	page := "<html><body>board</body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(page), 0o644))

	s := New(Config{StaticDir: tmpDir})

	t.Run("serves index.html at root path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, page, rec.Body.String())
	})

	t.Run("returns 404 for non-existent static files", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nonexistent.html", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_NoStaticDir(t *testing.T) {
	s := New(Config{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamHandler(t *testing.T) {
	hub := NewHub()
	s := New(Config{Hub: hub})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.ServeHTTP(rec, req)
	}()

	// Given: a viewer is connected
	require.Eventually(t, func() bool { return hub.Viewers() == 1 }, time.Second, 5*time.Millisecond)

	// When: a frame arrives and the viewer leaves
	hub.publish(sampleSnapshot(), []byte("jpeg-bytes"))
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	// Then: one multipart frame was written
	body := rec.Body.String()
	assert.Equal(t, "multipart/x-mixed-replace; boundary=frame", rec.Header().Get("Content-Type"))
	assert.Equal(t, 1, strings.Count(body, "--frame\r\n"))
	assert.Contains(t, body, "Content-Type: image/jpeg\r\n")
	assert.Contains(t, body, "Content-Length: 10\r\n\r\njpeg-bytes\r\n")
	assert.Zero(t, hub.Viewers())
}

func TestStreamHandler_RejectsPost(t *testing.T) {
	s := New(Config{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stream", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHub_FrameSequence(t *testing.T) {
	hub := NewHub()

	// Given: a snapshot without a frame
	hub.publish(sampleSnapshot(), nil)
	jpeg, seq, _ := hub.frame()
	assert.Nil(t, jpeg)
	assert.Zero(t, seq)
	require.NotNil(t, hub.Latest())

	// When: a frame is published
	_, _, ready := hub.frame()
	hub.publish(sampleSnapshot(), []byte("one"))

	// Then: waiters wake and the sequence advances
	select {
	case <-ready:
	default:
		t.Fatal("stream viewers were not woken")
	}
	jpeg, seq, _ = hub.frame()
	assert.Equal(t, []byte("one"), jpeg)
	assert.Equal(t, uint64(1), seq)

	// And: a later frameless publish keeps the last frame
	hub.publish(sampleSnapshot(), nil)
	jpeg, seq, _ = hub.frame()
	assert.Equal(t, []byte("one"), jpeg)
	assert.Equal(t, uint64(1), seq)
}
