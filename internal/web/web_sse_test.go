package web_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSSE_EndpointHeaders verifies the SSE endpoint returns correct headers
func TestSSE_EndpointHeaders(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createBoard("ABC123")

	req := httptest.NewRequest(http.MethodGet, "/board/ABC123/events", nil)
	ts.cookies.addTo(req)

	// Use a context with timeout since SSE is a long-running connection
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
	assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))
}

// TestSSE_InitialEvents verifies the SSE endpoint sends retry and connected events
func TestSSE_InitialEvents(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createBoard("ABC123")

	req := httptest.NewRequest(http.MethodGet, "/board/ABC123/events", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	body := rr.Body.String()
	assert.Contains(t, body, "retry: 3000")
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `data: {"status":"connected"}`)
}

// TestSSE_UnknownBoard verifies no hub is created for a missing board
func TestSSE_UnknownBoard(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/board/NOPE99/events")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Nil(t, ts.app.HubManager.GetHub("NOPE99"))
}

// TestSSE_ConnectionMountsRunner verifies a watched board gets a stopwatch runner
func TestSSE_ConnectionMountsRunner(t *testing.T) {
	ts := newWebTestServer(t)
	code := ts.createBoard("ABC123")

	req := httptest.NewRequest(http.MethodGet, "/board/ABC123/events", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	ts.handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	assert.True(t, ts.app.Runners.Mounted(code))

	// Once nobody is watching the janitor tears the runner down
	assert.Eventually(t, func() bool {
		ts.app.HubManager.CleanupEmptyHubs()
		return !ts.app.Runners.Mounted(code)
	}, time.Second, 5*time.Millisecond)
}

// sseStream reads events from a live SSE connection
type sseStream struct {
	t       *testing.T
	scanner *bufio.Scanner
	lines   chan string
}

func openStream(t *testing.T, srv *httptest.Server, path string) (*sseStream, func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s := &sseStream{t: t, scanner: bufio.NewScanner(resp.Body), lines: make(chan string, 64)}
	s.scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	go func() {
		defer close(s.lines)
		for s.scanner.Scan() {
			s.lines <- s.scanner.Text()
		}
	}()

	return s, func() {
		cancel()
		_ = resp.Body.Close()
	}
}

// waitForEvent returns the data of the next event with the given name
func (s *sseStream) waitForEvent(name string) string {
	s.t.Helper()
	timeout := time.After(2 * time.Second)
	inEvent := false
	var data []string
	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				s.t.Fatalf("stream closed before %q", name)
			}
			switch {
			case line == "event: "+name:
				inEvent = true
			case inEvent && strings.HasPrefix(line, "data: "):
				data = append(data, strings.TrimPrefix(line, "data: "))
			case inEvent && line == "":
				return strings.Join(data, "\n")
			}
		case <-timeout:
			s.t.Fatalf("timed out waiting for %q", name)
		}
	}
}

// TestSSE_BroadcastsRosterChanges verifies viewers see changes made by others
func TestSSE_BroadcastsRosterChanges(t *testing.T) {
	ts := newWebTestServer(t)
	code := ts.createBoard("ABC123")

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	stream, closeStream := openStream(t, srv, "/board/ABC123/events")
	defer closeStream()
	stream.waitForEvent("connected")

	andrew := ts.players(code)[1]
	_, err := ts.app.RosterController.ChangeScore(t.Context(), code, andrew.ID, 5)
	require.NoError(t, err)

	data := stream.waitForEvent("roster-update")
	doc := parseHTML(strings.NewReader(data))
	assertContainsText(t, doc, `[data-player-id="`+string(andrew.ID)+`"] .counter-score`, "25")
	assertContainsText(t, doc, `#stats-panel [data-stat="total"]`, "106")
}

// TestSSE_BroadcastsStopwatchTicks verifies the runner pushes the clock to viewers
func TestSSE_BroadcastsStopwatchTicks(t *testing.T) {
	ts := newWebTestServer(t)
	code := ts.createBoard("ABC123")

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	stream, closeStream := openStream(t, srv, "/board/ABC123/events")
	defer closeStream()
	stream.waitForEvent("connected")

	_, err := ts.app.StopwatchService.Start(t.Context(), code)
	require.NoError(t, err)
	data := stream.waitForEvent("stopwatch-update")
	assert.Contains(t, data, `data-state="running"`)

	ts.app.MockClock.AdvanceAndTick(time.Second)

	data = stream.waitForEvent("stopwatch-update")
	doc := parseHTML(strings.NewReader(data))
	assertContainsText(t, doc, ".stopwatch-time", "1")
}
