package sse

import (
	"sync"
	"testing"
	"time"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "test-event",
			data:      "hello world",
			expected:  "event: test-event\ndata: hello world\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "member-update",
			data:      "<div>\n  <p>line1</p>\n  <p>line2</p>\n</div>",
			expected:  "event: member-update\ndata: <div>\ndata:   <p>line1</p>\ndata:   <p>line2</p>\ndata: </div>\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single line",
			input:    "hello",
			expected: []string{"hello"},
		},
		{
			name:     "two lines",
			input:    "line1\nline2",
			expected: []string{"line1", "line2"},
		},
		{
			name:     "trailing newline",
			input:    "line1\n",
			expected: []string{"line1"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{""},
		},
		{
			name:     "crlf line endings",
			input:    "line1\r\nline2\r\n",
			expected: []string{"line1", "line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("splitLines(%q) returned %d lines, want %d",
					tt.input, len(result), len(tt.expected))
				return
			}
			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q",
						tt.input, i, line, tt.expected[i])
				}
			}
		})
	}
}

func newTestHub() *Hub {
	return NewHub("TESTCODE", testutil.NopLogger(), nil)
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "viewer1")
	if !hub.Register(client) {
		t.Fatal("Register returned false on an open hub")
	}

	// Give the hub time to process registration
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.BroadcastEvent("test-event", "test data")

	select {
	case msg := <-client.send:
		expected := "event: test-event\ndata: test data\n\n"
		if string(msg) != expected {
			t.Errorf("client received %q, want %q", string(msg), expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "viewer1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", hub.ClientCount())
	}

	if _, ok := <-client.send; ok {
		t.Error("client send channel still open after unregister")
	}
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	defer hub.Close()

	clients := []*Client{
		NewClient(hub, "viewer1"),
		NewClient(hub, "viewer2"),
		NewClient(hub, "viewer3"),
	}
	for _, c := range clients {
		hub.Register(c)
	}
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 3 {
		t.Errorf("ClientCount() = %d, want 3", hub.ClientCount())
	}

	hub.BroadcastEvent("update", "data")

	for i, client := range clients {
		select {
		case msg := <-client.send:
			expected := "event: update\ndata: data\n\n"
			if string(msg) != expected {
				t.Errorf("client %d received %q, want %q", i+1, string(msg), expected)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i+1)
		}
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	client := NewClient(hub, "viewer1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Close()
	hub.Close()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client was not disconnected")
	}

	if hub.Register(NewClient(hub, "viewer2")) {
		t.Error("Register succeeded on a closed hub")
	}
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	hub1 := manager.GetOrCreateHub("ABC123")
	if hub1 == nil {
		t.Fatal("GetOrCreateHub returned nil")
	}

	hub2 := manager.GetOrCreateHub("ABC123")
	if hub1 != hub2 {
		t.Error("GetOrCreateHub returned different hub for same code")
	}

	hub3 := manager.GetOrCreateHub("XYZ789")
	if hub3 == hub1 {
		t.Error("GetOrCreateHub returned same hub for different code")
	}

	if manager.HubCount() != 2 {
		t.Errorf("HubCount() = %d, want 2", manager.HubCount())
	}

	manager.CloseAll()
	if manager.HubCount() != 0 {
		t.Errorf("HubCount() = %d after CloseAll, want 0", manager.HubCount())
	}
}

func TestHubManager_GetHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	if hub := manager.GetHub("NOTEXIST"); hub != nil {
		t.Error("GetHub returned non-nil for non-existent hub")
	}

	created := manager.GetOrCreateHub("ABC123")
	if got := manager.GetHub("ABC123"); got != created {
		t.Error("GetHub returned different hub than GetOrCreateHub")
	}

	manager.RemoveHub("ABC123")
}

func TestHubManager_RemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("ABC123")
	manager.RemoveHub("ABC123")

	if got := manager.GetHub("ABC123"); got != nil {
		t.Error("Hub still exists after RemoveHub")
	}

	// Removing non-existent hub should not panic
	manager.RemoveHub("NOTEXIST")
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub(model.BoardCode("EMPTY"))

	hub2 := manager.GetOrCreateHub(model.BoardCode("ACTIVE"))
	client := NewClient(hub2, "viewer1")
	hub2.Register(client)
	time.Sleep(10 * time.Millisecond)

	if removed := manager.CleanupEmptyHubs(); removed != 1 {
		t.Errorf("CleanupEmptyHubs() = %d, want 1", removed)
	}

	if manager.GetHub("EMPTY") != nil {
		t.Error("Empty hub still exists after cleanup")
	}
	if manager.GetHub("ACTIVE") == nil {
		t.Error("Active hub was removed during cleanup")
	}

	manager.RemoveHub("ACTIVE")
}

type lifecycleRecorder struct {
	mu      sync.Mutex
	created []model.BoardCode
	removed []model.BoardCode
}

func (l *lifecycleRecorder) onCreate(code model.BoardCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.created = append(l.created, code)
}

func (l *lifecycleRecorder) onRemove(code model.BoardCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removed = append(l.removed, code)
}

func TestHubManager_LifecycleHooks(t *testing.T) {
	rec := &lifecycleRecorder{}
	manager := NewHubManager(testutil.NopLogger(), WithLifecycle(rec.onCreate, rec.onRemove))

	manager.GetOrCreateHub("AAA111")
	manager.GetOrCreateHub("AAA111")
	manager.GetOrCreateHub("BBB222")

	if len(rec.created) != 2 {
		t.Errorf("onCreate called %d times, want 2", len(rec.created))
	}

	manager.RemoveHub("AAA111")
	manager.RemoveHub("AAA111")
	manager.CleanupEmptyHubs()
	manager.CloseAll()

	if len(rec.removed) != 2 {
		t.Errorf("onRemove called %d times, want 2: %v", len(rec.removed), rec.removed)
	}
}

func TestHubManager_JoinReplacesClosedHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	stale := manager.GetOrCreateHub("AAA111")
	// Closed by a sweep after the handler looked it up
	stale.Close()

	hub, client, ok := manager.Join("AAA111", "viewer1")
	if !ok {
		t.Fatal("Join() failed on a closed hub")
	}
	defer manager.RemoveHub("AAA111")

	if hub == stale {
		t.Error("Join() registered on the closed hub")
	}
	if manager.GetHub("AAA111") != hub {
		t.Error("replacement hub is not the managed hub")
	}

	hub.BroadcastEvent("test", "hello")
	select {
	case msg := <-client.send:
		if string(msg) != "event: test\ndata: hello\n\n" {
			t.Errorf("unexpected message %q", msg)
		}
	case <-time.After(time.Second):
		t.Error("client on the replacement hub received nothing")
	}
}

func TestHubManager_Watched(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.CloseAll()

	if manager.Watched("AAA111") {
		t.Error("board without a hub reported watched")
	}

	manager.GetOrCreateHub("AAA111")
	if manager.Watched("AAA111") {
		t.Error("empty hub reported watched")
	}

	hub, client, ok := manager.Join("AAA111", "viewer1")
	if !ok {
		t.Fatal("Join() failed")
	}
	time.Sleep(10 * time.Millisecond)
	if !manager.Watched("AAA111") {
		t.Error("hub with a client reported unwatched")
	}

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)
	if manager.Watched("AAA111") {
		t.Error("hub reported watched after its last client left")
	}
}
