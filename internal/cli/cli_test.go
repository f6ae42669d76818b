package cli

import (
	"strings"
	"testing"
)

func TestPlayerPath(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		ref     string
		want    string
		wantErr bool
	}{
		{"first position", "ab12cd", "1", "/api/v1/boards/AB12CD/positions/0", false},
		{"third position", "AB12CD", "3", "/api/v1/boards/AB12CD/positions/2", false},
		{"player id", "AB12CD", "3f2a-player", "/api/v1/boards/AB12CD/players/3f2a-player", false},
		{"zero position", "AB12CD", "0", "", true},
		{"negative position", "AB12CD", "-2", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := playerPath(tt.code, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("playerPath(%q, %q) error = %v, wantErr %v", tt.code, tt.ref, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("playerPath(%q, %q) = %q, want %q", tt.code, tt.ref, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{75, "1:15"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}

	for _, tt := range tests {
		if got := formatSeconds(tt.secs); got != tt.want {
			t.Errorf("formatSeconds(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestReadEvents(t *testing.T) {
	stream := "retry: 3000\n\n" +
		"event: connected\ndata: {}\n\n" +
		": keepalive\n\n" +
		"event: roster-update\ndata: <div id=\"players\">\ndata: </div>\n\n"

	type received struct{ event, data string }
	var got []received

	err := readEvents(strings.NewReader(stream), func(event, data string) {
		got = append(got, received{event, data})
	})
	if err != nil {
		t.Fatalf("readEvents() error = %v", err)
	}

	want := []received{
		{"connected", "{}"},
		{"roster-update", "<div id=\"players\">\n</div>"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
