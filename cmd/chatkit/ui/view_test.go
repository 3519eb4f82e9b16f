package ui

import (
	"strings"
	"testing"

	"github.com/nduong18/chatkit-go/chatkit"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this one is too long", 7, "this on"},
		{"héllo wörld", 5, "héllo"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestFriendRow(t *testing.T) {
	row := friendRow(chatkit.FriendItem{Username: "bob", Online: true, LastMsg: "see you"})
	if !strings.Contains(row, "bob") {
		t.Errorf("row missing username: %q", row)
	}
	if !strings.Contains(row, "see you") {
		t.Errorf("row missing preview: %q", row)
	}

	bare := friendRow(chatkit.FriendItem{Username: "carol"})
	if strings.Contains(bare, "\n") {
		t.Errorf("expected single line without preview: %q", bare)
	}
}

func TestFriendRowTruncatesPreview(t *testing.T) {
	long := strings.Repeat("x", previewLimit+10)
	row := friendRow(chatkit.FriendItem{Username: "bob", LastMsg: long})
	if strings.Contains(row, long) {
		t.Error("expected preview to be truncated")
	}
	if !strings.Contains(row, strings.Repeat("x", previewLimit)) {
		t.Error("expected truncated preview to keep the limit prefix")
	}
}
