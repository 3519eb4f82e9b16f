package main

import "testing"

func TestParseDeepLink(t *testing.T) {
	tests := []struct {
		link    string
		room    string
		partner string
	}{
		{"/?room=pm%3A1%3A2&partner=bob", "pm:1:2", "bob"},
		{"/?room=main", "main", ""},
		{"/?partner=bob", "", "bob"},
		{"/", "", ""},
		{"http://localhost:5000/?room=pm%3A1%3A2&partner=al+ice", "pm:1:2", "al ice"},
	}
	for _, tt := range tests {
		room, partner, err := parseDeepLink(tt.link)
		if err != nil {
			t.Errorf("parseDeepLink(%q): %v", tt.link, err)
			continue
		}
		if room != tt.room || partner != tt.partner {
			t.Errorf("parseDeepLink(%q) = (%q, %q), want (%q, %q)",
				tt.link, room, partner, tt.room, tt.partner)
		}
	}
}

func TestParseDeepLinkInvalid(t *testing.T) {
	if _, _, err := parseDeepLink("://bad"); err == nil {
		t.Fatal("expected error for malformed link")
	}
}
