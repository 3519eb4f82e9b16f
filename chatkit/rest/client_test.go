package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFriends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/friends" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"friends":[
			{"username":"bob","room":"pm:1:2","last":{"msg":"hey","ts":"2024-05-01T12:00:00.123456","username":"bob"}},
			{"username":"carol","room":"pm:1:3"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	friends, err := c.Friends(context.Background())
	if err != nil {
		t.Fatalf("Friends: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(friends))
	}

	if friends[0].Username != "bob" || friends[0].Room != "pm:1:2" {
		t.Errorf("unexpected first friend: %+v", friends[0])
	}
	if friends[0].Last == nil {
		t.Fatal("expected last message for bob")
	}
	if friends[0].Last.Msg != "hey" || friends[0].Last.Username != "bob" {
		t.Errorf("unexpected last message: %+v", friends[0].Last)
	}

	if friends[1].Last != nil {
		t.Errorf("expected no last message for carol, got %+v", friends[1].Last)
	}
}

func TestFriendsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Friends(context.Background()); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestFriendsBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Friends(context.Background()); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestDeepLink(t *testing.T) {
	tests := []struct {
		friend Friend
		want   string
	}{
		{Friend{Username: "bob", Room: "pm:1:2"}, "/?room=pm%3A1%3A2&partner=bob"},
		{Friend{Username: "al ice", Room: "main"}, "/?room=main&partner=al+ice"},
	}
	for _, tt := range tests {
		if got := tt.friend.DeepLink(); got != tt.want {
			t.Errorf("DeepLink(%+v) = %q, want %q", tt.friend, got, tt.want)
		}
	}
}
