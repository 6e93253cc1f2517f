package ideas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestFetch_PopulatesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"title":"idea one"},{"title":"idea two"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())

	got := c.Fetch(context.Background())
	if len(got) != 2 {
		t.Fatalf("ideas = %d, want 2", len(got))
	}
	if got[0]["title"] != "idea one" {
		t.Errorf("first idea = %v", got[0])
	}

	cached := c.Cached()
	if len(cached) != 2 {
		t.Errorf("cached = %d, want 2", len(cached))
	}
}

func TestFetch_ServerErrorKeepsCache(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"title":"kept"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	c.Fetch(context.Background())

	fail = true
	got := c.Fetch(context.Background())
	if len(got) != 1 || got[0]["title"] != "kept" {
		t.Errorf("ideas = %v, want previous cache retained", got)
	}
}

func TestFetch_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())

	if got := c.Fetch(context.Background()); len(got) != 0 {
		t.Errorf("ideas = %v, want empty on malformed response", got)
	}
}

func TestFetch_NoURL(t *testing.T) {
	c := NewClient("", zerolog.Nop())

	if got := c.Fetch(context.Background()); len(got) != 0 {
		t.Errorf("ideas = %v, want empty for disabled client", got)
	}
}

func TestLoginStatus(t *testing.T) {
	c := NewClient("", zerolog.Nop())

	loggedIn, details := c.LoginStatus()
	if loggedIn || details != nil {
		t.Errorf("initial status = (%v, %v), want (false, nil)", loggedIn, details)
	}

	c.SetLoginStatus(true, map[string]any{"email": "a@b.c"})

	loggedIn, details = c.LoginStatus()
	if !loggedIn {
		t.Error("loggedIn = false, want true")
	}
	if details["email"] != "a@b.c" {
		t.Errorf("details = %v", details)
	}
}
