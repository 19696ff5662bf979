package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.house.gov/representatives", "www_house_gov_representatives"},
		{"https://www.senate.gov/states/WY/intro.htm", "www_senate_gov_states_WY_intro_htm"},
		{"https://a.gov/x?y=1&z=2", "a_gov_x_y_1_z_2"},
	}
	for _, tt := range tests {
		if got := SanitizeURL(tt.in); got != tt.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetchCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte("<html>body</html>"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := New(srv.Client(), dir, "", nil)

	body, err := f.Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "<html>body</html>" {
		t.Errorf("body = %q", body)
	}

	// Second fetch must come from the cache.
	body2, err := f.Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch (cached): %v", err)
	}
	if string(body2) != string(body) {
		t.Errorf("cached body = %q", body2)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}

	// The cache file carries the sanitized name.
	if _, err := os.Stat(f.CachePath(srv.URL + "/page")); err != nil {
		t.Errorf("cache file missing: %v", err)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(srv.Client(), t.TempDir(), "", nil)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
	// A failed fetch must not leave a cache entry behind.
	if _, err := os.Stat(f.CachePath(srv.URL)); err == nil {
		t.Error("cache entry written for failed fetch")
	}
}
