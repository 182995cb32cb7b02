package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/youtify/internal/shared"
)

func newTestSpotify(t *testing.T, baseURL string) *SpotifyService {
	t.Helper()
	svc, err := NewSpotifyService(shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		UserID:       "someone",
	}, baseURL)
	if err != nil {
		t.Fatalf("NewSpotifyService() error = %v", err)
	}
	svc.searchClient = http.DefaultClient
	svc.userClient = http.DefaultClient
	svc.backoff = time.Millisecond
	return svc
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "only-id"}, "")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("NewSpotifyService() error = %v, want ErrMissingCredentials", err)
		}
	})

	t.Run("unauthenticated requests refused", func(t *testing.T) {
		svc, err := NewSpotifyService(shared.SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
		}, "")
		if err != nil {
			t.Fatalf("NewSpotifyService() error = %v", err)
		}

		_, err = svc.Search(context.Background(), "anything", 10)
		if !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("Search() error = %v, want ErrAuthRequired", err)
		}
	})
}

func TestSpotifySearch(t *testing.T) {
	t.Run("maps results to candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("type") != "track" || q.Get("limit") != "10" {
				t.Errorf("unexpected query %v", q)
			}
			fmt.Fprint(w, `{
				"tracks": {
					"total": 1,
					"items": [{
						"id": "track1",
						"name": "One More Time",
						"uri": "spotify:track:track1",
						"preview_url": "https://p.scdn.co/preview",
						"artists": [{"name": "Daft Punk"}],
						"album": {"name": "Discovery", "images": [{"url": "https://i.scdn.co/art"}]}
					}]
				}
			}`)
		}))
		defer server.Close()

		svc := newTestSpotify(t, server.URL)
		candidates, err := svc.Search(context.Background(), `"One More Time"`, 10)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}

		if len(candidates) != 1 {
			t.Fatalf("Search() returned %d candidates, want 1", len(candidates))
		}
		got := candidates[0]
		if got.TrackID != "track1" || got.URI != "spotify:track:track1" {
			t.Errorf("candidate ids = %+v", got)
		}
		if len(got.ArtistNames) != 1 || got.ArtistNames[0] != "Daft Punk" {
			t.Errorf("candidate artists = %v", got.ArtistNames)
		}
		if got.AlbumArtURL != "https://i.scdn.co/art" {
			t.Errorf("candidate album art = %q", got.AlbumArtURL)
		}
	})

	t.Run("no results is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"tracks": {"total": 0, "items": []}}`)
		}))
		defer server.Close()

		svc := newTestSpotify(t, server.URL)
		candidates, err := svc.Search(context.Background(), "nothing matches this", 10)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(candidates) != 0 {
			t.Errorf("Search() returned %d candidates, want 0", len(candidates))
		}
	})

	t.Run("401 surfaces auth required", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		svc := newTestSpotify(t, server.URL)
		_, err := svc.Search(context.Background(), "query", 10)
		if !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("Search() error = %v, want ErrAuthRequired", err)
		}
	})

	t.Run("retries 429 then succeeds", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, `{"tracks": {"total": 0, "items": []}}`)
		}))
		defer server.Close()

		svc := newTestSpotify(t, server.URL)
		_, err := svc.Search(context.Background(), "query", 10)
		if err != nil {
			t.Fatalf("Search() error = %v, want success after retry", err)
		}
		if attempts != 2 {
			t.Errorf("attempts = %d, want 2", attempts)
		}
	})

	t.Run("persistent 429 exhausts retries", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		svc := newTestSpotify(t, server.URL)
		_, err := svc.Search(context.Background(), "query", 10)
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("Search() error = %v, want ErrRateLimited", err)
		}
		if attempts != searchRetries {
			t.Errorf("attempts = %d, want %d", attempts, searchRetries)
		}
	})
}

func TestSpotifyCreatePlaylist(t *testing.T) {
	t.Run("creates under configured user", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/someone/playlists" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var body struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Public      bool   `json:"public"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Name != "Road Trip" || body.Public {
				t.Errorf("unexpected body %+v", body)
			}
			fmt.Fprint(w, `{
				"id": "pl1",
				"name": "Road Trip",
				"public": false,
				"external_urls": {"spotify": "https://open.spotify.com/playlist/pl1"}
			}`)
		}))
		defer server.Close()

		svc := newTestSpotify(t, server.URL)
		playlist, err := svc.CreatePlaylist(context.Background(), "Road Trip", "from youtube", false)
		if err != nil {
			t.Fatalf("CreatePlaylist() error = %v", err)
		}
		if playlist.ID != "pl1" || playlist.URL != "https://open.spotify.com/playlist/pl1" {
			t.Errorf("CreatePlaylist() = %+v", playlist)
		}
	})

	t.Run("requires a user token", func(t *testing.T) {
		svc := newTestSpotify(t, "http://unused")
		svc.userClient = nil

		_, err := svc.CreatePlaylist(context.Background(), "x", "", false)
		if !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("CreatePlaylist() error = %v, want ErrAuthRequired", err)
		}
	})
}

func TestSpotifyAddTracks(t *testing.T) {
	t.Run("batches at one hundred", func(t *testing.T) {
		var batchSizes []int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/pl1/tracks" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var body struct {
				URIs []string `json:"uris"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			batchSizes = append(batchSizes, len(body.URIs))
			fmt.Fprint(w, `{"snapshot_id": "snap"}`)
		}))
		defer server.Close()

		uris := make([]string, 250)
		for i := range uris {
			uris[i] = fmt.Sprintf("spotify:track:%d", i)
		}

		svc := newTestSpotify(t, server.URL)
		var progress [][2]int
		err := svc.AddTracks(context.Background(), "pl1", uris, func(added, total int) {
			progress = append(progress, [2]int{added, total})
		})
		if err != nil {
			t.Fatalf("AddTracks() error = %v", err)
		}

		want := []int{100, 100, 50}
		if len(batchSizes) != len(want) {
			t.Fatalf("batches = %v, want %v", batchSizes, want)
		}
		for i := range want {
			if batchSizes[i] != want[i] {
				t.Errorf("batch %d size = %d, want %d", i, batchSizes[i], want[i])
			}
		}
		if len(progress) != 3 || progress[2] != [2]int{250, 250} {
			t.Errorf("progress = %v, want final (250, 250)", progress)
		}
	})

	t.Run("no URIs is a no-op", func(t *testing.T) {
		svc := newTestSpotify(t, "http://unused")
		if err := svc.AddTracks(context.Background(), "pl1", nil, nil); err != nil {
			t.Errorf("AddTracks() error = %v", err)
		}
	})
}

func TestSpotifyCurrentUserID(t *testing.T) {
	t.Run("prefers configured user", func(t *testing.T) {
		svc := newTestSpotify(t, "http://unused")
		id, err := svc.CurrentUserID(context.Background())
		if err != nil {
			t.Fatalf("CurrentUserID() error = %v", err)
		}
		if id != "someone" {
			t.Errorf("CurrentUserID() = %q, want someone", id)
		}
	})

	t.Run("falls back to the profile endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			fmt.Fprint(w, `{"id": "resolved_user", "display_name": "Resolved"}`)
		}))
		defer server.Close()

		svc := newTestSpotify(t, server.URL)
		svc.credentials.UserID = ""

		id, err := svc.CurrentUserID(context.Background())
		if err != nil {
			t.Fatalf("CurrentUserID() error = %v", err)
		}
		if id != "resolved_user" {
			t.Errorf("CurrentUserID() = %q, want resolved_user", id)
		}
	})
}
