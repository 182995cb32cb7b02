// Spotify Web API implementation of [MusicSearcher] and [PlaylistWriter]
//
// API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// addTracksBatchSize is the API's documented maximum URIs per request.
	addTracksBatchSize = 100

	searchRetries = 3
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	PreviewURL string          `json:"preview_url"`
	URI        string          `json:"uri"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
		Total int            `json:"total"`
	} `json:"tracks"`
}

// SpotifyPlaylist represents a playlist returned by create/get calls.
type SpotifyPlaylist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Public       bool   `json:"public"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	URI string `json:"uri"`
}

// SpotifyUser represents the authenticated user's profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// rateLimitedError carries the Retry-After hint from a 429 response.
type rateLimitedError struct {
	retryAfter time.Duration
}

func (e *rateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.retryAfter)
}

func (e *rateLimitedError) Unwrap() error {
	return shared.ErrRateLimited
}

// SpotifyService implements [MusicSearcher] and [PlaylistWriter] against
// the Spotify Web API. Search uses a client-credentials token; playlist
// mutation requires a user bearer token with playlist-modify scopes.
type SpotifyService struct {
	baseURL      string
	tokenURL     string
	credentials  shared.SpotifyConfig
	searchClient *http.Client
	userClient   *http.Client
	limiter      *rate.Limiter
	backoff      time.Duration
}

// NewSpotifyService creates a Spotify client from credentials. An empty
// baseURL selects the production endpoint. Call Authenticate before use.
func NewSpotifyService(credentials shared.SpotifyConfig, baseURL string) (*SpotifyService, error) {
	if credentials.ClientID == "" || credentials.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret", shared.ErrMissingCredentials)
	}

	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	return &SpotifyService{
		baseURL:     baseURL,
		tokenURL:    spotifyTokenURL,
		credentials: credentials,
		limiter:     rate.NewLimiter(rate.Limit(10), 2),
		backoff:     time.Second,
	}, nil
}

// Name returns the service name.
func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate builds the search client from the client-credentials flow
// and, when a bearer token is configured, the user client for playlist
// mutation. The token sources refresh lazily on first request.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	cc := &clientcredentials.Config{
		ClientID:     s.credentials.ClientID,
		ClientSecret: s.credentials.ClientSecret,
		TokenURL:     s.tokenURL,
	}
	s.searchClient = cc.Client(ctx)

	if s.credentials.BearerToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.credentials.BearerToken})
		s.userClient = oauth2.NewClient(ctx, src)
	}

	return nil
}

// CanWrite reports whether a user credential is available for playlist
// creation.
func (s *SpotifyService) CanWrite() bool {
	return s.userClient != nil
}

// GetOAuthConfig builds the authorization-code config used to obtain a
// user token with playlist-modify scopes.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.credentials.ClientID,
		ClientSecret: s.credentials.ClientSecret,
		RedirectURL:  s.credentials.RedirectURI,
		Scopes:       []string{"playlist-modify-public", "playlist-modify-private", "user-read-private"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: s.tokenURL,
		},
	}
}

// GetAuthURL returns the user-facing authorization URL for the given state.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.GetOAuthConfig().AuthCodeURL(state)
}

func (s *SpotifyService) doRequest(ctx context.Context, client *http.Client, method, endpoint string, body, result any) error {
	if client == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrAuthRequired)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify returned 401", shared.ErrAuthRequired)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &rateLimitedError{retryAfter: retryAfterHint(resp)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// retryAfterHint reads the Retry-After header; zero when absent, letting
// the caller's backoff govern the delay.
func retryAfterHint(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

// Search queries the track catalog and maps results to candidates. An
// empty slice means no results. 429 responses are retried with the
// Retry-After hint and exponential backoff; the rate-limit error
// surfaces only after retries are exhausted.
func (s *SpotifyService) Search(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))
	endpoint := "/search?" + params.Encode()

	backoff := s.backoff
	var lastErr error

	for attempt := 0; attempt < searchRetries; attempt++ {
		var resp spotifySearchResponse
		err := s.doRequest(ctx, s.searchClient, http.MethodGet, endpoint, nil, &resp)
		if err == nil {
			return mapCandidates(resp.Tracks.Items), nil
		}

		lastErr = err
		var rl *rateLimitedError
		if !errors.As(err, &rl) {
			return nil, err
		}

		delay := rl.retryAfter
		if backoff > delay {
			delay = backoff
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, err
		}
		backoff *= 2
	}

	return nil, lastErr
}

func mapCandidates(tracks []SpotifyTrack) []models.CandidateTrack {
	candidates := make([]models.CandidateTrack, 0, len(tracks))
	for _, track := range tracks {
		names := make([]string, len(track.Artists))
		for i, artist := range track.Artists {
			names[i] = artist.Name
		}

		candidate := models.CandidateTrack{
			TrackID:     track.ID,
			URI:         track.URI,
			Title:       track.Name,
			ArtistNames: names,
			PreviewURL:  track.PreviewURL,
		}
		if len(track.Album.Images) > 0 {
			candidate.AlbumArtURL = track.Album.Images[0].URL
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

// CurrentUserID retrieves the authenticated user's ID, preferring the
// configured one when present.
func (s *SpotifyService) CurrentUserID(ctx context.Context) (string, error) {
	if s.credentials.UserID != "" {
		return s.credentials.UserID, nil
	}

	var user SpotifyUser
	if err := s.doRequest(ctx, s.userClient, http.MethodGet, "/me", nil, &user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// CreatePlaylist creates an empty playlist owned by the configured user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.CreatedPlaylist, error) {
	if s.userClient == nil {
		return nil, fmt.Errorf("%w: playlist creation needs a user token", shared.ErrAuthRequired)
	}

	userID, err := s.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	body := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Public      bool   `json:"public"`
	}{Name: name, Description: description, Public: public}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, s.userClient, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &models.CreatedPlaylist{
		ID:     playlist.ID,
		Name:   playlist.Name,
		URL:    playlist.ExternalURLs.Spotify,
		Public: playlist.Public,
	}, nil
}

// AddTracks appends URIs to a playlist in batches of one hundred with a
// short pause between batches.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string, onProgress func(added, total int)) error {
	if s.userClient == nil {
		return fmt.Errorf("%w: adding tracks needs a user token", shared.ErrAuthRequired)
	}
	if len(uris) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	total := len(uris)
	added := 0

	for start := 0; start < total; start += addTracksBatchSize {
		end := start + addTracksBatchSize
		if end > total {
			end = total
		}

		body := struct {
			URIs []string `json:"uris"`
		}{URIs: uris[start:end]}

		if err := s.doRequest(ctx, s.userClient, http.MethodPost, endpoint, body, nil); err != nil {
			return err
		}

		added = end
		if onProgress != nil {
			onProgress(added, total)
		}

		if end < total {
			if err := sleepCtx(ctx, 100*time.Millisecond); err != nil {
				return err
			}
		}
	}

	return nil
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
