// YouTube Data API v3 [SourceCatalog] implementation
//
// API response types based on https://developers.google.com/youtube/v3/docs
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	youtubePageSize       = 50
)

// Placeholder titles the API returns for unavailable playlist entries.
const (
	deletedVideoTitle = "Deleted video"
	privateVideoTitle = "Private video"
)

// playlistIDPattern matches a bare playlist ID passed without a URL.
var playlistIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{13,}$`)

type youtubeError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

type youtubePlaylistResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
		ContentDetails struct {
			ItemCount int `json:"itemCount"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type youtubePlaylistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	PageInfo      struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
	Items []struct {
		Snippet struct {
			Title                  string `json:"title"`
			PublishedAt            string `json:"publishedAt"`
			VideoOwnerChannelTitle string `json:"videoOwnerChannelTitle"`
			ResourceID             struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

// YouTubeService implements [SourceCatalog] against the YouTube Data API v3.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTubeService creates a YouTube Data API client. An empty baseURL
// selects the production endpoint.
func NewYouTubeService(apiKey, baseURL string) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}

	return &YouTubeService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// PlaylistID extracts a playlist ID from the common YouTube URL shapes
// (playlist pages, watch pages with a list parameter, youtu.be short
// links) or accepts a bare playlist ID.
func (y *YouTubeService) PlaylistID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty playlist reference", shared.ErrInvalidInput)
	}

	if !strings.Contains(raw, "/") && playlistIDPattern.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", shared.ErrInvalidInput, raw)
	}

	if id := u.Query().Get("list"); id != "" {
		return id, nil
	}

	return "", fmt.Errorf("%w: no playlist in %s", shared.ErrInvalidInput, raw)
}

// ValidateURL reports whether a playlist ID can be extracted from the input.
func (y *YouTubeService) ValidateURL(raw string) bool {
	_, err := y.PlaylistID(raw)
	return err == nil
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("key", y.apiKey)
	apiURL := y.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return y.mapError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// mapError translates an API error payload to a sentinel error.
func (y *YouTubeService) mapError(resp *http.Response) error {
	var errResp youtubeError
	reason := ""
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && len(errResp.Error.Errors) > 0 {
		reason = errResp.Error.Errors[0].Reason
	}

	switch {
	case resp.StatusCode == http.StatusForbidden && reason == "quotaExceeded":
		return fmt.Errorf("%w: youtube daily quota", shared.ErrQuotaExceeded)
	case resp.StatusCode == http.StatusNotFound || reason == "playlistNotFound":
		return fmt.Errorf("%w", shared.ErrPlaylistNotFound)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", shared.ErrAccessDenied, errResp.Error.Message)
	default:
		return fmt.Errorf("%w: status %d %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
	}
}

// PlaylistInfo retrieves playlist metadata by ID.
func (y *YouTubeService) PlaylistInfo(ctx context.Context, playlistID string) (*models.SourcePlaylist, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", playlistID)

	var resp youtubePlaylistResponse
	if err := y.doRequest(ctx, "/playlists", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	item := resp.Items[0]
	return &models.SourcePlaylist{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		Channel:     item.Snippet.ChannelTitle,
		ItemCount:   item.ContentDetails.ItemCount,
	}, nil
}

// ListItems retrieves every playable item in the playlist, fifty per page.
// Deleted and private entries are skipped. The " - Topic" suffix on
// auto-generated music channels is stripped from the owner channel name.
func (y *YouTubeService) ListItems(ctx context.Context, playlistID string, onProgress func(processed, total int)) ([]models.SourceItem, error) {
	var items []models.SourceItem
	pageToken := ""
	processed := 0

	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", fmt.Sprint(youtubePageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp youtubePlaylistItemsResponse
		if err := y.doRequest(ctx, "/playlistItems", params, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			processed++
			title := item.Snippet.Title
			if title == deletedVideoTitle || title == privateVideoTitle {
				continue
			}

			channel := strings.TrimSuffix(item.Snippet.VideoOwnerChannelTitle, " - Topic")
			source := models.SourceItem{
				RawTitle:    title,
				ChannelName: channel,
				ExternalID:  item.Snippet.ResourceID.VideoID,
			}
			if t, err := parseTimestamp(item.Snippet.PublishedAt); err == nil {
				source.PublishedAt = t
			}
			items = append(items, source)
		}

		if onProgress != nil {
			onProgress(processed, resp.PageInfo.TotalResults)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return items, nil
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
