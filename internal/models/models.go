// package models defines the data model for the playlist conversion service
package models

import (
	"strings"
	"time"
)

// SourcePlaylist is metadata about the YouTube playlist being converted.
type SourcePlaylist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Channel     string `json:"channel"`
	ItemCount   int    `json:"item_count"`
}

// SourceItem is a single video entry fetched from the source playlist.
type SourceItem struct {
	RawTitle    string    `json:"raw_title"`
	ChannelName string    `json:"channel_name"`
	ExternalID  string    `json:"external_id"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// ParsedGuess is the artist/title pair extracted from a video title.
// Artist is empty when no separator pattern matched; Title is never empty.
type ParsedGuess struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// HasArtist reports whether the parser split out a distinct artist.
func (g ParsedGuess) HasArtist() bool {
	return g.Artist != ""
}

// CandidateTrack is one search result considered for a match.
type CandidateTrack struct {
	TrackID     string   `json:"track_id"`
	URI         string   `json:"uri"`
	Title       string   `json:"title"`
	ArtistNames []string `json:"artist_names"`
	AlbumArtURL string   `json:"album_art_url,omitempty"`
	PreviewURL  string   `json:"preview_url,omitempty"`
}

// ArtistLine joins all credited artists for display and scoring.
func (c CandidateTrack) ArtistLine() string {
	return strings.Join(c.ArtistNames, ", ")
}

// Confidence buckets for reporting match quality.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// MatchResult is the final verdict for one source item. Confidence is
// meaningful only when Matched; unmatched results carry no track and a
// human-readable Reason.
type MatchResult struct {
	Matched    bool            `json:"matched"`
	Track      *CandidateTrack `json:"track,omitempty"`
	Confidence float64         `json:"confidence"`
	Reason     string          `json:"reason,omitempty"`
}

// ConfidenceBucket maps a score to a reporting bucket.
func (m MatchResult) ConfidenceBucket() string {
	switch {
	case m.Confidence >= 0.8:
		return ConfidenceHigh
	case m.Confidence >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ConversionRecord is the append-only output unit for one source item.
type ConversionRecord struct {
	Index  int         `json:"index"`
	Source SourceItem  `json:"source"`
	Guess  ParsedGuess `json:"guess"`
	Match  MatchResult `json:"match"`
}

// ConversionStatus enumerates the lifecycle of a conversion run.
type ConversionStatus string

const (
	StatusNotStarted ConversionStatus = "NOT_STARTED"
	StatusRunning    ConversionStatus = "RUNNING"
	StatusCompleted  ConversionStatus = "COMPLETED"
	StatusFailed     ConversionStatus = "FAILED"
)

// ConversionState tracks a single run. The caller owns it; the pipeline
// updates counts and status as it progresses.
type ConversionState struct {
	RunID     string           `json:"run_id"`
	Status    ConversionStatus `json:"status"`
	Total     int              `json:"total"`
	Processed int              `json:"processed"`
	Matched   int              `json:"matched"`
	StartedAt time.Time        `json:"started_at"`
}

// MatchRate returns the fraction of processed items that matched.
func (s ConversionState) MatchRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Processed)
}

// CreatedPlaylist describes the destination playlist produced by a run.
type CreatedPlaylist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Public bool   `json:"public"`
}

// ConversionSummary aggregates the outcome of a full conversion run.
type ConversionSummary struct {
	State    ConversionState    `json:"state"`
	Source   SourcePlaylist     `json:"source"`
	Playlist *CreatedPlaylist   `json:"playlist,omitempty"`
	Records  []ConversionRecord `json:"records"`
	High     int                `json:"high_confidence"`
	Medium   int                `json:"medium_confidence"`
	Low      int                `json:"low_confidence"`
	NotFound int                `json:"not_found"`
	Elapsed  time.Duration      `json:"elapsed"`
}

// Summarize builds a ConversionSummary from a finished run's records.
func Summarize(state ConversionState, source SourcePlaylist, records []ConversionRecord) ConversionSummary {
	summary := ConversionSummary{State: state, Source: source, Records: records}
	for _, rec := range records {
		if !rec.Match.Matched {
			summary.NotFound++
			continue
		}
		switch rec.Match.ConfidenceBucket() {
		case ConfidenceHigh:
			summary.High++
		case ConfidenceMedium:
			summary.Medium++
		default:
			summary.Low++
		}
	}
	return summary
}

// ConversionHistory is the persisted row for a completed run.
type ConversionHistory struct {
	ID           string    `json:"id"`
	SourceURL    string    `json:"source_url"`
	SourceTitle  string    `json:"source_title"`
	PlaylistID   string    `json:"playlist_id,omitempty"`
	PlaylistURL  string    `json:"playlist_url,omitempty"`
	TotalItems   int       `json:"total_items"`
	MatchedItems int       `json:"matched_items"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// CachedSearch is a persisted query result set with its fetch time.
type CachedSearch struct {
	ID         string           `json:"id"`
	Query      string           `json:"query"`
	Candidates []CandidateTrack `json:"candidates"`
	FetchedAt  time.Time        `json:"fetched_at"`
}
