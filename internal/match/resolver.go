package match

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/youtify/internal/models"
)

const (
	// DefaultFloor is the minimum similarity accepted as a match.
	DefaultFloor = 0.3
	// DefaultLimit caps the candidate page scored per query.
	DefaultLimit = 10
	// ReasonNoMatch is reported when the cascade yields no acceptable candidate.
	ReasonNoMatch = "No match found"
)

// CandidateSearchFn executes one search query and returns a candidate page.
// An empty slice means no results and is not an error.
type CandidateSearchFn func(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error)

// Resolver turns a parsed guess into a match verdict by running the query
// cascade against a search function and scoring the first non-empty page.
type Resolver struct {
	search CandidateSearchFn
	floor  float64
	limit  int
	logger *log.Logger
}

// NewResolver builds a Resolver. A zero floor or limit falls back to the
// package defaults; a nil logger disables warning output.
func NewResolver(search CandidateSearchFn, floor float64, limit int, logger *log.Logger) *Resolver {
	if floor <= 0 {
		floor = DefaultFloor
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{search: search, floor: floor, limit: limit, logger: logger}
}

// Resolve executes cascade queries in order, stopping at the first query
// that returns candidates. Only that page is scored; later pages are never
// blended in. Ties keep the first-seen maximum. A search error downgrades
// the item to unmatched with the error as the reason, never a failure.
func (r *Resolver) Resolve(ctx context.Context, guess models.ParsedGuess) models.MatchResult {
	for _, query := range BuildQueries(guess) {
		candidates, err := r.search(ctx, query, r.limit)
		if err != nil {
			r.logger.Warn("search failed", "query", query, "error", err)
			return models.MatchResult{Matched: false, Reason: err.Error()}
		}
		if len(candidates) == 0 {
			continue
		}

		if len(candidates) > r.limit {
			candidates = candidates[:r.limit]
		}

		best := -1
		bestScore := 0.0
		for i, candidate := range candidates {
			score := Score(guess, candidate)
			if score > bestScore || best < 0 {
				best = i
				bestScore = score
			}
		}

		if bestScore >= r.floor {
			track := candidates[best]
			return models.MatchResult{Matched: true, Track: &track, Confidence: bestScore}
		}
		return models.MatchResult{Matched: false, Confidence: bestScore, Reason: ReasonNoMatch}
	}

	return models.MatchResult{Matched: false, Reason: ReasonNoMatch}
}

// Floor exposes the configured confidence floor.
func (r *Resolver) Floor() float64 {
	return r.floor
}
