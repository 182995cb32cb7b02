package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/desertthunder/youtify/internal/models"
)

// Score computes a whole-string similarity between a guess and a candidate
// in [0, 1]. Both sides are lower-cased "<artist> <title>" concatenations;
// the candidate joins all credited artists with commas. The ratio is
// 1 - distance/maxLen over runes.
//
// Whole-string comparison tolerates field-order noise in catalog metadata
// at the cost of occasionally rewarding cross-field character overlap.
func Score(guess models.ParsedGuess, candidate models.CandidateTrack) float64 {
	a := normalizeForScore(guess.Artist, guess.Title)
	b := normalizeForScore(candidate.ArtistLine(), candidate.Title)

	if a == b {
		return 1.0
	}

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	ratio := 1.0 - float64(distance)/float64(maxLen)
	if ratio < 0 {
		return 0.0
	}
	return ratio
}

func normalizeForScore(artist, title string) string {
	return strings.ToLower(strings.TrimSpace(artist + " " + title))
}
