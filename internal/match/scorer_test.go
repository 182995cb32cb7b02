package match

import (
	"testing"

	"github.com/desertthunder/youtify/internal/models"
)

func TestScore(t *testing.T) {
	tc := []struct {
		name      string
		guess     models.ParsedGuess
		candidate models.CandidateTrack
		want      float64
		atLeast   float64
		below     float64
	}{
		{
			name:      "identical strings",
			guess:     models.ParsedGuess{Artist: "Daft Punk", Title: "One More Time"},
			candidate: models.CandidateTrack{ArtistNames: []string{"Daft Punk"}, Title: "One More Time"},
			want:      1.0,
		},
		{
			name:      "case insensitive",
			guess:     models.ParsedGuess{Artist: "DAFT PUNK", Title: "ONE MORE TIME"},
			candidate: models.CandidateTrack{ArtistNames: []string{"daft punk"}, Title: "one more time"},
			want:      1.0,
		},
		{
			name:      "disjoint strings score zero",
			guess:     models.ParsedGuess{Title: "abc"},
			candidate: models.CandidateTrack{Title: "xyz"},
			want:      0.0,
		},
		{
			name:      "close match scores high",
			guess:     models.ParsedGuess{Artist: "Daft Punk", Title: "One More Time"},
			candidate: models.CandidateTrack{ArtistNames: []string{"Daft Punk"}, Title: "One More Time - Radio Edit"},
			atLeast:   0.6,
			below:     1.0,
		},
		{
			name:      "multiple artists joined with commas",
			guess:     models.ParsedGuess{Artist: "Silk Sonic", Title: "Leave The Door Open"},
			candidate: models.CandidateTrack{ArtistNames: []string{"Bruno Mars", "Anderson .Paak", "Silk Sonic"}, Title: "Leave The Door Open"},
			atLeast:   0.3,
			below:     1.0,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.guess, tt.candidate)

			if got < 0 || got > 1 {
				t.Fatalf("Score() = %v, outside [0,1]", got)
			}
			if tt.atLeast == 0 && tt.below == 0 {
				if got != tt.want {
					t.Errorf("Score() = %v, want %v", got, tt.want)
				}
				return
			}
			if got < tt.atLeast || got >= tt.below {
				t.Errorf("Score() = %v, want in [%v, %v)", got, tt.atLeast, tt.below)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	guess := models.ParsedGuess{Artist: "Radiohead", Title: "Karma Police"}
	candidate := models.CandidateTrack{ArtistNames: []string{"Radiohead"}, Title: "Karma Police"}

	first := Score(guess, candidate)
	for range 10 {
		if got := Score(guess, candidate); got != first {
			t.Fatalf("Score() not deterministic: %v != %v", got, first)
		}
	}
}
