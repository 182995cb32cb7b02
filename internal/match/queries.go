package match

import (
	"fmt"

	"github.com/desertthunder/youtify/internal/models"
)

// BuildQueries produces one to four search queries in decreasing order of
// specificity. Field-scoped search is most precise but brittle against
// catalog metadata mismatches; the looser queries raise recall and the
// scorer filters the extra noise.
func BuildQueries(guess models.ParsedGuess) []string {
	both := guess.HasArtist() && guess.Title != ""

	var queries []string
	if both {
		queries = append(queries,
			fmt.Sprintf("artist:%q track:%q", guess.Artist, guess.Title),
			fmt.Sprintf("%q %q", guess.Artist, guess.Title),
		)
	}

	queries = append(queries, fmt.Sprintf("%q", guess.Title))

	if both {
		queries = append(queries, guess.Artist+" "+guess.Title)
	} else {
		queries = append(queries, guess.Title)
	}

	return queries
}
