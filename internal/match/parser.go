package match

import (
	"regexp"
	"strings"

	"github.com/desertthunder/youtify/internal/models"
)

// decorationSuffixes are stripped from captured groups after a rule matches.
// Removal is a case-sensitive exact substring match. Titles that fail every
// rule keep their decorations.
var decorationSuffixes = []string{
	"(Official Video)",
	"(Official Music Video)",
	"(Lyric Video)",
	"(Audio)",
	"[Official Video]",
	"[Official Music Video]",
}

// parseRule pairs a separator pattern with the handler that turns its
// capture groups into a guess.
type parseRule struct {
	pattern *regexp.Regexp
	handler func(groups []string) models.ParsedGuess
}

// artistTitle builds a guess from a two-group artist/title capture,
// trimming and stripping decorations from both parts.
func artistTitle(groups []string) models.ParsedGuess {
	return models.ParsedGuess{
		Artist: stripDecorations(groups[1]),
		Title:  stripDecorations(groups[2]),
	}
}

// parseRules are tried in order; the first match wins. The dash rules
// require whitespace on both sides of the dash so hyphenated words are
// not split. Trailing parenthetical or bracketed noise after the title
// group is absorbed by the optional trailing constructs.
var parseRules = []parseRule{
	{regexp.MustCompile(`^(.+?)\s+[-–—]\s+(.+?)(?:\s*\(.*\))?(?:\s*\[.*\])?$`), artistTitle},
	{regexp.MustCompile(`^(.+?)\s*[:|]\s*(.+?)(?:\s*\(.*\))?(?:\s*\[.*\])?$`), artistTitle},
	{regexp.MustCompile(`^(.+?)\s*"(.+?)"`), artistTitle},
	{regexp.MustCompile(`^(.+?)\s+-\s+(.+?)(?:\s*\(.*\))?(?:\s*\[.*\])?$`), artistTitle},
}

// Parse extracts an artist/title guess from a raw video title. It never
// fails: when no rule matches, the guess carries an empty artist and the
// raw title unmodified.
func Parse(rawTitle string) models.ParsedGuess {
	trimmed := strings.TrimSpace(rawTitle)

	for _, rule := range parseRules {
		if groups := rule.pattern.FindStringSubmatch(trimmed); groups != nil {
			guess := rule.handler(groups)
			if guess.Title != "" {
				return guess
			}
		}
	}

	return models.ParsedGuess{Artist: "", Title: rawTitle}
}

func stripDecorations(s string) string {
	for _, suffix := range decorationSuffixes {
		s = strings.ReplaceAll(s, suffix, "")
	}
	return strings.TrimSpace(s)
}
