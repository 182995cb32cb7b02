// Package match implements the title-parsing and fuzzy-matching core of the
// conversion pipeline.
//
// # Title Parsing
//
// [Parse] extracts an artist/title guess from a free-text video title by
// trying an ordered list of separator rules (dash, colon/pipe, quoted title)
// and stripping known decoration suffixes like "(Official Video)" from the
// captured groups. When no rule matches, the raw title is carried through
// unchanged as a title-only guess. Parse never fails and never returns an
// empty title.
//
// # Query Cascade
//
// [BuildQueries] turns a guess into one to four search queries of strictly
// decreasing specificity, from a field-scoped artist/track query down to an
// unquoted free-text query. Looser queries trade precision for recall; the
// scorer filters the noise.
//
// # Scoring and Resolution
//
// [Score] computes a whole-string Levenshtein similarity between the guess
// and a candidate, in [0, 1]. [Resolver.Resolve] runs the cascade against a
// [CandidateSearchFn], scores the first non-empty result page, and accepts
// the best candidate when it clears the confidence floor. Search failures
// are logged and downgrade the item to unmatched; they are never fatal.
package match
