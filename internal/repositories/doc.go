// Package repositories implements SQLite persistence for the conversion
// service.
//
// Key Implementations:
//   - [SearchCacheRepository] : TTL-bounded cache of search result pages,
//     keyed by normalized query string with candidates stored as JSON
//   - [ConversionRepository] : History of completed runs for later review
//
// The [CachingSearch] decorator wraps a live search function with the
// cache. Cache failures degrade to a live search and are logged, never
// surfaced; a stale or broken cache must not break a conversion.
package repositories
