package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/shared"
)

// ConversionRepository records completed runs for later review.
type ConversionRepository struct {
	db *sql.DB
}

// NewConversionRepository creates a ConversionRepository with the given
// database connection.
func NewConversionRepository(db *sql.DB) *ConversionRepository {
	return &ConversionRepository{db: db}
}

// Save persists a finished run. The summary's run ID becomes the row ID.
func (r *ConversionRepository) Save(sourceURL string, summary *models.ConversionSummary) error {
	playlistID, playlistURL := "", ""
	if summary.Playlist != nil {
		playlistID = summary.Playlist.ID
		playlistURL = summary.Playlist.URL
	}

	id := summary.State.RunID
	if id == "" {
		id = shared.GenerateID()
	}

	_, err := r.db.Exec(`
		INSERT INTO conversions (id, source_url, source_title, playlist_id, playlist_url, total_items, matched_items, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		sourceURL,
		summary.Source.Title,
		playlistID,
		playlistURL,
		summary.State.Total,
		summary.State.Matched,
		string(summary.State.Status),
		summary.State.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save conversion: %w", err)
	}

	return nil
}

// Get retrieves a run by ID.
func (r *ConversionRepository) Get(id string) (*models.ConversionHistory, error) {
	row := r.db.QueryRow(`
		SELECT id, source_url, source_title, playlist_id, playlist_url, total_items, matched_items, status, created_at
		FROM conversions
		WHERE id = ?
	`, id)

	return scanConversion(row)
}

// List retrieves the most recent runs, newest first.
func (r *ConversionRepository) List(limit int) ([]models.ConversionHistory, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, source_url, source_title, playlist_id, playlist_url, total_items, matched_items, status, created_at
		FROM conversions
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	var history []models.ConversionHistory
	for rows.Next() {
		var entry models.ConversionHistory
		var playlistID, playlistURL sql.NullString
		err := rows.Scan(
			&entry.ID,
			&entry.SourceURL,
			&entry.SourceTitle,
			&playlistID,
			&playlistURL,
			&entry.TotalItems,
			&entry.MatchedItems,
			&entry.Status,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}
		entry.PlaylistID = playlistID.String
		entry.PlaylistURL = playlistURL.String
		history = append(history, entry)
	}

	return history, rows.Err()
}

func scanConversion(row *sql.Row) (*models.ConversionHistory, error) {
	var entry models.ConversionHistory
	var playlistID, playlistURL sql.NullString
	err := row.Scan(
		&entry.ID,
		&entry.SourceURL,
		&entry.SourceTitle,
		&playlistID,
		&playlistURL,
		&entry.TotalItems,
		&entry.MatchedItems,
		&entry.Status,
		&entry.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("conversion not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversion: %w", err)
	}

	entry.PlaylistID = playlistID.String
	entry.PlaylistURL = playlistURL.String
	return &entry, nil
}
