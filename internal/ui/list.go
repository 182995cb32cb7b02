package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/shared"
)

var _ list.Item = recordItem{}

// recordItem wraps [models.ConversionRecord] to implement [list.Item].
type recordItem struct {
	record models.ConversionRecord
}

func (i recordItem) FilterValue() string { return i.record.Source.RawTitle }

func (i recordItem) Title() string {
	match := i.record.Match
	if match.Matched && match.Track != nil {
		return fmt.Sprintf("✓ %s - %s", match.Track.ArtistLine(), match.Track.Title)
	}
	return fmt.Sprintf("✗ %s", i.record.Source.RawTitle)
}

func (i recordItem) Description() string {
	match := i.record.Match
	if match.Matched {
		return fmt.Sprintf("confidence %s • %s", shared.FormatConfidence(match.Confidence), i.record.Source.RawTitle)
	}
	if match.Reason != "" {
		return match.Reason
	}
	return "no match"
}
