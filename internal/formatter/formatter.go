// package formatter renders conversion results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/shared"
)

const (
	statusFound    = "Found"
	statusNotFound = "Not Found"
)

// ExportToCSV converts conversion records to CSV with columns:
// Index, Original Title, Channel, Matched Artist, Matched Title, Confidence, Status, URI
func ExportToCSV(records []models.ConversionRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Original Title", "Channel", "Matched Artist", "Matched Title", "Confidence", "Status", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Index),
			rec.Source.RawTitle,
			rec.Source.ChannelName,
			"",
			"",
			shared.FormatConfidence(rec.Match.Confidence),
			statusNotFound,
			"",
		}
		if rec.Match.Matched && rec.Match.Track != nil {
			row[3] = rec.Match.Track.ArtistLine()
			row[4] = rec.Match.Track.Title
			row[6] = statusFound
			row[7] = rec.Match.Track.URI
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a conversion summary as a Markdown report
func ExportToMarkdown(summary *models.ConversionSummary) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", summary.Source.Title))

	if summary.Source.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", summary.Source.Description))
	}

	buf.WriteString(fmt.Sprintf("**Items**: %d\n", summary.State.Total))
	buf.WriteString(fmt.Sprintf("**Matched**: %d (%.0f%%)\n", summary.State.Matched, summary.State.MatchRate()*100))
	buf.WriteString(fmt.Sprintf("**Confidence**: %d high / %d medium / %d low / %d not found\n\n",
		summary.High, summary.Medium, summary.Low, summary.NotFound))

	if summary.Playlist != nil {
		buf.WriteString(fmt.Sprintf("**Playlist**: [%s](%s) (%s)\n\n",
			summary.Playlist.Name, summary.Playlist.URL, shared.VisibilityString(summary.Playlist.Public)))
	}

	buf.WriteString("## Tracks\n\n")
	for _, rec := range summary.Records {
		if rec.Match.Matched && rec.Match.Track != nil {
			buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n",
				rec.Index+1, rec.Match.Track.ArtistLine(), rec.Match.Track.Title,
				shared.FormatConfidence(rec.Match.Confidence)))
		} else {
			buf.WriteString(fmt.Sprintf("%d. ~~%s~~ (%s)\n", rec.Index+1, rec.Source.RawTitle, statusNotFound))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders a conversion summary as plain text
func ExportToText(summary *models.ConversionSummary) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", summary.Source.Title))
	buf.WriteString(fmt.Sprintf("Matched: %d/%d\n\n", summary.State.Matched, summary.State.Total))

	for _, rec := range summary.Records {
		if rec.Match.Matched && rec.Match.Track != nil {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", rec.Index+1, rec.Match.Track.ArtistLine(), rec.Match.Track.Title))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", rec.Index+1, rec.Source.RawTitle, statusNotFound))
		}
	}

	return buf.Bytes(), nil
}

// ToSummaryJSON generates an indented JSON representation of a conversion summary
func ToSummaryJSON(summary *models.ConversionSummary) ([]byte, error) {
	return shared.MarshalJSON(summary, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	RecordsFile string
	SummaryFile string
}

// WriteCSVExport writes a conversion report as CSV with an accompanying summary JSON file.
//
// Defaults to the run ID as the base filename & creates {base}_tracks.csv and {base}_summary.json
func WriteCSVExport(summary *models.ConversionSummary, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = summary.State.RunID
	}

	csvData, err := ExportToCSV(summary.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	recordsFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(recordsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := ToSummaryJSON(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		RecordsFile: recordsFile,
		SummaryFile: summaryFile,
	}, nil
}

// WriteMarkdownExport writes a conversion report as Markdown.
//
// Defaults to {runID}_report.md as the filename.
func WriteMarkdownExport(summary *models.ConversionSummary, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_report.md", summary.State.RunID)
	}

	mdData, err := ExportToMarkdown(summary)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes a conversion report as plain text.
//
// Defaults to {runID}_report.txt as the filename.
func WriteTextExport(summary *models.ConversionSummary, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_report.txt", summary.State.RunID)
	}

	textData, err := ExportToText(summary)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteExport dispatches on format ("csv", "markdown", "md", "text", "json")
// and returns the primary file written.
func WriteExport(summary *models.ConversionSummary, format, path string) (string, error) {
	switch format {
	case "csv", "":
		result, err := WriteCSVExport(summary, path)
		if err != nil {
			return "", err
		}
		return result.RecordsFile, nil
	case "markdown", "md":
		return WriteMarkdownExport(summary, path)
	case "text", "txt":
		return WriteTextExport(summary, path)
	case "json":
		if path == "" {
			path = fmt.Sprintf("%s_summary.json", summary.State.RunID)
		}
		data, err := ToSummaryJSON(summary)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write summary file: %w", err)
		}
		return path, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}
