// package formatter provides functions to export insight sets to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/shared"
)

// ExportToCSV converts an insight sequence to CSV format with columns: Position, Text, Emoji, Color, Type, DurationMs
func ExportToCSV(subject models.SubjectKey, insights []models.Insight) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Text", "Emoji", "Color", "Type", "DurationMs"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, insight := range insights {
		record := []string{
			strconv.Itoa(i + 1),
			insight.Text,
			insight.Emoji,
			string(insight.Color),
			string(insight.Type),
			strconv.FormatInt(insight.Duration.Milliseconds(), 10),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an insight sequence to Markdown format
func ExportToMarkdown(subject models.SubjectKey, insights []models.Insight) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Insights: %s\n\n", subject.Path()))
	buf.WriteString(fmt.Sprintf("**Insights**: %d\n\n", len(insights)))

	for i, insight := range insights {
		emojiPart := ""
		if insight.Emoji != "" {
			emojiPart = insight.Emoji + " "
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s *(%s)*\n", i+1, emojiPart, insight.Text, insight.Type))
	}

	return buf.Bytes(), nil
}

// ExportToText converts an insight sequence to plain text format
func ExportToText(subject models.SubjectKey, insights []models.Insight) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Subject: %s\n", subject.Path()))
	buf.WriteString(fmt.Sprintf("Insights: %d\n\n", len(insights)))

	for i, insight := range insights {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, insight.Text))
	}

	return buf.Bytes(), nil
}

type insightJSON struct {
	Text       string `json:"text"`
	Emoji      string `json:"emoji,omitempty"`
	Color      string `json:"color"`
	Type       string `json:"insight_type"`
	DurationMS int64  `json:"animation_duration,omitempty"`
}

type exportJSON struct {
	Subject  string        `json:"subject"`
	Insights []insightJSON `json:"insights"`
}

// ExportToJSON converts an insight sequence to indented JSON using the same
// field names the wire format uses.
func ExportToJSON(subject models.SubjectKey, insights []models.Insight) ([]byte, error) {
	out := exportJSON{
		Subject:  subject.Path(),
		Insights: make([]insightJSON, 0, len(insights)),
	}
	for _, insight := range insights {
		out.Insights = append(out.Insights, insightJSON{
			Text:       insight.Text,
			Emoji:      insight.Emoji,
			Color:      string(insight.Color),
			Type:       string(insight.Type),
			DurationMS: insight.Duration.Milliseconds(),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// Export dispatches on format name: csv, markdown (or md), txt (or text), json.
func Export(subject models.SubjectKey, insights []models.Insight, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "csv":
		return ExportToCSV(subject, insights)
	case "markdown", "md":
		return ExportToMarkdown(subject, insights)
	case "txt", "text":
		return ExportToText(subject, insights)
	case "json":
		return ExportToJSON(subject, insights)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders insights in the given format and writes them to path.
func WriteExport(subject models.SubjectKey, insights []models.Insight, format, path string) error {
	data, err := Export(subject, insights, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
