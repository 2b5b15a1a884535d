package formatter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/shared"
)

func exportFixture() (models.SubjectKey, []models.Insight) {
	subject := models.NewSubjectKey("Leeds", "Total Debt", "2023-24")
	insights := []models.Insight{
		{Text: "Debt rose 12% year on year", Emoji: "📈", Color: models.ColorRed, Type: models.TypeTrend, Duration: 6 * time.Second},
		{Text: "Above the regional average", Emoji: "🏛️", Color: models.ColorOrange, Type: models.TypeComparison, Duration: 8 * time.Second},
	}
	return subject, insights
}

func TestExporters(t *testing.T) {
	subject, insights := exportFixture()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(subject, insights)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Position,Text,Emoji,Color,Type,DurationMs") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Debt rose 12% year on year") {
			t.Errorf("CSV missing insight text")
		}
		if !strings.Contains(output, "trend") {
			t.Errorf("CSV missing insight type")
		}
		if !strings.Contains(output, "6000") {
			t.Errorf("CSV missing duration in milliseconds")
		}

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Errorf("expected header plus 2 records, got %d lines", len(lines))
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(subject, insights)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Insights: leeds/total-debt/2023-24") {
			t.Errorf("Markdown missing subject heading, got: %s", output)
		}
		if !strings.Contains(output, "**Insights**: 2") {
			t.Errorf("Markdown missing count")
		}
		if !strings.Contains(output, "1. 📈 Debt rose 12% year on year *(trend)*") {
			t.Errorf("Markdown missing first entry, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(subject, insights)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Subject: leeds/total-debt/2023-24") {
			t.Errorf("text missing subject line, got: %s", output)
		}
		if !strings.Contains(output, "2. Above the regional average") {
			t.Errorf("text missing second entry")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(subject, insights)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Subject  string `json:"subject"`
			Insights []struct {
				Text       string `json:"text"`
				Color      string `json:"color"`
				Type       string `json:"insight_type"`
				DurationMS int64  `json:"animation_duration"`
			} `json:"insights"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Subject != "leeds/total-debt/2023-24" {
			t.Errorf("unexpected subject %q", decoded.Subject)
		}
		if len(decoded.Insights) != 2 || decoded.Insights[0].DurationMS != 6000 {
			t.Errorf("unexpected insights %+v", decoded.Insights)
		}
	})
}

func TestExportDispatch(t *testing.T) {
	subject, insights := exportFixture()

	t.Run("Known Formats", func(t *testing.T) {
		for _, format := range []string{"csv", "markdown", "md", "txt", "text", "json", "CSV"} {
			if _, err := Export(subject, insights, format); err != nil {
				t.Errorf("format %q failed: %v", format, err)
			}
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := Export(subject, insights, "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Fatalf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("WriteExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "insights.md")
		if err := WriteExport(subject, insights, "markdown", path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), "# Insights:") {
			t.Errorf("written file missing heading")
		}
	})
}
