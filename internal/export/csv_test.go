package export

import (
	"strings"
	"testing"
	"time"

	"studymatrix-backend/internal/studies"
)

func TestCSVHeaderRow(t *testing.T) {
	out := CSV(nil)
	if out != strings.Join(Headers, ",") {
		t.Fatalf("empty matrix CSV = %q", out)
	}
	if len(Headers) != 13 {
		t.Fatalf("expected 13 headers, got %d", len(Headers))
	}
	if Headers[0] != "اسم الدراسة" || Headers[12] != "المقترحات" {
		t.Fatalf("header order wrong: %v", Headers)
	}
}

func TestCSVQuotesEveryCell(t *testing.T) {
	rec := studies.NewRecord("rec-1", "a.pdf", studies.FieldSet{
		Title:      `He said "hi"`,
		Objectives: "سطر أول, سطر ثان",
	})
	out := CSV([]studies.StudyRecord{rec})

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	row := lines[1]
	if !strings.Contains(row, `"He said ""hi"""`) {
		t.Fatalf("quotes not doubled: %s", row)
	}
	if !strings.Contains(row, `"سطر أول, سطر ثان"`) {
		t.Fatalf("comma cell not protected: %s", row)
	}
	if !strings.Contains(row, `"`+studies.NotSpecified+`"`) {
		t.Fatalf("placeholder cell missing: %s", row)
	}
	if got := strings.Count(row, ","); got < 12 {
		t.Fatalf("row has %d commas, want at least 12", got)
	}
}

func TestCSVRowPerRecord(t *testing.T) {
	records := []studies.StudyRecord{
		studies.NewRecord("rec-1", "a.pdf", studies.FieldSet{Title: "أولى"}),
		studies.NewRecord("rec-2", "b.pdf", studies.FieldSet{Title: "ثانية"}),
	}
	lines := strings.Split(CSV(records), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], `"أولى"`) || !strings.HasPrefix(lines[2], `"ثانية"`) {
		t.Fatalf("record order wrong: %v", lines[1:])
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	if got := FileName(now); got != "academic_matrix_2024-03-09.csv" {
		t.Fatalf("filename = %q", got)
	}
}

func TestBOMIsUTF8ByteOrderMark(t *testing.T) {
	if BOM != "\uFEFF" {
		t.Fatalf("BOM = %q", BOM)
	}
}
