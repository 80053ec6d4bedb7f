package export

import (
	"strings"
	"time"

	"studymatrix-backend/internal/studies"
)

// BOM is prepended to downloaded CSV so spreadsheet applications detect
// UTF-8 encoding.
const BOM = "\uFEFF"

// Headers are the thirteen matrix column labels in display order.
var Headers = []string{
	"اسم الدراسة", "مكان النشر", "تاريخ النشر", "مشكلة الدراسة", "أهداف الدراسة",
	"أسئلة الدراسة", "حدود الدراسة الزمانية", "منهج الدراسة", "أداة الدراسة",
	"حدود الدراسة المكانية", "أهم النتائج", "التوصيات", "المقترحات",
}

// CSV renders the record list as CSV text: a header row, then one row per
// record with every cell double-quoted and internal quotes doubled.
func CSV(records []studies.StudyRecord) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(Headers, ","))
	for _, r := range records {
		cells := []string{
			r.Title, r.PublicationVenue, r.PublicationYear, r.ResearchProblem,
			r.Objectives, r.Questions, r.TemporalLimits, r.Methodology,
			r.Tools, r.SpatialLimits, r.KeyResults, r.Recommendations, r.Suggestions,
		}
		quoted := make([]string, len(cells))
		for i, cell := range cells {
			quoted[i] = quote(cell)
		}
		lines = append(lines, strings.Join(quoted, ","))
	}
	return strings.Join(lines, "\n")
}

func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// FileName returns the default export filename for the given date.
func FileName(now time.Time) string {
	return "academic_matrix_" + now.Format("2006-01-02") + ".csv"
}
