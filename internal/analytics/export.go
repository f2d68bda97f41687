package analytics

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/campuswell/backend/internal/models"
	"github.com/campuswell/backend/internal/scoring"
)

// ExportCSV renders one row per student's latest assessment with a score
// and level column per category. Students without consent appear only by
// their anonymous ID, with the assessment ID left blank.
func ExportCSV(latest []models.LatestResult, categories []string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"student", "grade_level", "assessment_id", "completed_at"}
	for _, c := range categories {
		header = append(header, c+"_score", c+"_level")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range latest {
		assessmentID := ""
		if r.Consent {
			assessmentID = strconv.FormatInt(r.AssessmentID, 10)
		}
		rec := []string{
			DisplayName(r),
			r.GradeLevel,
			assessmentID,
			r.CompletedAt.UTC().Format(time.RFC3339),
		}
		res := scoring.Results(r.Results)
		for _, c := range categories {
			if v, ok := res.Get(c); ok {
				rec = append(rec, strconv.Itoa(v), string(scoring.ClassifyRisk(v).Level))
			} else {
				rec = append(rec, "", "")
			}
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
