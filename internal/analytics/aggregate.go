package analytics

import (
	"math"
	"sort"
	"strconv"

	"github.com/campuswell/backend/internal/models"
	"github.com/campuswell/backend/internal/scoring"
	"github.com/google/uuid"
)

var anonNamespace = uuid.MustParse("6f1b0c1e-3c52-4d7e-9a57-1f0e2a9c4b11")

// AnonymousID is a stable pseudonym for a student that does not reveal the
// account ID.
func AnonymousID(studentID int64) string {
	id := uuid.NewSHA1(anonNamespace, []byte(strconv.FormatInt(studentID, 10)))
	return "S-" + id.String()[:8]
}

// DisplayName shows the student's name only when they consented to
// counselor contact.
func DisplayName(r models.LatestResult) string {
	if r.Consent && r.Name != "" {
		return r.Name
	}
	return AnonymousID(r.StudentID)
}

// AggregateCategories averages each category over the latest results that
// contain it and counts them per risk level.
func AggregateCategories(latest []models.LatestResult, categories []string) []models.CategoryStats {
	out := make([]models.CategoryStats, 0, len(categories))
	for _, c := range categories {
		st := models.CategoryStats{Category: c}
		sum := 0
		for _, r := range latest {
			v, ok := scoring.Results(r.Results).Get(c)
			if !ok {
				continue
			}
			sum += v
			st.Assessments++
			switch scoring.ClassifyRisk(v).Level {
			case scoring.RiskHigh:
				st.Distribution.High++
			case scoring.RiskModerate:
				st.Distribution.Moderate++
			default:
				st.Distribution.Low++
			}
		}
		if st.Assessments > 0 {
			st.Average = math.Round(float64(sum)/float64(st.Assessments)*10) / 10
		}
		out = append(out, st)
	}
	return out
}

// FindAtRisk returns students whose latest result has any High category,
// most High categories first. categories fixes the order of HighCategories.
func FindAtRisk(latest []models.LatestResult, categories []string) []models.AtRiskStudent {
	out := []models.AtRiskStudent{}
	for _, r := range latest {
		res := scoring.Results(r.Results)
		if !scoring.AnyHigh(res) {
			continue
		}
		var high []string
		for _, c := range categories {
			if v, ok := res.Get(c); ok && scoring.ClassifyRisk(v).Level == scoring.RiskHigh {
				high = append(high, c)
			}
		}
		s := models.AtRiskStudent{
			DisplayName:    DisplayName(r),
			CompletedAt:    r.CompletedAt,
			HighCategories: high,
			Results:        r.Results,
		}
		if r.Consent {
			studentID, assessmentID := r.StudentID, r.AssessmentID
			s.StudentID = &studentID
			s.AssessmentID = &assessmentID
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].HighCategories) != len(out[j].HighCategories) {
			return len(out[i].HighCategories) > len(out[j].HighCategories)
		}
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}
