package scoring

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

const (
	moderateThreshold = 40
	highThreshold     = 70
)

// Risk is a classified percentage with its display colour.
type Risk struct {
	Level RiskLevel `json:"level"`
	Color string    `json:"color"`
}

// ClassifyRisk maps a percentage to Low (<40), Moderate (<70) or High.
// Values outside [0,100] are not clamped; they classify by the same
// comparisons.
func ClassifyRisk(percentage int) Risk {
	switch {
	case percentage >= highThreshold:
		return Risk{Level: RiskHigh, Color: "red"}
	case percentage >= moderateThreshold:
		return Risk{Level: RiskModerate, Color: "yellow"}
	default:
		return Risk{Level: RiskLow, Color: "green"}
	}
}

// Severity orders levels for sorting and comparisons (Low=0 ... High=2).
func (l RiskLevel) Severity() int {
	switch l {
	case RiskHigh:
		return 2
	case RiskModerate:
		return 1
	default:
		return 0
	}
}

// AnyHigh reports whether any declared-category score in r is High. The
// Overall entry is ignored.
func AnyHigh(r Results) bool {
	for k, v := range r {
		if k == ScoreKey(Overall) {
			continue
		}
		if ClassifyRisk(v).Level == RiskHigh {
			return true
		}
	}
	return false
}
