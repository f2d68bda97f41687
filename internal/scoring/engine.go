package scoring

import "math"

// MaxOptionScore is the highest score a single option can carry.
const MaxOptionScore = 4

var optionScores = map[string]int{
	"Always":    4,
	"Often":     3,
	"Sometimes": 2,
	"Rarely":    1,
	"Never":     0,
	"Yes":       4,
	"No":        0,
}

// OptionScore maps an answer label to its base score. ok is false for any
// label outside the fixed option set.
func OptionScore(label string) (score int, ok bool) {
	score, ok = optionScores[label]
	return score, ok
}

// Results maps "<category>_score" keys to percentages. It is both the stored
// form of an attempt's results and the override accepted by ScoreCategory.
type Results map[string]int

// ScoreKey returns the Results key for a category.
func ScoreKey(category string) string {
	return category + "_score"
}

// Get returns the stored percentage for a category, if present.
func (r Results) Get(category string) (int, bool) {
	if r == nil {
		return 0, false
	}
	v, ok := r[ScoreKey(category)]
	return v, ok
}

// CategoryScore is a percentage plus how it was obtained. AnsweredCount is
// the number of scored answers; 0 with Overridden false means no data.
type CategoryScore struct {
	Category      string `json:"category"`
	Percentage    int    `json:"percentage"`
	AnsweredCount int    `json:"answered_count"`
	Overridden    bool   `json:"overridden"`
}

// ScoreCategory returns the risk percentage for one category or Overall.
//
// An override entry for the category is returned unchanged. Otherwise answers
// are matched to the category's questions by index; unanswered slots and
// unrecognised labels are skipped, reverse-direction questions count
// 4 - score, and the result is round(100 * total / (count * 4)), or 0 when
// nothing was scored.
func ScoreCategory(category string, answers Answers, bank *Bank, override Results) int {
	return ScoreCategoryDetailed(category, answers, bank, override).Percentage
}

// ScoreCategoryDetailed is ScoreCategory with the answered count exposed.
func ScoreCategoryDetailed(category string, answers Answers, bank *Bank, override Results) CategoryScore {
	out := CategoryScore{Category: category}
	if v, ok := override.Get(category); ok {
		out.Percentage = v
		out.Overridden = true
		return out
	}
	if answers == nil || bank == nil {
		return out
	}

	total, count := 0, 0
	for i, q := range bank.Questions(category) {
		label, answered := answers.At(i).Label()
		if !answered {
			continue
		}
		score, ok := OptionScore(label)
		if !ok {
			continue
		}
		if q.Direction == Reverse {
			score = MaxOptionScore - score
		}
		total += score
		count++
	}

	out.AnsweredCount = count
	if count == 0 {
		return out
	}
	out.Percentage = int(math.Round(100 * float64(total) / float64(count*MaxOptionScore)))
	return out
}

// ScoreAllCategories scores every selected category independently. Overall is
// scored only when it appears in selected.
func ScoreAllCategories(selected []string, answers Answers, bank *Bank, override Results) map[string]int {
	out := make(map[string]int, len(selected))
	for _, c := range selected {
		out[c] = ScoreCategory(c, answers, bank, override)
	}
	return out
}

// ToResults converts a category→percentage map into stored Results keys.
func ToResults(scores map[string]int) Results {
	r := make(Results, len(scores))
	for c, v := range scores {
		r[ScoreKey(c)] = v
	}
	return r
}

// ScoreResponses scores selected categories from per-category answers. A
// declared category reads its own sequence; Overall reads the flattened
// sequence across every category.
func ScoreResponses(selected []string, r Responses, bank *Bank, override Results) []CategoryScore {
	out := make([]CategoryScore, 0, len(selected))
	seen := make(map[string]bool, len(selected))
	var flat Answers
	for _, c := range selected {
		if seen[c] {
			continue
		}
		seen[c] = true
		answers := r[c]
		if c == Overall {
			if flat == nil && bank != nil {
				flat = bank.Flatten(r)
			}
			answers = flat
		}
		out = append(out, ScoreCategoryDetailed(c, answers, bank, override))
	}
	return out
}

// Percentages reduces detailed scores to a category→percentage map.
func Percentages(scores []CategoryScore) map[string]int {
	out := make(map[string]int, len(scores))
	for _, s := range scores {
		out[s.Category] = s.Percentage
	}
	return out
}
