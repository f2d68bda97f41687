package insights

import (
	"github.com/campuswell/backend/internal/scoring"
)

var categoryMessages = map[string]map[scoring.RiskLevel]string{
	"depression": {
		scoring.RiskLow:      "Your mood looks steady. Keep doing the things that help you feel like yourself.",
		scoring.RiskModerate: "You may be feeling low more often than usual. Reaching out to a friend or doing something you enjoy can help.",
		scoring.RiskHigh:     "You've been carrying a lot lately. Please consider talking with a counselor; you don't have to handle this alone.",
	},
	"stress": {
		scoring.RiskLow:      "You seem to be handling pressure well. Keep protecting your rest and downtime.",
		scoring.RiskModerate: "Stress is building up. Try breaking big tasks into small steps and scheduling short breaks.",
		scoring.RiskHigh:     "Your stress level is high. A counselor can help you find ways to make things more manageable.",
	},
	"anxiety": {
		scoring.RiskLow:      "Worry doesn't seem to be getting in your way right now.",
		scoring.RiskModerate: "Worry is showing up fairly often. Slow breathing and grounding exercises can take the edge off.",
		scoring.RiskHigh:     "Anxiety seems to be affecting your days a lot. Talking with a counselor is a good next step.",
	},
	"adhd": {
		scoring.RiskLow:      "Focus and organisation look manageable for you at the moment.",
		scoring.RiskModerate: "Staying focused may be harder lately. Timers, checklists and a tidy workspace can help.",
		scoring.RiskHigh:     "Focus and attention seem to be a real struggle. A counselor can help you explore support options.",
	},
	"wellbeing": {
		scoring.RiskLow:      "Your overall wellbeing looks good. Keep up your healthy routines.",
		scoring.RiskModerate: "Some parts of your day-to-day wellbeing could use attention, like sleep, movement or connection.",
		scoring.RiskHigh:     "Your wellbeing seems to be struggling. Small steps count, and a counselor can help you plan them.",
	},
	scoring.Overall: {
		scoring.RiskLow:      "Overall, you seem to be doing well.",
		scoring.RiskModerate: "Overall, a few areas could use some extra care.",
		scoring.RiskHigh:     "Overall, things look tough right now. Please consider reaching out for support.",
	},
}

var genericMessages = map[scoring.RiskLevel]string{
	scoring.RiskLow:      "This area looks healthy right now.",
	scoring.RiskModerate: "This area could use some attention.",
	scoring.RiskHigh:     "This area needs care. Consider talking with a counselor.",
}

// Message returns the static supportive message for a category at a level.
// Unknown categories get a generic message.
func Message(category string, level scoring.RiskLevel) string {
	if byLevel, ok := categoryMessages[category]; ok {
		if m, ok := byLevel[level]; ok {
			return m
		}
	}
	return genericMessages[level]
}
