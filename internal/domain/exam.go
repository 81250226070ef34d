package domain

// Fixed exam configuration. These are policy constants of the simulado, not
// runtime-editable settings.
const (
	TotalQuestions    = 80
	ScoringBreakpoint = 40 // questions 1..40 are Module I, 41..80 Module II
	PointsModule1     = 1
	PointsModule2     = 2

	MaxScore = ScoringBreakpoint*PointsModule1 + (TotalQuestions-ScoringBreakpoint)*PointsModule2

	// Approval thresholds, in correct-answer counts.
	MinCorrectModule1 = 12 // 30% of Module I
	MinCorrectModule2 = 16 // 40% of Module II
	MinCorrectTotal   = 32 // 40% of the whole sheet

	// SeniorAge grants ranking priority (estatuto do idoso).
	SeniorAge = 60
)

// DefaultFormTitle is the portal title restored on reset.
const DefaultFormTitle = "SIMULADO 04 - ALE RO - (RANKING)"

// DefaultAnswerKey returns the published official key the portal starts with.
func DefaultAnswerKey() AnswerKey {
	return AnswerKey{
		1: "B", 2: "D", 3: "A", 4: "C", 5: "E", 6: "B", 7: "A", 8: "D", 9: "C", 10: "E",
		11: "A", 12: "C", 13: "E", 14: "B", 15: "D", 16: "A", 17: "E", 18: "C", 19: "B", 20: "D",
		21: "C", 22: "A", 23: "D", 24: "B", 25: "E", 26: "A", 27: "D", 28: "B", 29: "C", 30: "E",
		31: "D", 32: "B", 33: "E", 34: "A", 35: "C", 36: "D", 37: "A", 38: "E", 39: "B", 40: "C",
		41: "E", 42: "A", 43: "C", 44: "D", 45: "B", 46: "E", 47: "D", 48: "A", 49: "C", 50: "B",
		51: "D", 52: "C", 53: "A", 54: "E", 55: "B", 56: "C", 57: "A", 58: "D", 59: "B", 60: "E",
		61: "A", 62: "E", 63: "B", 64: "C", 65: "D", 66: "B", 67: "E", 68: "C", 69: "A", 70: "D",
		71: "C", 72: "B", 73: "D", 74: "A", 75: "E", 76: "D", 77: "B", 78: "E", 79: "A", 80: "C",
	}
}

// DefaultAggregate is the state a fresh (or reset) portal starts from.
func DefaultAggregate() Aggregate {
	return Aggregate{
		Submissions:      []Submission{},
		AdminAnswers:     DefaultAnswerKey(),
		Appeals:          []Appeal{},
		AppealDeadline:   "",
		FormTitle:        DefaultFormTitle,
		EditalTopics:     map[string][]string{},
		QuestionMetadata: map[int]QuestionMetadata{},
	}
}
