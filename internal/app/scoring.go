package app

import "simulado-service/internal/domain"

// Fixed reproval texts shown to candidates; the reason list doubles as the
// rejection flag, so the wording must stay stable across rescores.
const (
	reasonModule1 = "Não atingiu o mínimo de 12 acertos (30%) no Módulo I."
	reasonModule2 = "Não atingiu o mínimo de 16 acertos (40%) no Módulo II."
	reasonTotal   = "Não atingiu o mínimo de 32 acertos (40%) no total do gabarito."
)

// ScoreBreakdown is the derived result of grading one answer sheet against
// one answer key.
type ScoreBreakdown struct {
	Module1Score int
	Module2Score int
	TotalScore   int
	Status       domain.ApprovalStatus
	Reasons      []string
}

// Score grades a sparse answer sheet against the key. It is pure: no I/O,
// no clock, same inputs always produce the same breakdown.
//
// Rules: an unanswered question never counts; an annulled key entry (X)
// credits any supplied answer; a question missing from the key has no
// canonical answer and is never correct.
func Score(answers domain.UserAnswers, key domain.AnswerKey) ScoreBreakdown {
	var correctModule1, correctModule2 int

	for q := 1; q <= domain.TotalQuestions; q++ {
		answer, answered := answers[q]
		if !answered {
			continue
		}
		canonical, hasKey := key[q]
		if !hasKey {
			continue
		}
		if canonical == domain.Annulled || answer == canonical {
			if q <= domain.ScoringBreakpoint {
				correctModule1++
			} else {
				correctModule2++
			}
		}
	}

	breakdown := ScoreBreakdown{
		Module1Score: correctModule1 * domain.PointsModule1,
		Module2Score: correctModule2 * domain.PointsModule2,
	}
	breakdown.TotalScore = breakdown.Module1Score + breakdown.Module2Score

	// The three thresholds are independent; a candidate can fail several at once.
	if correctModule1 < domain.MinCorrectModule1 {
		breakdown.Reasons = append(breakdown.Reasons, reasonModule1)
	}
	if correctModule2 < domain.MinCorrectModule2 {
		breakdown.Reasons = append(breakdown.Reasons, reasonModule2)
	}
	if correctModule1+correctModule2 < domain.MinCorrectTotal {
		breakdown.Reasons = append(breakdown.Reasons, reasonTotal)
	}

	if len(breakdown.Reasons) > 0 {
		breakdown.Status = domain.StatusRejected
	} else {
		breakdown.Status = domain.StatusApproved
	}
	return breakdown
}

// rescore returns a copy of the submission with all derived fields rebuilt
// against the given key. Profile, raw answers, self-diagnosis and age are
// carried over untouched.
func rescore(sub domain.Submission, key domain.AnswerKey) domain.Submission {
	breakdown := Score(sub.Answers, key)
	sub.Score = breakdown.TotalScore
	sub.Module1Score = breakdown.Module1Score
	sub.Module2Score = breakdown.Module2Score
	sub.Status = breakdown.Status
	sub.ReprovalReasons = breakdown.Reasons
	return sub
}

// rescoreAll applies rescore over a snapshot of the collection, producing a
// new slice so callers never mutate stored submissions in place.
func rescoreAll(subs []domain.Submission, key domain.AnswerKey) []domain.Submission {
	out := make([]domain.Submission, len(subs))
	for i, sub := range subs {
		out[i] = rescore(sub, key)
	}
	return out
}
