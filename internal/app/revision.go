package app

import (
	"context"

	"simulado-service/internal/domain"
)

// ApplyAnswerKey replaces the official key and rescores every stored
// submission against it, writing the whole aggregate back as one unit. It
// always works on the latest committed state, never on a cached copy, and
// it is the only path allowed to bulk-overwrite derived score fields.
// Approved appeals reuse the same rescore pass (see ResolveAppeal).
func (s *ExamService) ApplyAnswerKey(ctx context.Context, newKey domain.AnswerKey) error {
	for q, option := range newKey {
		if q < 1 || q > domain.TotalQuestions {
			return domain.ErrInvalidQuestion
		}
		if !option.IsKeyEntry() {
			return domain.ErrInvalidKeyEntry
		}
	}

	agg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	agg.AdminAnswers = newKey.Clone()
	agg.Submissions = rescoreAll(agg.Submissions, agg.AdminAnswers)
	return s.store.Save(ctx, agg)
}
