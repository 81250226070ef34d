package app

import (
	"sort"

	"simulado-service/internal/domain"
)

// rankLess is the full tie-break chain, applied in order until a difference
// is found: total score, senior priority (age >= SeniorAge beats any junior;
// between seniors higher age wins), Module II score, Module I score, age.
// Remaining ties keep insertion order (stable sort).
func rankLess(a, b domain.Submission) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	aSenior := a.Age >= domain.SeniorAge
	bSenior := b.Age >= domain.SeniorAge
	if aSenior != bSenior {
		return aSenior
	}
	if aSenior && bSenior && a.Age != b.Age {
		return a.Age > b.Age
	}
	if a.Module2Score != b.Module2Score {
		return a.Module2Score > b.Module2Score
	}
	if a.Module1Score != b.Module1Score {
		return a.Module1Score > b.Module1Score
	}
	return a.Age > b.Age
}

// FullRank returns the submissions ordered by the full tie-break chain.
// The input slice is never modified; rank is a view, not stored state.
func FullRank(subs []domain.Submission) []domain.Submission {
	out := make([]domain.Submission, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool { return rankLess(out[i], out[j]) })
	return out
}

// RankOf returns the candidate's 1-based position in the full ranking over
// the whole collection, or 0 when the CPF has no submission. This is the
// rank shown right after submitting.
func RankOf(subs []domain.Submission, cpf string) int {
	return position(FullRank(subs), cpf)
}

// StatusRankOf returns the candidate's 1-based position within their own
// approval-status group, full comparator. This is the rank shown on the
// ranking board.
func StatusRankOf(subs []domain.Submission, cpf string) int {
	sub, ok := findByCPF(subs, cpf)
	if !ok {
		return 0
	}
	return position(FullRank(filterByStatus(subs, sub.Status)), cpf)
}

// QuickRankOf is the deliberately simpler rank used by the login flow: score
// comparator only, within the candidate's status group. It predates the full
// chain and is kept as a separate path because the two can disagree on ties.
func QuickRankOf(subs []domain.Submission, cpf string) int {
	sub, ok := findByCPF(subs, cpf)
	if !ok {
		return 0
	}
	group := filterByStatus(subs, sub.Status)
	sort.SliceStable(group, func(i, j int) bool { return group[i].Score > group[j].Score })
	return position(group, cpf)
}

// SplitByStatus returns the approved and rejected groups, each ordered by
// the full tie-break chain.
func SplitByStatus(subs []domain.Submission) (approved, rejected []domain.Submission) {
	return FullRank(filterByStatus(subs, domain.StatusApproved)),
		FullRank(filterByStatus(subs, domain.StatusRejected))
}

func filterByStatus(subs []domain.Submission, status domain.ApprovalStatus) []domain.Submission {
	out := make([]domain.Submission, 0, len(subs))
	for _, sub := range subs {
		if sub.Status == status {
			out = append(out, sub)
		}
	}
	return out
}

func position(ordered []domain.Submission, cpf string) int {
	for i, sub := range ordered {
		if sub.User.CPF == cpf {
			return i + 1
		}
	}
	return 0
}

func findByCPF(subs []domain.Submission, cpf string) (domain.Submission, bool) {
	for _, sub := range subs {
		if sub.User.CPF == cpf {
			return sub, true
		}
	}
	return domain.Submission{}, false
}
