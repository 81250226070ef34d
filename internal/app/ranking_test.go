package app_test

import (
	"reflect"
	"testing"

	"simulado-service/internal/app"
	"simulado-service/internal/domain"
)

func sub(cpf string, score, age, m1, m2 int, status domain.ApprovalStatus) domain.Submission {
	return domain.Submission{
		User:         domain.User{CPF: cpf, Nickname: cpf},
		Score:        score,
		Age:          age,
		Module1Score: m1,
		Module2Score: m2,
		Status:       status,
	}
}

func TestFullRankScoreComesFirst(t *testing.T) {
	subs := []domain.Submission{
		sub("senior", 80, 61, 30, 50, domain.StatusApproved),
		sub("junior", 95, 40, 35, 60, domain.StatusApproved),
	}
	ordered := app.FullRank(subs)
	if ordered[0].User.CPF != "junior" {
		t.Fatalf("higher score must outrank senior priority, got %s first", ordered[0].User.CPF)
	}
}

func TestFullRankSeniorPriorityOnTie(t *testing.T) {
	// A and B tie on score; B is a senior with the lower module2Score and
	// still ranks above A.
	a := sub("A", 70, 45, 40, 30, domain.StatusApproved)
	b := sub("B", 70, 65, 50, 20, domain.StatusApproved)

	ordered := app.FullRank([]domain.Submission{a, b})
	if ordered[0].User.CPF != "B" {
		t.Fatalf("senior must win the tie, got %s first", ordered[0].User.CPF)
	}
}

func TestFullRankOlderSeniorWins(t *testing.T) {
	ordered := app.FullRank([]domain.Submission{
		sub("s60", 70, 60, 40, 30, domain.StatusApproved),
		sub("s75", 70, 75, 40, 30, domain.StatusApproved),
	})
	if ordered[0].User.CPF != "s75" {
		t.Fatalf("between seniors higher age wins, got %s first", ordered[0].User.CPF)
	}
}

func TestFullRankModuleTieBreaks(t *testing.T) {
	// Same score, no seniors: Module II decides, then Module I, then age.
	ordered := app.FullRank([]domain.Submission{
		sub("m2low", 70, 30, 50, 20, domain.StatusApproved),
		sub("m2high", 70, 25, 40, 30, domain.StatusApproved),
	})
	if ordered[0].User.CPF != "m2high" {
		t.Fatalf("higher module2 must win, got %s first", ordered[0].User.CPF)
	}

	ordered = app.FullRank([]domain.Submission{
		sub("older", 70, 50, 40, 30, domain.StatusApproved),
		sub("younger", 70, 30, 40, 30, domain.StatusApproved),
	})
	if ordered[0].User.CPF != "older" {
		t.Fatalf("age is the final tie-break, got %s first", ordered[0].User.CPF)
	}
}

func TestFullRankIsStableAndIdempotent(t *testing.T) {
	tied := []domain.Submission{
		sub("first", 50, 30, 30, 20, domain.StatusRejected),
		sub("second", 50, 30, 30, 20, domain.StatusRejected),
	}
	ordered := app.FullRank(tied)
	if ordered[0].User.CPF != "first" || ordered[1].User.CPF != "second" {
		t.Fatalf("full ties must keep insertion order, got %s, %s", ordered[0].User.CPF, ordered[1].User.CPF)
	}
	if again := app.FullRank(ordered); !reflect.DeepEqual(again, ordered) {
		t.Fatalf("reapplying the ordering reordered its own output")
	}
}

func TestFullRankDoesNotMutateInput(t *testing.T) {
	subs := []domain.Submission{
		sub("low", 10, 30, 10, 0, domain.StatusRejected),
		sub("high", 90, 30, 30, 60, domain.StatusApproved),
	}
	app.FullRank(subs)
	if subs[0].User.CPF != "low" {
		t.Fatalf("input slice was reordered")
	}
}

func TestStatusRankOfRanksWithinGroup(t *testing.T) {
	subs := []domain.Submission{
		sub("ap1", 90, 30, 30, 60, domain.StatusApproved),
		sub("rj1", 40, 30, 20, 20, domain.StatusRejected),
		sub("ap2", 60, 30, 20, 40, domain.StatusApproved),
	}
	if got := app.StatusRankOf(subs, "ap2"); got != 2 {
		t.Fatalf("expected rank 2 among approved, got %d", got)
	}
	if got := app.StatusRankOf(subs, "rj1"); got != 1 {
		t.Fatalf("expected rank 1 among rejected, got %d", got)
	}
	if got := app.StatusRankOf(subs, "missing"); got != 0 {
		t.Fatalf("expected 0 for unknown cpf, got %d", got)
	}
}

func TestQuickRankDivergesFromFullRank(t *testing.T) {
	// Score tie where the full chain prefers the senior but the quick
	// score-only path keeps insertion order. The two ranks really differ.
	junior := sub("junior", 70, 30, 40, 30, domain.StatusApproved)
	senior := sub("senior", 70, 65, 40, 30, domain.StatusApproved)
	subs := []domain.Submission{junior, senior}

	if got := app.StatusRankOf(subs, "senior"); got != 1 {
		t.Fatalf("full rank should put the senior first, got %d", got)
	}
	if got := app.QuickRankOf(subs, "senior"); got != 2 {
		t.Fatalf("quick rank keeps score-tie insertion order, got %d", got)
	}
}

func TestSplitByStatus(t *testing.T) {
	subs := []domain.Submission{
		sub("rj1", 20, 30, 10, 10, domain.StatusRejected),
		sub("ap1", 60, 30, 20, 40, domain.StatusApproved),
		sub("ap2", 90, 30, 30, 60, domain.StatusApproved),
	}
	approved, rejected := app.SplitByStatus(subs)
	if len(approved) != 2 || len(rejected) != 1 {
		t.Fatalf("unexpected group sizes: %d approved, %d rejected", len(approved), len(rejected))
	}
	if approved[0].User.CPF != "ap2" {
		t.Fatalf("approved group must be ordered, got %s first", approved[0].User.CPF)
	}
}
