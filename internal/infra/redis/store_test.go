package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"simulado-service/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestLoadInitializesFreshPortal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	agg, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(agg.AdminAnswers) != domain.TotalQuestions || agg.FormTitle != domain.DefaultFormTitle {
		t.Fatalf("expected default aggregate, got %+v", agg)
	}

	// The default document is persisted, not just returned.
	again, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if again.FormTitle != domain.DefaultFormTitle {
		t.Fatalf("default state was not written")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	agg := domain.DefaultAggregate()
	agg.AppealDeadline = "2026-04-01T18:00"
	agg.Submissions = append(agg.Submissions, domain.Submission{
		User:            domain.User{CPF: "12345678901", Nickname: "alice", Email: "a@b.com", DOB: "1990-06-15"},
		Score:           48,
		Answers:         domain.UserAnswers{1: domain.OptionB},
		Status:          domain.StatusApproved,
		Age:             35,
		Module1Score:    16,
		Module2Score:    32,
		SelfDiagnosis:   map[int]domain.DiagnosisReason{1: domain.ReasonMastery},
		ReprovalReasons: nil,
	})
	if err := store.Save(ctx, agg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.AppealDeadline != "2026-04-01T18:00" {
		t.Fatalf("deadline lost: %+v", loaded)
	}
	if len(loaded.Submissions) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(loaded.Submissions))
	}
	got := loaded.Submissions[0]
	if got.User.CPF != "12345678901" || got.Answers[1] != domain.OptionB || got.SelfDiagnosis[1] != domain.ReasonMastery {
		t.Fatalf("submission fields lost: %+v", got)
	}
}

func TestLoadMergesDefaultsIntoPartialDocument(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client)

	// A document written by an older deployment may miss newer fields; the
	// defaults fill them in.
	if err := client.Set(ctx, stateKey, `{"submissions":[]}`, 0).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	agg, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(agg.AdminAnswers) != domain.TotalQuestions {
		t.Fatalf("expected default key merged in, got %d entries", len(agg.AdminAnswers))
	}
	if agg.FormTitle != domain.DefaultFormTitle {
		t.Fatalf("expected default title merged in, got %q", agg.FormTitle)
	}
}
