package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"simulado-service/internal/domain"
)

// AggregateStore abstracts how the shared state document is persisted
// (in-memory, Redis, Postgres). Load must return the latest committed state;
// Save replaces the whole document in one write. The store gives no
// transactional guarantees beyond single-document atomicity, so every
// mutating use case re-reads the latest aggregate immediately before
// computing and writes the whole thing back. Two concurrent writers can
// still race; the second full-document write wins. That lost-update window
// is an accepted limitation of the portal, not something the engines try to
// hide.
type AggregateStore interface {
	Load(ctx context.Context) (domain.Aggregate, error)
	Save(ctx context.Context, agg domain.Aggregate) error
}

// ExamService contains the portal use cases: intake, scoring, ranking views,
// appeals, answer-key revision and admin configuration.
type ExamService struct {
	store AggregateStore
	now   func() time.Time
	newID func() string

	// view coalesces concurrent read-only loads; mutations bypass it so they
	// always see the latest committed document.
	view singleflight.Group
}

func NewExamService(store AggregateStore) *ExamService {
	return &ExamService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// NewExamServiceWithClock is test-only for deterministic timestamps and ages.
func NewExamServiceWithClock(store AggregateStore, now func() time.Time) *ExamService {
	s := NewExamService(store)
	s.now = now
	return s
}

// SubmissionResult pairs a stored submission with its rank at the time the
// view was computed.
type SubmissionResult struct {
	Submission domain.Submission `json:"submission"`
	Rank       int               `json:"rank"`
	MaxScore   int               `json:"maxScore"`
}

// Submit validates the candidate profile, grades the sheet against the
// current key and appends the submission. Duplicate CPF/e-mail/nickname are
// rejected before anything is written. The returned rank is the full-chain
// rank over the whole collection.
func (s *ExamService) Submit(ctx context.Context, user domain.User, answers domain.UserAnswers) (SubmissionResult, error) {
	if err := validateProfile(user, s.now()); err != nil {
		return SubmissionResult{}, err
	}
	if err := validateAnswers(answers); err != nil {
		return SubmissionResult{}, err
	}

	agg, err := s.store.Load(ctx)
	if err != nil {
		return SubmissionResult{}, err
	}

	for _, sub := range agg.Submissions {
		if sub.User.CPF == user.CPF || strings.EqualFold(sub.User.Email, user.Email) {
			return SubmissionResult{}, domain.ErrCPFRegistered
		}
		if strings.EqualFold(sub.User.Nickname, user.Nickname) {
			return SubmissionResult{}, domain.ErrNicknameTaken
		}
	}

	age, err := ageAt(user.DOB, s.now())
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("%w: %v", domain.ErrInvalidProfile, err)
	}

	breakdown := Score(answers, agg.AdminAnswers)
	submission := domain.Submission{
		User:            user,
		Score:           breakdown.TotalScore,
		Answers:         answers,
		Status:          breakdown.Status,
		ReprovalReasons: breakdown.Reasons,
		Age:             age,
		Module1Score:    breakdown.Module1Score,
		Module2Score:    breakdown.Module2Score,
		SelfDiagnosis:   map[int]domain.DiagnosisReason{},
	}

	agg.Submissions = append(agg.Submissions, submission)
	if err := s.store.Save(ctx, agg); err != nil {
		return SubmissionResult{}, err
	}

	return SubmissionResult{
		Submission: submission,
		Rank:       RankOf(agg.Submissions, user.CPF),
		MaxScore:   domain.MaxScore,
	}, nil
}

// Login looks up a previous submission by CPF. The rank here intentionally
// uses the quick score-only comparator within the candidate's status group,
// which may differ from the full-chain rank shown at submission time.
func (s *ExamService) Login(ctx context.Context, cpf string) (SubmissionResult, error) {
	agg, err := s.snapshot(ctx)
	if err != nil {
		return SubmissionResult{}, err
	}
	sub, ok := findByCPF(agg.Submissions, cpf)
	if !ok {
		return SubmissionResult{}, domain.ErrSubmissionNotFound
	}
	return SubmissionResult{
		Submission: sub,
		Rank:       QuickRankOf(agg.Submissions, cpf),
		MaxScore:   domain.MaxScore,
	}, nil
}

// RankingBoard returns the approved and rejected groups, each in full
// tie-break order. Recomputed on every call; never persisted.
func (s *ExamService) RankingBoard(ctx context.Context) (approved, rejected []domain.Submission, err error) {
	agg, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	approved, rejected = SplitByStatus(agg.Submissions)
	return approved, rejected, nil
}

// ReportRow is one line of the admin results table.
type ReportRow struct {
	Rank       int               `json:"rank"`
	Submission domain.Submission `json:"submission"`
}

// ResultsReport orders every submission by the full chain, regardless of
// approval status, the way the admin results table shows them.
func (s *ExamService) ResultsReport(ctx context.Context) ([]ReportRow, error) {
	agg, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ordered := FullRank(agg.Submissions)
	rows := make([]ReportRow, len(ordered))
	for i, sub := range ordered {
		rows[i] = ReportRow{Rank: i + 1, Submission: sub}
	}
	return rows, nil
}

// Info is the public portal configuration.
type Info struct {
	FormTitle        string                          `json:"formTitle"`
	AppealDeadline   string                          `json:"appealDeadline"`
	EditalTopics     map[string][]string             `json:"editalTopics"`
	QuestionMetadata map[int]domain.QuestionMetadata `json:"questionMetadata"`
}

// PortalInfo returns title, deadline and the self-diagnosis taxonomy.
func (s *ExamService) PortalInfo(ctx context.Context) (Info, error) {
	agg, err := s.snapshot(ctx)
	if err != nil {
		return Info{}, err
	}
	return Info{
		FormTitle:        agg.FormTitle,
		AppealDeadline:   agg.AppealDeadline,
		EditalTopics:     agg.EditalTopics,
		QuestionMetadata: agg.QuestionMetadata,
	}, nil
}

// AnswerKey returns the current official key.
func (s *ExamService) AnswerKey(ctx context.Context) (domain.AnswerKey, error) {
	agg, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return agg.AdminAnswers, nil
}

// SaveSelfDiagnosis merges the candidate's diagnosis entries into their
// submission. Existing entries for other questions are kept; scoring is
// never affected.
func (s *ExamService) SaveSelfDiagnosis(ctx context.Context, cpf string, diagnosis map[int]domain.DiagnosisReason) (domain.Submission, error) {
	for q := range diagnosis {
		if q < 1 || q > domain.TotalQuestions {
			return domain.Submission{}, domain.ErrInvalidQuestion
		}
	}

	agg, err := s.store.Load(ctx)
	if err != nil {
		return domain.Submission{}, err
	}

	for i, sub := range agg.Submissions {
		if sub.User.CPF != cpf {
			continue
		}
		if sub.SelfDiagnosis == nil {
			sub.SelfDiagnosis = map[int]domain.DiagnosisReason{}
		}
		for q, reason := range diagnosis {
			sub.SelfDiagnosis[q] = reason
		}
		agg.Submissions[i] = sub
		if err := s.store.Save(ctx, agg); err != nil {
			return domain.Submission{}, err
		}
		return sub, nil
	}
	return domain.Submission{}, domain.ErrSubmissionNotFound
}

// SetAppealDeadline publishes (or clears) the appeal deadline. An empty
// deadline means the appeals phase is not open.
func (s *ExamService) SetAppealDeadline(ctx context.Context, deadline string) error {
	if deadline != "" {
		if _, err := parseDeadline(deadline); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidDeadline, err)
		}
	}
	agg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	agg.AppealDeadline = deadline
	return s.store.Save(ctx, agg)
}

// SetFormTitle updates the portal display title.
func (s *ExamService) SetFormTitle(ctx context.Context, title string) error {
	agg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	agg.FormTitle = title
	return s.store.Save(ctx, agg)
}

// SaveMetadata replaces the edital topics and per-question metadata. The
// core passes this taxonomy through; only the self-diagnosis view reads it.
func (s *ExamService) SaveMetadata(ctx context.Context, topics map[string][]string, meta map[int]domain.QuestionMetadata) error {
	agg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	agg.EditalTopics = topics
	agg.QuestionMetadata = meta
	return s.store.Save(ctx, agg)
}

// Reset wipes submissions and appeals and restores the default key and
// title, but keeps editalTopics and questionMetadata: those are test
// configuration, not candidate data.
func (s *ExamService) Reset(ctx context.Context) error {
	current, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	fresh := domain.DefaultAggregate()
	fresh.EditalTopics = current.EditalTopics
	fresh.QuestionMetadata = current.QuestionMetadata
	return s.store.Save(ctx, fresh)
}

// snapshot loads the aggregate for read-only views, collapsing concurrent
// identical loads into one store round-trip.
func (s *ExamService) snapshot(ctx context.Context) (domain.Aggregate, error) {
	result, err, _ := s.view.Do("aggregate", func() (interface{}, error) {
		return s.store.Load(ctx)
	})
	if err != nil {
		return domain.Aggregate{}, err
	}
	return result.(domain.Aggregate), nil
}

func validateProfile(user domain.User, now time.Time) error {
	if strings.TrimSpace(user.Nickname) == "" {
		return fmt.Errorf("%w: nickname is required", domain.ErrInvalidProfile)
	}
	at := strings.Index(user.Email, "@")
	if at <= 0 || !strings.Contains(user.Email[at:], ".") {
		return fmt.Errorf("%w: malformed e-mail", domain.ErrInvalidProfile)
	}
	if len(user.CPF) != 11 || strings.Trim(user.CPF, "0123456789") != "" {
		return fmt.Errorf("%w: cpf must be 11 digits", domain.ErrInvalidProfile)
	}
	dob, err := time.Parse("2006-01-02", user.DOB)
	if err != nil {
		return fmt.Errorf("%w: malformed date of birth", domain.ErrInvalidProfile)
	}
	if dob.After(now) {
		return fmt.Errorf("%w: date of birth in the future", domain.ErrInvalidProfile)
	}
	return nil
}

func validateAnswers(answers domain.UserAnswers) error {
	for q, option := range answers {
		if q < 1 || q > domain.TotalQuestions {
			return domain.ErrInvalidQuestion
		}
		if !option.IsAnswer() {
			return domain.ErrInvalidAnswer
		}
	}
	return nil
}

// ageAt computes full calendar years between dob and now.
func ageAt(dob string, now time.Time) (int, error) {
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, err
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age, nil
}

// parseDeadline accepts RFC3339 or the datetime-local shape the admin panel
// sends ("2006-01-02T15:04").
func parseDeadline(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", raw)
}
