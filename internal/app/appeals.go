package app

import (
	"context"
	"strings"

	"simulado-service/internal/domain"
)

// AppealRequest is a candidate's request to change or annul one question.
type AppealRequest struct {
	UserCPF        string                   `json:"userCpf"`
	QuestionNumber int                      `json:"questionNumber"`
	Argument       string                   `json:"argument"`
	RequestType    domain.AppealRequestType `json:"requestType"`
}

// SubmitAppeal files a new PENDING appeal. The appeals window must be open
// (a published, future deadline), the candidate must have a submission, and
// each candidate gets at most one appeal per question.
func (s *ExamService) SubmitAppeal(ctx context.Context, req AppealRequest) (domain.Appeal, error) {
	if req.QuestionNumber < 1 || req.QuestionNumber > domain.TotalQuestions {
		return domain.Appeal{}, domain.ErrInvalidQuestion
	}
	if strings.TrimSpace(req.Argument) == "" {
		return domain.Appeal{}, domain.ErrEmptyArgument
	}
	if !req.RequestType.IsValid() {
		return domain.Appeal{}, domain.ErrInvalidResolution
	}

	agg, err := s.store.Load(ctx)
	if err != nil {
		return domain.Appeal{}, err
	}

	if agg.AppealDeadline == "" {
		return domain.Appeal{}, domain.ErrAppealsNotOpen
	}
	deadline, err := parseDeadline(agg.AppealDeadline)
	if err != nil {
		return domain.Appeal{}, domain.ErrAppealsNotOpen
	}
	if deadline.Before(s.now()) {
		return domain.Appeal{}, domain.ErrAppealsClosed
	}

	sub, ok := findByCPF(agg.Submissions, req.UserCPF)
	if !ok {
		return domain.Appeal{}, domain.ErrSubmissionNotFound
	}
	for _, ap := range agg.Appeals {
		if ap.UserCPF == req.UserCPF && ap.QuestionNumber == req.QuestionNumber {
			return domain.Appeal{}, domain.ErrDuplicateAppeal
		}
	}

	appeal := domain.Appeal{
		ID:             s.newID(),
		UserCPF:        req.UserCPF,
		UserNickname:   sub.User.Nickname,
		QuestionNumber: req.QuestionNumber,
		Argument:       req.Argument,
		RequestType:    req.RequestType,
		Status:         domain.AppealPending,
		CreatedAt:      s.now(),
	}
	agg.Appeals = append(agg.Appeals, appeal)
	if err := s.store.Save(ctx, agg); err != nil {
		return domain.Appeal{}, err
	}
	return appeal, nil
}

// AppealsView groups the appeal lists the candidate pages show: the
// candidate's own appeals and the publicly visible approved ones.
type AppealsView struct {
	Mine     []domain.Appeal `json:"mine"`
	Approved []domain.Appeal `json:"approved"`
}

// Appeals returns the appeals view for one candidate.
func (s *ExamService) Appeals(ctx context.Context, cpf string) (AppealsView, error) {
	agg, err := s.snapshot(ctx)
	if err != nil {
		return AppealsView{}, err
	}
	view := AppealsView{Mine: []domain.Appeal{}, Approved: []domain.Appeal{}}
	for _, ap := range agg.Appeals {
		if ap.UserCPF == cpf {
			view.Mine = append(view.Mine, ap)
		}
		if ap.Status == domain.AppealApproved {
			view.Approved = append(view.Approved, ap)
		}
	}
	return view, nil
}

// PendingAppeals lists unresolved appeals for the admin queue.
func (s *ExamService) PendingAppeals(ctx context.Context) ([]domain.Appeal, error) {
	agg, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	pending := []domain.Appeal{}
	for _, ap := range agg.Appeals {
		if ap.Status == domain.AppealPending {
			pending = append(pending, ap)
		}
	}
	return pending, nil
}

// AppealResolution is the admin decision applied to one pending appeal.
type AppealResolution struct {
	Status        domain.AppealStatus      `json:"status"`
	Decision      domain.AppealRequestType `json:"decision,omitempty"`
	NewAnswer     domain.Option            `json:"newAnswer,omitempty"`
	Justification string                   `json:"justification,omitempty"`
}

// validate rejects malformed resolutions before any state is touched.
func (r AppealResolution) validate() error {
	if !r.Status.IsTerminal() {
		return domain.ErrInvalidResolution
	}
	if r.Status != domain.AppealApproved {
		return nil
	}
	if !r.Decision.IsValid() {
		return domain.ErrMissingDecision
	}
	if r.Decision == domain.ChangeAnswer && !r.NewAnswer.IsAnswer() {
		return domain.ErrMissingNewAnswer
	}
	return nil
}

// ResolveAppeal applies the admin decision. PENDING transitions exactly once
// to a terminal status; resolving twice fails. An APPROVED decision mutates
// the answer key and rescores every submission in the same
// read-modify-write cycle, so no submission is ever left graded against a
// stale key. DENIED and ALREADY_APPROVED touch only the appeal itself.
func (s *ExamService) ResolveAppeal(ctx context.Context, appealID string, res AppealResolution) (domain.Appeal, error) {
	if err := res.validate(); err != nil {
		return domain.Appeal{}, err
	}

	agg, err := s.store.Load(ctx)
	if err != nil {
		return domain.Appeal{}, err
	}

	idx := -1
	for i, ap := range agg.Appeals {
		if ap.ID == appealID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Appeal{}, domain.ErrAppealNotFound
	}
	appeal := agg.Appeals[idx]
	if appeal.Status != domain.AppealPending {
		return domain.Appeal{}, domain.ErrAppealResolved
	}

	resolvedAt := s.now()
	appeal.Status = res.Status
	appeal.AdminJustification = res.Justification
	appeal.ResolvedAt = &resolvedAt

	if res.Status == domain.AppealApproved {
		appeal.AdminDecision = res.Decision
		key := agg.AdminAnswers.Clone()
		switch res.Decision {
		case domain.AnnulQuestion:
			key[appeal.QuestionNumber] = domain.Annulled
		case domain.ChangeAnswer:
			appeal.NewAnswer = res.NewAnswer
			key[appeal.QuestionNumber] = res.NewAnswer
		}
		agg.AdminAnswers = key
		agg.Submissions = rescoreAll(agg.Submissions, key)
	}

	agg.Appeals[idx] = appeal
	if err := s.store.Save(ctx, agg); err != nil {
		return domain.Appeal{}, err
	}
	return appeal, nil
}
