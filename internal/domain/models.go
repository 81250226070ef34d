package domain

import "time"

// Option is a single answer-sheet mark. Candidates may choose A-E; the
// answer key additionally uses X to mark a question as annulled.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
	OptionE Option = "E"
	// Annulled is only valid inside the answer key, never on a candidate sheet.
	Annulled Option = "X"
)

// IsAnswer reports whether the option is a valid candidate choice (A-E).
func (o Option) IsAnswer() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD, OptionE:
		return true
	}
	return false
}

// IsKeyEntry reports whether the option is valid inside the answer key.
func (o Option) IsKeyEntry() bool {
	return o == Annulled || o.IsAnswer()
}

// AnswerKey maps question number (1..TotalQuestions) to the canonical answer.
// A missing entry means the question has no canonical answer and can never
// be counted as correct.
type AnswerKey map[int]Option

// Clone returns an independent copy of the key.
func (k AnswerKey) Clone() AnswerKey {
	out := make(AnswerKey, len(k))
	for q, o := range k {
		out[q] = o
	}
	return out
}

// UserAnswers is a candidate's sparse answer sheet.
type UserAnswers map[int]Option

// User is the candidate profile captured at identification time.
type User struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	CPF      string `json:"cpf"`
	DOB      string `json:"dob"` // YYYY-MM-DD
}

// ApprovalStatus keeps the original Portuguese wire values.
type ApprovalStatus string

const (
	StatusApproved ApprovalStatus = "APROVADO"
	StatusRejected ApprovalStatus = "REPROVADO"
)

// DiagnosisReason is a candidate-chosen code explaining an answer.
// It groups questions in the self-diagnosis view and never affects scoring.
type DiagnosisReason string

const (
	ReasonMastery       DiagnosisReason = "DOMINIO"
	ReasonEducatedGuess DiagnosisReason = "CHUTE_CONSCIENTE"
	ReasonLuckyGuess    DiagnosisReason = "CHUTE_SORTE"
	ReasonContentGap    DiagnosisReason = "FALTA_CONTEUDO"
	ReasonInattention   DiagnosisReason = "FALTA_ATENCAO"
)

// QuestionMetadata is admin-maintained taxonomy used only by self-diagnosis.
type QuestionMetadata struct {
	Theme  string   `json:"theme"`
	Topics []string `json:"topics"`
}

// Submission is one candidate's persisted answer sheet with derived results.
// Score, module scores, status and reasons are overwritten whenever the
// answer key changes; age is fixed at submission time.
type Submission struct {
	User            User                    `json:"user"`
	Score           int                     `json:"score"`
	Answers         UserAnswers             `json:"answers"`
	Status          ApprovalStatus          `json:"status"`
	ReprovalReasons []string                `json:"reprovalReasons,omitempty"`
	Age             int                     `json:"age"`
	Module1Score    int                     `json:"module1Score"`
	Module2Score    int                     `json:"module2Score"`
	SelfDiagnosis   map[int]DiagnosisReason `json:"selfDiagnosis,omitempty"`
}

// AppealRequestType doubles as the admin decision type on approval.
type AppealRequestType string

const (
	ChangeAnswer  AppealRequestType = "CHANGE_ANSWER"
	AnnulQuestion AppealRequestType = "ANNUL_QUESTION"
)

// IsValid reports whether the request type is one of the two known kinds.
func (t AppealRequestType) IsValid() bool {
	return t == ChangeAnswer || t == AnnulQuestion
}

// AppealStatus starts at PENDING and transitions exactly once to one of the
// terminal states.
type AppealStatus string

const (
	AppealPending         AppealStatus = "PENDING"
	AppealApproved        AppealStatus = "APPROVED"
	AppealDenied          AppealStatus = "DENIED"
	AppealAlreadyApproved AppealStatus = "ALREADY_APPROVED"
)

// IsTerminal reports whether the status is a valid resolution outcome.
func (s AppealStatus) IsTerminal() bool {
	return s == AppealApproved || s == AppealDenied || s == AppealAlreadyApproved
}

// Appeal is one candidate's contention against one question of the key.
type Appeal struct {
	ID             string            `json:"id"`
	UserCPF        string            `json:"userCpf"`
	UserNickname   string            `json:"userNickname"`
	QuestionNumber int               `json:"questionNumber"`
	Argument       string            `json:"argument"`
	RequestType    AppealRequestType `json:"requestType"`
	Status         AppealStatus      `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`

	AdminDecision      AppealRequestType `json:"adminDecision,omitempty"`
	NewAnswer          Option            `json:"newAnswer,omitempty"`
	AdminJustification string            `json:"adminJustification,omitempty"`
	ResolvedAt         *time.Time        `json:"resolvedAt,omitempty"`
}

// Aggregate is the single shared persisted state object: answer key, all
// submissions and all appeals, plus portal configuration. It is always read
// and written back as one unit.
type Aggregate struct {
	Submissions      []Submission             `json:"submissions"`
	AdminAnswers     AnswerKey                `json:"adminAnswers"`
	Appeals          []Appeal                 `json:"appeals"`
	AppealDeadline   string                   `json:"appealDeadline"`
	FormTitle        string                   `json:"formTitle"`
	EditalTopics     map[string][]string      `json:"editalTopics"`
	QuestionMetadata map[int]QuestionMetadata `json:"questionMetadata"`
}

// Clone deep-copies the aggregate so callers can mutate freely without
// leaking state through the store.
func (a Aggregate) Clone() Aggregate {
	out := a
	out.AdminAnswers = a.AdminAnswers.Clone()

	out.Submissions = make([]Submission, len(a.Submissions))
	for i, sub := range a.Submissions {
		out.Submissions[i] = sub.clone()
	}

	out.Appeals = make([]Appeal, len(a.Appeals))
	copy(out.Appeals, a.Appeals)
	for i, ap := range a.Appeals {
		if ap.ResolvedAt != nil {
			t := *ap.ResolvedAt
			out.Appeals[i].ResolvedAt = &t
		}
	}

	out.EditalTopics = make(map[string][]string, len(a.EditalTopics))
	for name, topics := range a.EditalTopics {
		out.EditalTopics[name] = append([]string(nil), topics...)
	}

	out.QuestionMetadata = make(map[int]QuestionMetadata, len(a.QuestionMetadata))
	for q, meta := range a.QuestionMetadata {
		meta.Topics = append([]string(nil), meta.Topics...)
		out.QuestionMetadata[q] = meta
	}
	return out
}

func (s Submission) clone() Submission {
	out := s
	out.Answers = make(UserAnswers, len(s.Answers))
	for q, o := range s.Answers {
		out.Answers[q] = o
	}
	out.ReprovalReasons = append([]string(nil), s.ReprovalReasons...)
	if s.SelfDiagnosis != nil {
		out.SelfDiagnosis = make(map[int]DiagnosisReason, len(s.SelfDiagnosis))
		for q, r := range s.SelfDiagnosis {
			out.SelfDiagnosis[q] = r
		}
	}
	return out
}
