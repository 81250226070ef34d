package domain

import "errors"

var (
	// ErrCPFRegistered is returned when the CPF or e-mail already has a submission.
	ErrCPFRegistered = errors.New("cpf or e-mail already registered")
	// ErrNicknameTaken is returned on a case-insensitive nickname clash.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrSubmissionNotFound indicates the CPF has no stored submission.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrInvalidProfile indicates the identification form failed validation.
	ErrInvalidProfile = errors.New("invalid candidate profile")
	// ErrInvalidQuestion indicates a question number outside 1..TotalQuestions.
	ErrInvalidQuestion = errors.New("question number out of range")
	// ErrInvalidAnswer indicates an option outside A-E where an answer is required.
	ErrInvalidAnswer = errors.New("invalid answer option")
	// ErrInvalidKeyEntry indicates an answer-key value outside A-E/X.
	ErrInvalidKeyEntry = errors.New("invalid answer key entry")

	// ErrAppealsNotOpen is returned while no appeal deadline has been published.
	ErrAppealsNotOpen = errors.New("appeals phase not open")
	// ErrAppealsClosed is returned after the published deadline has passed.
	ErrAppealsClosed = errors.New("appeal deadline has passed")
	// ErrDuplicateAppeal enforces one appeal per candidate per question.
	ErrDuplicateAppeal = errors.New("question already appealed by this candidate")
	// ErrEmptyArgument indicates an appeal without a written argument.
	ErrEmptyArgument = errors.New("appeal argument is required")
	// ErrAppealNotFound indicates an unknown appeal id.
	ErrAppealNotFound = errors.New("appeal not found")
	// ErrAppealResolved rejects re-resolving an already resolved appeal.
	ErrAppealResolved = errors.New("appeal already resolved")
	// ErrMissingDecision rejects APPROVED resolutions without a decision type.
	ErrMissingDecision = errors.New("approved appeal requires a decision type")
	// ErrMissingNewAnswer rejects CHANGE_ANSWER decisions without a new answer.
	ErrMissingNewAnswer = errors.New("change-answer decision requires a new answer")
	// ErrInvalidResolution rejects resolution outcomes that are not terminal.
	ErrInvalidResolution = errors.New("resolution status must be approved, denied or already-approved")

	// ErrInvalidDeadline indicates an unparseable appeal deadline.
	ErrInvalidDeadline = errors.New("invalid appeal deadline")
)
