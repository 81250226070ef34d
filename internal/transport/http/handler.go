package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"simulado-service/internal/app"
	"simulado-service/internal/domain"
)

// Handler exposes the exam service as a JSON API. Admin routes sit behind a
// static basic-auth credential check; when no password is configured the
// admin surface stays disabled.
type Handler struct {
	service   *app.ExamService
	adminUser string
	adminPass string
}

func NewHandler(service *app.ExamService, adminUser, adminPass string) *Handler {
	return &Handler{service: service, adminUser: adminUser, adminPass: adminPass}
}

// Routes wires every endpoint onto a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/info", h.handleInfo)
	mux.HandleFunc("POST /api/submissions", h.handleSubmit)
	mux.HandleFunc("POST /api/login", h.handleLogin)
	mux.HandleFunc("GET /api/ranking", h.handleRanking)
	mux.HandleFunc("GET /api/appeals", h.handleAppeals)
	mux.HandleFunc("POST /api/appeals", h.handleSubmitAppeal)
	mux.HandleFunc("POST /api/diagnosis", h.handleDiagnosis)

	mux.HandleFunc("GET /api/admin/answer-key", h.admin(h.handleGetAnswerKey))
	mux.HandleFunc("PUT /api/admin/answer-key", h.admin(h.handlePutAnswerKey))
	mux.HandleFunc("GET /api/admin/appeals", h.admin(h.handlePendingAppeals))
	mux.HandleFunc("POST /api/admin/appeals/{id}/resolution", h.admin(h.handleResolveAppeal))
	mux.HandleFunc("GET /api/admin/report", h.admin(h.handleReport))
	mux.HandleFunc("PUT /api/admin/deadline", h.admin(h.handleDeadline))
	mux.HandleFunc("PUT /api/admin/title", h.admin(h.handleTitle))
	mux.HandleFunc("PUT /api/admin/metadata", h.admin(h.handleMetadata))
	mux.HandleFunc("POST /api/admin/reset", h.admin(h.handleReset))
	return mux
}

func (h *Handler) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.adminPass == "" {
			writeError(w, http.StatusForbidden, "admin access not configured")
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(h.adminUser)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(h.adminPass)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="simulado admin"`)
			writeError(w, http.StatusUnauthorized, "invalid admin credentials")
			return
		}
		next(w, r)
	}
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.PortalInfo(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type submitRequest struct {
	User    domain.User        `json:"user"`
	Answers domain.UserAnswers `json:"answers"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.service.Submit(r.Context(), req.User, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type loginRequest struct {
	CPF string `json:"cpf"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.service.Login(r.Context(), req.CPF)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type rankingResponse struct {
	Approved []domain.Submission `json:"approved"`
	Rejected []domain.Submission `json:"rejected"`
}

func (h *Handler) handleRanking(w http.ResponseWriter, r *http.Request) {
	approved, rejected, err := h.service.RankingBoard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankingResponse{Approved: approved, Rejected: rejected})
}

func (h *Handler) handleAppeals(w http.ResponseWriter, r *http.Request) {
	cpf := r.URL.Query().Get("cpf")
	view, err := h.service.Appeals(r.Context(), cpf)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleSubmitAppeal(w http.ResponseWriter, r *http.Request) {
	var req app.AppealRequest
	if !decode(w, r, &req) {
		return
	}
	appeal, err := h.service.SubmitAppeal(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appeal)
}

type diagnosisRequest struct {
	CPF       string                         `json:"cpf"`
	Diagnosis map[int]domain.DiagnosisReason `json:"diagnosis"`
}

func (h *Handler) handleDiagnosis(w http.ResponseWriter, r *http.Request) {
	var req diagnosisRequest
	if !decode(w, r, &req) {
		return
	}
	sub, err := h.service.SaveSelfDiagnosis(r.Context(), req.CPF, req.Diagnosis)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) handleGetAnswerKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.service.AnswerKey(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, key)
}

type answerKeyRequest struct {
	Answers domain.AnswerKey `json:"answers"`
}

func (h *Handler) handlePutAnswerKey(w http.ResponseWriter, r *http.Request) {
	var req answerKeyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.service.ApplyAnswerKey(r.Context(), req.Answers); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePendingAppeals(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.PendingAppeals(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *Handler) handleResolveAppeal(w http.ResponseWriter, r *http.Request) {
	var res app.AppealResolution
	if !decode(w, r, &res) {
		return
	}
	appeal, err := h.service.ResolveAppeal(r.Context(), r.PathValue("id"), res)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appeal)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ResultsReport(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type deadlineRequest struct {
	Deadline string `json:"deadline"`
}

func (h *Handler) handleDeadline(w http.ResponseWriter, r *http.Request) {
	var req deadlineRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.service.SetAppealDeadline(r.Context(), req.Deadline); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type titleRequest struct {
	Title string `json:"title"`
}

func (h *Handler) handleTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.service.SetFormTitle(r.Context(), req.Title); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type metadataRequest struct {
	EditalTopics     map[string][]string             `json:"editalTopics"`
	QuestionMetadata map[int]domain.QuestionMetadata `json:"questionMetadata"`
}

func (h *Handler) handleMetadata(w http.ResponseWriter, r *http.Request) {
	var req metadataRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.service.SaveMetadata(r.Context(), req.EditalTopics, req.QuestionMetadata); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

type errorPayload struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorPayload{Message: message})
}

// writeServiceError maps domain errors onto HTTP statuses: conflicts for
// duplicates, 404 for lookups, 400 for rejected input, 500 for store I/O.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCPFRegistered),
		errors.Is(err, domain.ErrNicknameTaken),
		errors.Is(err, domain.ErrDuplicateAppeal),
		errors.Is(err, domain.ErrAppealResolved):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrAppealNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrInvalidQuestion),
		errors.Is(err, domain.ErrInvalidAnswer),
		errors.Is(err, domain.ErrInvalidKeyEntry),
		errors.Is(err, domain.ErrAppealsNotOpen),
		errors.Is(err, domain.ErrAppealsClosed),
		errors.Is(err, domain.ErrEmptyArgument),
		errors.Is(err, domain.ErrMissingDecision),
		errors.Is(err, domain.ErrMissingNewAnswer),
		errors.Is(err, domain.ErrInvalidResolution),
		errors.Is(err, domain.ErrInvalidDeadline):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "operation failed, please retry")
	}
}
