package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// errMalformedBody marks request bodies that are not valid JSON at all.
var errMalformedBody = errors.New("malformed request body")

// Handlers exposes trivia.Service over HTTP.
type Handlers struct {
	svc     *trivia.Service
	metrics *Metrics
	logger  zerolog.Logger
}

// NewHandlers creates HTTP handlers for the trivia endpoints.
func NewHandlers(svc *trivia.Service, metrics *Metrics, logger zerolog.Logger) *Handlers {
	return &Handlers{
		svc:     svc,
		metrics: metrics,
		logger:  logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Categories handles GET /categories
func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, struct {
		Success    bool             `json:"success"`
		Categories map[int64]string `json:"categories"`
	}{true, cats})
}

// ListQuestions handles GET /questions?page=N
func (h *Handlers) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page := trivia.ParsePage(r.URL.Query().Get("page"))
	res, err := h.svc.ListQuestions(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, struct {
		Success bool `json:"success"`
		trivia.QuestionPage
	}{true, res})
}

// SearchQuestions handles POST /questions/search
func (h *Handlers) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req trivia.SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.Search(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, struct {
		Success bool `json:"success"`
		trivia.QuestionList
	}{true, res})
}

// QuestionsByCategory handles GET /categories/{id}/questions
func (h *Handlers) QuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.QuestionsByCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, struct {
		Success bool `json:"success"`
		trivia.QuestionList
	}{true, res})
}

// CreateQuestion handles POST /questions
func (h *Handlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req trivia.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.CreateQuestion(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, struct {
		Success bool `json:"success"`
		trivia.Created
	}{true, res})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *Handlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	res, err := h.svc.DeleteQuestion(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, struct {
		Success bool `json:"success"`
		trivia.Deleted
	}{true, res})
}

// PlayQuiz handles POST /quizzes
func (h *Handlers) PlayQuiz(w http.ResponseWriter, r *http.Request) {
	var req trivia.QuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.PlayQuiz(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if res.Warning != "" {
		h.metrics.quizLowPool()
	}
	h.respond(w, r, struct {
		Success bool `json:"success"`
		trivia.QuizResult
	}{true, res})
}

// decodeJSON reads a single JSON object into dst. Syntax problems yield
// errMalformedBody; well-formed bodies with wrongly typed fields yield an
// unprocessable trivia error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxErr), errors.As(err, &maxErr),
			errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return errMalformedBody
		default:
			return &trivia.Error{Kind: trivia.KindUnprocessable, Op: "decode request", Err: err}
		}
	}
	return nil
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	if errors.Is(err, errMalformedBody) {
		logger.Debug().Err(err).Msg("rejecting malformed body")
		httperrors.RespondBadRequest(w)
		return
	}

	switch trivia.KindOf(err) {
	case trivia.KindNotFound:
		logger.Debug().Err(err).Msg("request yielded no results")
		httperrors.RespondNotFound(w)
	case trivia.KindBadRequest:
		httperrors.RespondBadRequest(w)
	default:
		logger.Warn().Err(err).Msg("request unprocessable")
		httperrors.RespondUnprocessable(w)
	}
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("encode response failed")
		httperrors.RespondInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
