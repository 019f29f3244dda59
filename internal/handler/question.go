package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/service"
)

// QuestionHandler serves /api/questions.
type QuestionHandler struct {
	questions *service.QuestionService
	users     UserLookup
	logger    *slog.Logger
}

func NewQuestionHandler(questions *service.QuestionService, users UserLookup, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		users:     users,
		logger:    logger,
	}
}

type createQuestionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// HandleList returns a page of questions, oldest first.
//
// HTTP: GET /api/questions?limit=20&offset=0
func (h *QuestionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	questions, err := h.questions.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeResult(w, r, h.logger, http.StatusOK, model.OK("", questions))
}

// HandleGet returns one question.
//
// HTTP: GET /api/questions/{id}
func (h *QuestionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	question, err := h.questions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeResult(w, r, h.logger, http.StatusOK, model.OK("", question))
}

// HandleCreate asks a new question as the logged-in user.
//
// HTTP: POST /api/questions
// REQUEST BODY: {"title": "...", "content": "..."}
func (h *QuestionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req createQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	question, err := h.questions.Create(r.Context(), user.ID, user.Name, req.Title, req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeResult(w, r, h.logger, http.StatusCreated, model.OK("question created", question))
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed(name, name+" must be an integer")
	}
	return n, nil
}
