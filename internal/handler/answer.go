// Package handler contains the HTTP handlers of the JSON API.
//
// Handlers are thin: they parse the request, call one service method and
// write the result. Validation, permissions and storage all live below them.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
	"github.com/sakif/homework-qa/internal/service"
)

// AnswerHandler serves /api/answers.
type AnswerHandler struct {
	answers *service.AnswerService
	users   UserLookup
	logger  *slog.Logger
}

func NewAnswerHandler(answers *service.AnswerService, users UserLookup, logger *slog.Logger) *AnswerHandler {
	return &AnswerHandler{
		answers: answers,
		users:   users,
		logger:  logger,
	}
}

type createAnswerRequest struct {
	QuestionID int64  `json:"questionId"`
	Content    string `json:"content"`
}

type updateAnswerRequest struct {
	QuestionID int64  `json:"questionId"`
	Content    string `json:"content"`
	IsSolution bool   `json:"isSolution"`
}

type countResponse struct {
	Count int `json:"count"`
}

// HandleSearch lists answers matching a keyword.
//
// HTTP: GET /api/answers?q=java&questionId=1&userId=3
//
// Every parameter is optional; no parameters lists every answer.
func (h *AnswerHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	questionID, err := optionalID(r, "questionId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	userID, err := optionalID(r, "userId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	answers, err := h.answers.Search(r.Context(), r.URL.Query().Get("q"), repository.SearchFilter{
		QuestionID: questionID,
		UserID:     userID,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeResult(w, r, h.logger, http.StatusOK, model.OK("", answers))
}

// HandleCount returns the total number of answers.
//
// HTTP: GET /api/answers/count
func (h *AnswerHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.answers.Size(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeResult(w, r, h.logger, http.StatusOK, model.OK("", countResponse{Count: n}))
}

// HandleGet returns a single answer.
//
// HTTP: GET /api/answers/{id}
func (h *AnswerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	answer, err := h.answers.Read(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeResult(w, r, h.logger, http.StatusOK, model.OK("", answer))
}

// HandleCreate posts an answer as the logged-in user. The author shown on the
// answer is the user's display name.
//
// HTTP: POST /api/answers
// REQUEST BODY: {"questionId": 1, "content": "..."}
func (h *AnswerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req createAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res := h.answers.Create(r.Context(), user.ID, req.QuestionID, user.Name, req.Content)
	writeResult(w, r, h.logger, http.StatusCreated, res)
}

// HandleUpdate edits an answer's content and solution flag.
//
// HTTP: PUT /api/answers/{id}
// REQUEST BODY: {"questionId": 1, "content": "...", "isSolution": true}
func (h *AnswerHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req updateAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res := h.answers.Update(r.Context(), id, req.QuestionID, user, req.Content, req.IsSolution)
	writeResult(w, r, h.logger, http.StatusOK, res)
}

// HandleDelete removes an answer and returns it.
//
// HTTP: DELETE /api/answers/{id}
func (h *AnswerHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res := h.answers.Delete(r.Context(), id, user)
	writeResult(w, r, h.logger, http.StatusOK, res)
}
