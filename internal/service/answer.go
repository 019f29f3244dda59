// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// The check harness in internal/harness talks to AnswerService directly, the
// same way the HTTP handlers do. Neither knows which database is underneath.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

// Validation constants.
const (
	MaxAnswerContentLength = 10000
	MaxAuthorLength        = 100
)

// AnswerService is the data-access object for answers.
//
// TWO KINDS OF FAILURE:
// Create, Update and Delete return a model.Result: a bad input, a missing row
// or a permission denial is an expected outcome the caller branches on, and
// the Result carries a message for display. Read, Search and Size return a
// plain error instead, because their callers want the value or nothing.
type AnswerService struct {
	repo   repository.AnswerRepository
	logger *slog.Logger
}

// NewAnswerService creates an AnswerService over repo.
func NewAnswerService(repo repository.AnswerRepository, logger *slog.Logger) *AnswerService {
	return &AnswerService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and stores a new answer to questionID.
//
// On success the Result carries the answer with its database-generated ID.
// An unknown question, a blank author or content, or a database error all
// produce Success=false with the reason in Message.
func (s *AnswerService) Create(ctx context.Context, userID, questionID int64, author, content string) model.Result[*model.Answer] {
	author = strings.TrimSpace(author)

	if questionID <= 0 {
		return model.Fail[*model.Answer](apperror.ValidationFailed("questionId", "a valid question is required"))
	}
	if author == "" {
		return model.Fail[*model.Answer](apperror.ValidationFailed("author", "author is required"))
	}
	if utf8.RuneCountInString(author) > MaxAuthorLength {
		return model.Fail[*model.Answer](apperror.ValidationFailed("author",
			fmt.Sprintf("author must be %d characters or less", MaxAuthorLength)))
	}
	if err := validateContent(content); err != nil {
		return model.Fail[*model.Answer](err)
	}

	answer := &model.Answer{
		UserID:     userID,
		QuestionID: questionID,
		Author:     author,
		Content:    content,
	}

	if err := s.repo.Create(ctx, answer); err != nil {
		if !errors.Is(err, apperror.ErrValidation) {
			s.logger.Error("failed to create answer",
				slog.Int64("questionID", questionID),
				slog.String("error", err.Error()),
			)
		}
		return model.Fail[*model.Answer](err)
	}

	s.logger.Info("answer created",
		slog.Int64("id", answer.ID),
		slog.Int64("questionID", answer.QuestionID),
		slog.String("author", answer.Author),
	)

	return model.OK("answer created", answer)
}

// Read returns the answer with the given id, or an error wrapping
// apperror.ErrNotFound when there is none.
func (s *AnswerService) Read(ctx context.Context, id int64) (*model.Answer, error) {
	answer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading answer: %w", err)
	}
	return answer, nil
}

// Update replaces the content and solution flag of an answer.
//
// PERMISSIONS:
// The actor must own the answer, or be staff (instructor/admin). Staff may
// mark someone else's answer as the solution; that is the usual case.
//
// questionID must match the question the answer belongs to. Answers never
// move between questions.
func (s *AnswerService) Update(ctx context.Context, answerID, questionID int64, actor *model.User, content string, isSolution bool) model.Result[*model.Answer] {
	if err := validateContent(content); err != nil {
		return model.Fail[*model.Answer](err)
	}

	answer, err := s.repo.GetByID(ctx, answerID)
	if err != nil {
		return model.Fail[*model.Answer](err)
	}
	if answer.QuestionID != questionID {
		return model.Fail[*model.Answer](apperror.ValidationFailed("questionId",
			fmt.Sprintf("answer %d does not belong to question %d", answerID, questionID)))
	}
	if err := authorize(actor, answer, "update"); err != nil {
		return model.Fail[*model.Answer](err)
	}

	answer.Content = content
	answer.IsSolution = isSolution

	if err := s.repo.Update(ctx, answer); err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to update answer",
				slog.Int64("id", answerID),
				slog.String("error", err.Error()),
			)
		}
		return model.Fail[*model.Answer](err)
	}

	s.logger.Info("answer updated",
		slog.Int64("id", answer.ID),
		slog.Int64("actorID", actor.ID),
		slog.Bool("isSolution", answer.IsSolution),
	)

	return model.OK("answer updated", answer)
}

// Delete removes an answer. On success the Result carries the removed answer.
// The same ownership rule as Update applies.
func (s *AnswerService) Delete(ctx context.Context, answerID int64, actor *model.User) model.Result[*model.Answer] {
	answer, err := s.repo.GetByID(ctx, answerID)
	if err != nil {
		return model.Fail[*model.Answer](err)
	}
	if err := authorize(actor, answer, "delete"); err != nil {
		return model.Fail[*model.Answer](err)
	}

	if err := s.repo.Delete(ctx, answerID); err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to delete answer",
				slog.Int64("id", answerID),
				slog.String("error", err.Error()),
			)
		}
		return model.Fail[*model.Answer](err)
	}

	s.logger.Info("answer deleted",
		slog.Int64("id", answerID),
		slog.Int64("actorID", actor.ID),
	)

	return model.OK("answer deleted", answer)
}

// Search returns answers whose content contains keyword, ignoring case,
// narrowed by filter. The slice is never nil; no match gives an empty slice.
func (s *AnswerService) Search(ctx context.Context, keyword string, filter repository.SearchFilter) ([]model.Answer, error) {
	answers, err := s.repo.Search(ctx, strings.TrimSpace(keyword), filter)
	if err != nil {
		return nil, fmt.Errorf("searching answers: %w", err)
	}
	if answers == nil {
		answers = []model.Answer{}
	}
	return answers, nil
}

// Size returns the total number of stored answers.
func (s *AnswerService) Size(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting answers: %w", err)
	}
	return n, nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperror.ValidationFailed("content", "answer content is required")
	}
	if utf8.RuneCountInString(content) > MaxAnswerContentLength {
		return apperror.ValidationFailed("content",
			fmt.Sprintf("answer content must be %d characters or less", MaxAnswerContentLength))
	}
	return nil
}

// authorize enforces the ownership rule shared by Update and Delete.
func authorize(actor *model.User, answer *model.Answer, action string) error {
	if actor == nil {
		return apperror.Unauthorized("an acting user is required to " + action + " an answer")
	}
	if actor.ID == answer.UserID || actor.IsStaff() {
		return nil
	}
	return apperror.Forbidden(fmt.Sprintf("user %d may not %s answer %d", actor.ID, action, answer.ID))
}
