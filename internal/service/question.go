package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

const (
	MaxQuestionTitleLength = 200
	DefaultListLimit       = 20
	MaxListLimit           = 100
)

// QuestionService handles the questions answers hang off.
type QuestionService struct {
	repo   repository.QuestionRepository
	logger *slog.Logger
}

func NewQuestionService(repo repository.QuestionRepository, logger *slog.Logger) *QuestionService {
	return &QuestionService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and stores a new question.
func (s *QuestionService) Create(ctx context.Context, userID int64, author, title, content string) (*model.Question, error) {
	author = strings.TrimSpace(author)
	title = strings.TrimSpace(title)

	if author == "" {
		return nil, apperror.ValidationFailed("author", "author is required")
	}
	if title == "" {
		return nil, apperror.ValidationFailed("title", "question title is required")
	}
	if utf8.RuneCountInString(title) > MaxQuestionTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("question title must be %d characters or less", MaxQuestionTitleLength))
	}
	if utf8.RuneCountInString(content) > MaxAnswerContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("question content must be %d characters or less", MaxAnswerContentLength))
	}

	question := &model.Question{
		UserID:  userID,
		Author:  author,
		Title:   title,
		Content: content,
	}
	if err := s.repo.Create(ctx, question); err != nil {
		s.logger.Error("failed to create question",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating question: %w", err)
	}

	s.logger.Info("question created",
		slog.Int64("id", question.ID),
		slog.String("title", question.Title),
	)
	return question, nil
}

func (s *QuestionService) Get(ctx context.Context, id int64) (*model.Question, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting question: %w", err)
	}
	return question, nil
}

// List returns a page of questions, oldest first. limit is clamped to
// [1, MaxListLimit]; zero or negative means DefaultListLimit.
func (s *QuestionService) List(ctx context.Context, limit, offset int) ([]model.Question, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	questions, err := s.repo.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	return questions, nil
}
