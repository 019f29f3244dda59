// Package repository declares the storage contracts. Backends live in the
// sqlite and postgres sub-packages; services only ever see these interfaces.
package repository

import (
	"context"

	"github.com/sakif/homework-qa/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// SearchFilter narrows an answer search. A nil field means "any".
type SearchFilter struct {
	QuestionID *int64
	UserID     *int64
}

type AnswerRepository interface {
	Create(ctx context.Context, answer *model.Answer) error
	GetByID(ctx context.Context, id int64) (*model.Answer, error)
	Update(ctx context.Context, answer *model.Answer) error
	Delete(ctx context.Context, id int64) error
	// Search matches keyword case-insensitively against content. The returned
	// slice is never nil.
	Search(ctx context.Context, keyword string, filter SearchFilter) ([]model.Answer, error)
	Count(ctx context.Context) (int, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id int64) (*model.Question, error)
	// List returns questions ordered by id, oldest first.
	List(ctx context.Context, opts ListOptions) ([]model.Question, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// Store is one open database handle. Close releases it; the repositories it
// handed out must not be used afterwards.
type Store interface {
	Answers() AnswerRepository
	Questions() QuestionRepository
	Users() UserRepository
	Close() error
}
