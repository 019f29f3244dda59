package harness

import (
	"context"
	"fmt"

	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

// SeedQuestion inserts a sample question when the store has none, so the
// checks have something to answer. It reports whether it inserted anything.
func SeedQuestion(ctx context.Context, store repository.Store) (bool, error) {
	existing, err := store.Questions().List(ctx, repository.ListOptions{Limit: 1})
	if err != nil {
		return false, fmt.Errorf("harness: checking for questions: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	q := &model.Question{
		Author:  "Course Staff",
		Title:   "Which language should the homework use?",
		Content: "Share the language you picked for the assignment and why.",
	}
	if err := store.Questions().Create(ctx, q); err != nil {
		return false, fmt.Errorf("harness: seeding question: %w", err)
	}
	return true, nil
}
