package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

// ErrNoQuestions means the database has no question for the checks to attach
// answers to. The checks never create one themselves.
var ErrNoQuestions = errors.New("no questions found in database")

// DefaultChecks returns the five answer CRUD checks in run order.
func DefaultChecks() []Check {
	return []Check{
		{Name: "Test 1: Create Answer", Run: checkCreate},
		{Name: "Test 2: Read Answer", Run: checkRead},
		{Name: "Test 3: Update Answer", Run: checkUpdate},
		{Name: "Test 4: Delete Answer", Run: checkDelete},
		{Name: "Test 5: Search Answers", Run: checkSearch},
	}
}

// firstQuestionID returns the lowest existing question id.
func firstQuestionID(ctx context.Context, env *Env) (int64, error) {
	questions, err := env.Questions.List(ctx, repository.ListOptions{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("loading questions: %w", err)
	}
	if len(questions) == 0 {
		env.Printf("No questions found in database. Please create at least one question first.")
		return 0, ErrNoQuestions
	}
	id := questions[0].ID
	env.Printf("Using existing question with ID: %d", id)
	return id, nil
}

// Creating an answer grows the count by one and echoes the author back.
func checkCreate(ctx context.Context, env *Env) error {
	env.Printf("Testing answer creation with valid data...")

	questionID, err := firstQuestionID(ctx, env)
	if err != nil {
		return err
	}

	before, err := env.Answers.Size(ctx)
	if err != nil {
		return err
	}

	res := env.Answers.Create(ctx, 1, questionID, "John Doe", "This is a test answer.")
	if !res.Success {
		return fmt.Errorf("answer creation failed - %s", res.Message)
	}

	after, err := env.Answers.Size(ctx)
	if err != nil {
		return err
	}
	if after != before+1 {
		return fmt.Errorf("answer count did not increase (before %d, after %d)", before, after)
	}

	if res.Data == nil || res.Data.Author != "John Doe" {
		return errors.New("created answer has incorrect data")
	}

	env.Printf("Answer created successfully with ID: %d", res.Data.ID)
	return nil
}

// An answer read back by id has the id and content it was created with.
func checkRead(ctx context.Context, env *Env) error {
	env.Printf("Testing answer retrieval by ID...")

	questionID, err := firstQuestionID(ctx, env)
	if err != nil {
		return err
	}

	const content = "Test answer for reading."
	created := env.Answers.Create(ctx, 2, questionID, "Jane Smith", content)
	if !created.Success {
		return fmt.Errorf("failed to create test answer - %s", created.Message)
	}
	id := created.Data.ID

	got, err := env.Answers.Read(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return errors.New("retrieved answer is absent")
		}
		return err
	}
	if got.ID != id {
		return fmt.Errorf("retrieved answer has wrong ID (%d, want %d)", got.ID, id)
	}
	if got.Content != content {
		return errors.New("retrieved answer has wrong content")
	}

	env.Printf("Answer retrieved successfully: ID=%d", got.ID)
	return nil
}

// The author can change content and mark their answer as the solution.
func checkUpdate(ctx context.Context, env *Env) error {
	env.Printf("Testing answer update operation...")

	questionID, err := firstQuestionID(ctx, env)
	if err != nil {
		return err
	}

	created := env.Answers.Create(ctx, 3, questionID, "Bob Johnson", "Original content")
	if !created.Success {
		return fmt.Errorf("failed to create test answer - %s", created.Message)
	}
	id := created.Data.ID

	author := &model.User{
		ID:       3,
		Username: "bob",
		Role:     model.RoleStudent,
		Name:     "Bob Johnson",
		Email:    "bob@test.com",
	}

	const newContent = "Updated content"
	res := env.Answers.Update(ctx, id, questionID, author, newContent, true)
	if !res.Success {
		return fmt.Errorf("answer update failed - %s", res.Message)
	}

	got, err := env.Answers.Read(ctx, id)
	if err != nil {
		return err
	}
	if got.Content != newContent {
		return errors.New("content was not updated")
	}
	if !got.IsSolution {
		return errors.New("solution flag was not updated")
	}

	env.Printf("Answer updated successfully")
	return nil
}

// Deleting shrinks the count by one and the answer can no longer be read.
func checkDelete(ctx context.Context, env *Env) error {
	env.Printf("Testing answer deletion operation...")

	questionID, err := firstQuestionID(ctx, env)
	if err != nil {
		return err
	}

	created := env.Answers.Create(ctx, 4, questionID, "Alice Williams", "Answer to be deleted")
	if !created.Success {
		return fmt.Errorf("failed to create test answer - %s", created.Message)
	}
	id := created.Data.ID

	before, err := env.Answers.Size(ctx)
	if err != nil {
		return err
	}

	author := &model.User{
		ID:       4,
		Username: "alice",
		Role:     model.RoleStudent,
		Name:     "Alice Williams",
		Email:    "alice@test.com",
	}

	res := env.Answers.Delete(ctx, id, author)
	if !res.Success {
		return fmt.Errorf("answer deletion failed - %s", res.Message)
	}

	after, err := env.Answers.Size(ctx)
	if err != nil {
		return err
	}
	if after != before-1 {
		return fmt.Errorf("answer count did not decrease (before %d, after %d)", before, after)
	}

	_, err = env.Answers.Read(ctx, id)
	if err == nil {
		return errors.New("answer still exists after deletion")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	env.Printf("Answer deleted successfully")
	return nil
}

// A keyword search finds at least one answer containing the keyword.
func checkSearch(ctx context.Context, env *Env) error {
	env.Printf("Testing answer search operation...")

	questionID, err := firstQuestionID(ctx, env)
	if err != nil {
		return err
	}

	for _, content := range []string{
		"This answer discusses Java programming",
		"This answer is about Python programming",
		"This answer covers database design",
	} {
		if res := env.Answers.Create(ctx, 5, questionID, "Charlie Brown", content); !res.Success {
			return fmt.Errorf("failed to create test answer - %s", res.Message)
		}
	}

	results, err := env.Answers.Search(ctx, "Java", repository.SearchFilter{})
	if err != nil {
		return err
	}
	if results == nil {
		return errors.New("search results are nil")
	}
	if len(results) == 0 {
		return errors.New("search returned no results")
	}

	found := false
	for _, a := range results {
		if strings.Contains(strings.ToLower(a.Content), "java") {
			found = true
			break
		}
	}
	if !found {
		return errors.New("no search results contain the keyword 'Java'")
	}

	env.Printf("Search found %d matching answer(s)", len(results))
	return nil
}
