package sqlite

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

// newTestDB opens a fresh in-memory database with the schema applied.
// t.Cleanup closes it when the test (or subtest) finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestQuestion(t *testing.T, db *DB, title string) *model.Question {
	t.Helper()
	q := &model.Question{UserID: 1, Author: "prof", Title: title, Content: "body"}
	if err := db.Questions().Create(context.Background(), q); err != nil {
		t.Fatalf("failed to create test question: %v", err)
	}
	return q
}

func createTestAnswer(t *testing.T, db *DB, questionID int64, content string) *model.Answer {
	t.Helper()
	a := &model.Answer{UserID: 7, QuestionID: questionID, Author: "Test Author", Content: content}
	if err := db.Answers().Create(context.Background(), a); err != nil {
		t.Fatalf("failed to create test answer: %v", err)
	}
	return a
}

// =========================================================================
// CREATE / READ
// =========================================================================

func TestAnswerCreate(t *testing.T) {
	db := newTestDB(t)
	q := createTestQuestion(t, db, "What is a goroutine?")

	a := &model.Answer{UserID: 3, QuestionID: q.ID, Author: "Alice", Content: "A lightweight thread."}
	if err := db.Answers().Create(context.Background(), a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if a.ID == 0 {
		t.Error("Create() did not set ID")
	}
	if a.CreatedAt.IsZero() {
		t.Error("Create() did not set CreatedAt")
	}

	got, err := db.Answers().GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Author != "Alice" || got.Content != "A lightweight thread." {
		t.Errorf("GetByID() = %+v, want author Alice and original content", got)
	}
	if got.QuestionID != q.ID || got.UserID != 3 {
		t.Errorf("GetByID() ids = (user %d, question %d), want (3, %d)", got.UserID, got.QuestionID, q.ID)
	}
	if got.IsSolution {
		t.Error("new answer should not be a solution")
	}
}

func TestAnswerCreate_UnknownQuestion(t *testing.T) {
	db := newTestDB(t)

	a := &model.Answer{UserID: 1, QuestionID: 999, Author: "Bob", Content: "orphan"}
	err := db.Answers().Create(context.Background(), a)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Field != "questionId" {
		t.Errorf("expected field questionId, got %v", err)
	}
}

func TestAnswerGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Answers().GetByID(context.Background(), 42)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// UPDATE / DELETE
// =========================================================================

func TestAnswerUpdate(t *testing.T) {
	db := newTestDB(t)
	q := createTestQuestion(t, db, "Q")
	a := createTestAnswer(t, db, q.ID, "before")

	a.Content = "after"
	a.IsSolution = true
	if err := db.Answers().Update(context.Background(), a); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.Answers().GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Content != "after" {
		t.Errorf("Content = %q, want %q", got.Content, "after")
	}
	if !got.IsSolution {
		t.Error("IsSolution = false, want true")
	}
}

func TestAnswerUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Answers().Update(context.Background(), &model.Answer{ID: 5, Content: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestAnswerDelete(t *testing.T) {
	db := newTestDB(t)
	q := createTestQuestion(t, db, "Q")
	a := createTestAnswer(t, db, q.ID, "doomed")

	if err := db.Answers().Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.Answers().GetByID(context.Background(), a.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	err = db.Answers().Delete(context.Background(), a.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestAnswerDelete_CascadesFromQuestion(t *testing.T) {
	db := newTestDB(t)
	q := createTestQuestion(t, db, "Q")
	createTestAnswer(t, db, q.ID, "one")
	createTestAnswer(t, db, q.ID, "two")

	if _, err := db.conn.Exec(`DELETE FROM questions WHERE id = ?`, q.ID); err != nil {
		t.Fatalf("deleting question: %v", err)
	}

	n, err := db.Answers().Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d after question delete, want 0", n)
	}
}

// =========================================================================
// SEARCH / COUNT
// =========================================================================

func TestAnswerSearch(t *testing.T) {
	db := newTestDB(t)
	q1 := createTestQuestion(t, db, "Q1")
	q2 := createTestQuestion(t, db, "Q2")
	createTestAnswer(t, db, q1.ID, "Search test: Java programming")
	createTestAnswer(t, db, q1.ID, "Search test: Python programming")
	createTestAnswer(t, db, q2.ID, "Search test: database design")
	createTestAnswer(t, db, q2.ID, "100% JAVA, no_underscores")

	q2ID := q2.ID

	tests := []struct {
		name    string
		keyword string
		filter  repository.SearchFilter
		want    int
	}{
		{"case-insensitive", "java", repository.SearchFilter{}, 2},
		{"upper keyword", "PROGRAMMING", repository.SearchFilter{}, 2},
		{"no match", "haskell", repository.SearchFilter{}, 0},
		{"empty keyword matches all", "", repository.SearchFilter{}, 4},
		{"question filter", "java", repository.SearchFilter{QuestionID: &q2ID}, 1},
		{"percent is literal", "100%", repository.SearchFilter{}, 1},
		{"lone percent", "%", repository.SearchFilter{}, 1},
		{"underscore is literal", "o_u", repository.SearchFilter{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Answers().Search(context.Background(), tt.keyword, tt.filter)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if got == nil {
				t.Fatal("Search() returned nil slice")
			}
			if len(got) != tt.want {
				t.Errorf("Search(%q) returned %d answers, want %d", tt.keyword, len(got), tt.want)
			}
			for _, a := range got {
				if !strings.Contains(strings.ToLower(a.Content), strings.ToLower(tt.keyword)) {
					t.Errorf("result %q does not contain %q", a.Content, tt.keyword)
				}
			}
		})
	}
}

// Case folding has to cover more than ASCII: É and é are the same letter.
func TestAnswerSearch_NonASCIICase(t *testing.T) {
	db := newTestDB(t)
	q := createTestQuestion(t, db, "Q1")
	createTestAnswer(t, db, q.ID, "Notes on ÉCOLE polytechnique")
	createTestAnswer(t, db, q.ID, "Straße und Fluss")

	tests := []struct {
		keyword string
		want    int
	}{
		{"école", 1},
		{"ÉCOLE", 1},
		{"École Polytechnique", 1},
		{"STRASSE", 0}, // lowering is not full case folding
		{"STRAßE", 1},
		{"ecole", 0},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, err := db.Answers().Search(context.Background(), tt.keyword, repository.SearchFilter{})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Search(%q) returned %d answers, want %d", tt.keyword, len(got), tt.want)
			}
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{"ÉCOLE", "école"},
		{[]byte("ÀÖ"), "àö"},
		{nil, nil},
		{int64(42), int64(42)},
	}
	for _, tt := range tests {
		got, err := fold(nil, []driver.Value{tt.in})
		if err != nil {
			t.Fatalf("fold(%v) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("fold(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAnswerSearch_UserFilterOrdered(t *testing.T) {
	db := newTestDB(t)
	q := createTestQuestion(t, db, "Q")
	first := createTestAnswer(t, db, q.ID, "alpha")
	createTestAnswer(t, db, q.ID, "beta")

	other := &model.Answer{UserID: 99, QuestionID: q.ID, Author: "X", Content: "alpha too"}
	if err := db.Answers().Create(context.Background(), other); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	uid := int64(7)
	got, err := db.Answers().Search(context.Background(), "", repository.SearchFilter{UserID: &uid})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Search() returned %d answers, want 2", len(got))
	}
	if got[0].ID != first.ID {
		t.Errorf("first result id = %d, want %d", got[0].ID, first.ID)
	}
}

func TestAnswerCount(t *testing.T) {
	db := newTestDB(t)
	q := createTestQuestion(t, db, "Q")

	n, err := db.Answers().Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() on empty db = %d, want 0", n)
	}

	createTestAnswer(t, db, q.ID, "a")
	createTestAnswer(t, db, q.ID, "b")

	n, err = db.Answers().Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}
