package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

var _ repository.QuestionRepository = (*QuestionDB)(nil)

// QuestionDB provides question-related database operations.
type QuestionDB struct {
	conn *sql.DB
}

func (q *QuestionDB) Create(ctx context.Context, question *model.Question) error {
	now := time.Now().UTC()
	question.CreatedAt = now
	question.UpdatedAt = now

	res, err := q.conn.ExecContext(ctx,
		`INSERT INTO questions (user_id, author, title, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		question.UserID,
		question.Author,
		question.Title,
		question.Content,
		question.CreatedAt,
		question.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting question: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading question id: %w", err)
	}
	question.ID = id
	return nil
}

func (q *QuestionDB) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	var question model.Question
	err := q.conn.QueryRowContext(ctx,
		`SELECT id, user_id, author, title, content, created_at, updated_at
		 FROM questions WHERE id = ?`, id,
	).Scan(
		&question.ID,
		&question.UserID,
		&question.Author,
		&question.Title,
		&question.Content,
		&question.CreatedAt,
		&question.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("question", id)
		}
		return nil, fmt.Errorf("sqlite: getting question %d: %w", id, err)
	}
	return &question, nil
}

// List returns questions oldest first. A zero Limit means no limit.
func (q *QuestionDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Question, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // SQLite: negative LIMIT means unbounded
	}

	rows, err := q.conn.QueryContext(ctx,
		`SELECT id, user_id, author, title, content, created_at, updated_at
		 FROM questions ORDER BY id ASC LIMIT ? OFFSET ?`,
		limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing questions: %w", err)
	}
	defer rows.Close()

	questions := make([]model.Question, 0)
	for rows.Next() {
		var question model.Question
		if err := rows.Scan(
			&question.ID,
			&question.UserID,
			&question.Author,
			&question.Title,
			&question.Content,
			&question.CreatedAt,
			&question.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning question row: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating question rows: %w", err)
	}
	return questions, nil
}
