package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

var _ repository.QuestionRepository = (*QuestionDB)(nil)

type QuestionDB struct {
	pool DBTX
}

const questionColumns = `id, user_id, author, title, content, created_at, updated_at`

func (q *QuestionDB) Create(ctx context.Context, question *model.Question) error {
	now := time.Now().UTC()
	question.CreatedAt = now
	question.UpdatedAt = now

	err := q.pool.QueryRow(ctx,
		`INSERT INTO questions (user_id, author, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		question.UserID,
		question.Author,
		question.Title,
		question.Content,
		question.CreatedAt,
		question.UpdatedAt,
	).Scan(&question.ID)
	if err != nil {
		return fmt.Errorf("postgres: inserting question: %w", err)
	}
	return nil
}

func (q *QuestionDB) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	row := q.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)

	question, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("question", id)
		}
		return nil, fmt.Errorf("postgres: getting question %d: %w", id, err)
	}
	return question, nil
}

// List returns questions oldest first. A zero Limit means no limit.
func (q *QuestionDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Question, error) {
	var limit any // NULL means LIMIT ALL
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	rows, err := q.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions ORDER BY id ASC LIMIT $1 OFFSET $2`,
		limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing questions: %w", err)
	}
	defer rows.Close()

	questions := make([]model.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning question row: %w", err)
		}
		questions = append(questions, *question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating question rows: %w", err)
	}
	return questions, nil
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var question model.Question
	err := row.Scan(
		&question.ID,
		&question.UserID,
		&question.Author,
		&question.Title,
		&question.Content,
		&question.CreatedAt,
		&question.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &question, nil
}
