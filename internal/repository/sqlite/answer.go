package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

// compile-time check that *AnswerDB implements repository.AnswerRepository
var _ repository.AnswerRepository = (*AnswerDB)(nil)

// AnswerDB provides answer-related database operations.
type AnswerDB struct {
	conn *sql.DB
}

const answerColumns = `id, user_id, question_id, author, content, is_solution, created_at, updated_at`

// Create inserts a new answer and fills in its generated ID and timestamps.
//
// An unknown question_id trips the foreign key and comes back as a
// validation error on "questionId" rather than a raw driver error.
func (a *AnswerDB) Create(ctx context.Context, answer *model.Answer) error {
	now := time.Now().UTC()
	answer.CreatedAt = now
	answer.UpdatedAt = now

	res, err := a.conn.ExecContext(ctx,
		`INSERT INTO answers (user_id, question_id, author, content, is_solution, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		answer.UserID,
		answer.QuestionID,
		answer.Author,
		answer.Content,
		answer.IsSolution,
		answer.CreatedAt,
		answer.UpdatedAt,
	)
	if err != nil {
		if isConstraint(err, codeForeignKey) {
			return apperror.ValidationFailed("questionId",
				fmt.Sprintf("question %d does not exist", answer.QuestionID))
		}
		return fmt.Errorf("sqlite: inserting answer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading answer id: %w", err)
	}
	answer.ID = id
	return nil
}

// GetByID retrieves a single answer. Returns apperror.ErrNotFound if absent.
func (a *AnswerDB) GetByID(ctx context.Context, id int64) (*model.Answer, error) {
	row := a.conn.QueryRowContext(ctx,
		`SELECT `+answerColumns+` FROM answers WHERE id = ?`, id)

	answer, err := scanAnswer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("answer", id)
		}
		return nil, fmt.Errorf("sqlite: getting answer %d: %w", id, err)
	}
	return answer, nil
}

// Update rewrites the content and solution flag of an existing answer.
// Author, owner and question are immutable once created.
func (a *AnswerDB) Update(ctx context.Context, answer *model.Answer) error {
	answer.UpdatedAt = time.Now().UTC()

	result, err := a.conn.ExecContext(ctx,
		`UPDATE answers SET content = ?, is_solution = ?, updated_at = ? WHERE id = ?`,
		answer.Content,
		answer.IsSolution,
		answer.UpdatedAt,
		answer.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating answer %d: %w", answer.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("answer", answer.ID)
	}
	return nil
}

// Delete removes an answer. Returns apperror.ErrNotFound if it did not exist.
func (a *AnswerDB) Delete(ctx context.Context, id int64) error {
	result, err := a.conn.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting answer %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("answer", id)
	}
	return nil
}

// Search returns answers whose content contains keyword, ignoring case
// (Unicode, via fold), ordered by id. LIKE wildcards in the keyword are
// matched literally.
// An empty keyword matches every answer.
func (a *AnswerDB) Search(ctx context.Context, keyword string, filter repository.SearchFilter) ([]model.Answer, error) {
	var (
		where []string
		args  []any
	)
	if keyword != "" {
		where = append(where, `fold(content) LIKE '%' || fold(?) || '%' ESCAPE '\'`)
		args = append(args, escapeLike(keyword))
	}
	if filter.QuestionID != nil {
		where = append(where, `question_id = ?`)
		args = append(args, *filter.QuestionID)
	}
	if filter.UserID != nil {
		where = append(where, `user_id = ?`)
		args = append(args, *filter.UserID)
	}

	query := `SELECT ` + answerColumns + ` FROM answers`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY id ASC`

	rows, err := a.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching answers: %w", err)
	}
	defer rows.Close()

	// Never return nil: callers (and JSON encoding) expect [] for no matches.
	answers := make([]model.Answer, 0)
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning answer row: %w", err)
		}
		answers = append(answers, *answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating answer rows: %w", err)
	}
	return answers, nil
}

// Count returns the number of stored answers.
func (a *AnswerDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM answers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting answers: %w", err)
	}
	return n, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAnswer(s scanner) (*model.Answer, error) {
	var answer model.Answer
	err := s.Scan(
		&answer.ID,
		&answer.UserID,
		&answer.QuestionID,
		&answer.Author,
		&answer.Content,
		&answer.IsSolution,
		&answer.CreatedAt,
		&answer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
