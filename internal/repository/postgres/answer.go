package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

var _ repository.AnswerRepository = (*AnswerDB)(nil)

type AnswerDB struct {
	pool DBTX
}

const answerColumns = `id, user_id, question_id, author, content, is_solution, created_at, updated_at`

func (a *AnswerDB) Create(ctx context.Context, answer *model.Answer) error {
	now := time.Now().UTC()
	answer.CreatedAt = now
	answer.UpdatedAt = now

	err := a.pool.QueryRow(ctx,
		`INSERT INTO answers (user_id, question_id, author, content, is_solution, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		answer.UserID,
		answer.QuestionID,
		answer.Author,
		answer.Content,
		answer.IsSolution,
		answer.CreatedAt,
		answer.UpdatedAt,
	).Scan(&answer.ID)
	if err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return apperror.ValidationFailed("questionId",
				fmt.Sprintf("question %d does not exist", answer.QuestionID))
		}
		return fmt.Errorf("postgres: inserting answer: %w", err)
	}
	return nil
}

func (a *AnswerDB) GetByID(ctx context.Context, id int64) (*model.Answer, error) {
	row := a.pool.QueryRow(ctx, `SELECT `+answerColumns+` FROM answers WHERE id = $1`, id)

	answer, err := scanAnswer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("answer", id)
		}
		return nil, fmt.Errorf("postgres: getting answer %d: %w", id, err)
	}
	return answer, nil
}

func (a *AnswerDB) Update(ctx context.Context, answer *model.Answer) error {
	answer.UpdatedAt = time.Now().UTC()

	tag, err := a.pool.Exec(ctx,
		`UPDATE answers SET content = $1, is_solution = $2, updated_at = $3 WHERE id = $4`,
		answer.Content, answer.IsSolution, answer.UpdatedAt, answer.ID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating answer %d: %w", answer.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("answer", answer.ID)
	}
	return nil
}

func (a *AnswerDB) Delete(ctx context.Context, id int64) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM answers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: deleting answer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("answer", id)
	}
	return nil
}

// Search uses ILIKE, so matching ignores case. %, _ and \ in the keyword are
// escaped and match literally.
func (a *AnswerDB) Search(ctx context.Context, keyword string, filter repository.SearchFilter) ([]model.Answer, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if keyword != "" {
		where = append(where, `content ILIKE '%' || `+arg(escapeLike(keyword))+` || '%' ESCAPE '\'`)
	}
	if filter.QuestionID != nil {
		where = append(where, `question_id = `+arg(*filter.QuestionID))
	}
	if filter.UserID != nil {
		where = append(where, `user_id = `+arg(*filter.UserID))
	}

	query := `SELECT ` + answerColumns + ` FROM answers`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY id ASC`

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: searching answers: %w", err)
	}
	defer rows.Close()

	answers := make([]model.Answer, 0)
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning answer row: %w", err)
		}
		answers = append(answers, *answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating answer rows: %w", err)
	}
	return answers, nil
}

func (a *AnswerDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.pool.QueryRow(ctx, `SELECT COUNT(*) FROM answers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: counting answers: %w", err)
	}
	return n, nil
}

func scanAnswer(row pgx.Row) (*model.Answer, error) {
	var answer model.Answer
	err := row.Scan(
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
