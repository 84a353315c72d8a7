package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// dbtx is the subset of pgxpool.Pool / pgx.Tx the repositories need.
type dbtx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const questionColumns = `id, question, answer, category, difficulty`

// QuestionRepository stores questions in PostgreSQL.
type QuestionRepository struct {
	db dbtx
}

var _ trivia.QuestionRepository = (*QuestionRepository)(nil)

func NewQuestionRepository(db dbtx) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// List returns every question ordered by id.
func (r *QuestionRepository) List(ctx context.Context) ([]trivia.Question, error) {
	return r.query(ctx, "list questions",
		`SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

// ListByCategory returns the questions of one category ordered by id.
func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]trivia.Question, error) {
	return r.query(ctx, "list questions by category",
		`SELECT `+questionColumns+` FROM questions WHERE category = $1 ORDER BY id`, categoryID)
}

// Search matches term literally; LIKE wildcards in term have no special meaning.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]trivia.Question, error) {
	return r.query(ctx, "search questions",
		`SELECT `+questionColumns+` FROM questions WHERE strpos(lower(question), lower($1)) > 0 ORDER BY id`, term)
}

// Get fetches a question by id.
func (r *QuestionRepository) Get(ctx context.Context, id int64) (trivia.Question, error) {
	var q trivia.Question
	err := r.db.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trivia.Question{}, trivia.ErrQuestionNotFound
		}
		return trivia.Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	return q, nil
}

// Insert stores q in a single statement and returns it with its new id.
func (r *QuestionRepository) Insert(ctx context.Context, q trivia.Question) (trivia.Question, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO questions (question, answer, category, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, q.Question, q.Answer, q.Category, q.Difficulty).Scan(&q.ID)
	if err != nil {
		return trivia.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

// Delete removes a question by id.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return trivia.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) query(ctx context.Context, op, sql string, args ...any) ([]trivia.Question, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	questions := make([]trivia.Question, 0)
	for rows.Next() {
		var q trivia.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return questions, nil
}
