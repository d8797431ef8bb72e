package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exstem-console/internal/model"
)

const questionColumns = `id, exam_id, text, type, options, correct_answer, points, created_at, updated_at`

// QuestionInput carries the columns of a new question.
type QuestionInput struct {
	ExamID        int
	Text          string
	Type          model.QuestionType
	Options       []string
	CorrectAnswer string
	Points        int
}

// QuestionPatch carries the columns to change. ExamID is always written;
// other nil fields keep their value.
type QuestionPatch struct {
	ExamID        int
	Text          *string
	Type          *model.QuestionType
	Options       []string
	CorrectAnswer *string
	Points        *int
}

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// List returns one page of questions, newest first, and the total count.
func (r *QuestionRepository) List(ctx context.Context, limit, offset int) ([]model.Question, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, *q)
	}
	return questions, total, rows.Err()
}

// GetByID retrieves a question by id.
func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*model.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	return q, translate(err)
}

// Create inserts a new question and returns the stored record.
func (r *QuestionRepository) Create(ctx context.Context, in QuestionInput) (*model.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx,
		`INSERT INTO questions (exam_id, text, type, options, correct_answer, points)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+questionColumns,
		in.ExamID, in.Text, in.Type, in.Options, in.CorrectAnswer, in.Points,
	))
	return q, translate(err)
}

// Update applies p and bumps updated_at. Options are dropped whenever the
// resulting type is not multiple choice.
func (r *QuestionRepository) Update(ctx context.Context, id int, p QuestionPatch) (*model.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx,
		`UPDATE questions SET
		        exam_id        = $2,
		        text           = COALESCE($3, text),
		        type           = COALESCE($4, type),
		        options        = CASE
		                             WHEN COALESCE($4, type) <> 'MultipleChoice' THEN NULL
		                             WHEN $5::jsonb IS NOT NULL THEN $5::jsonb
		                             ELSE options
		                         END,
		        correct_answer = COALESCE($6, correct_answer),
		        points         = COALESCE($7, points),
		        updated_at     = NOW()
		 WHERE id = $1
		 RETURNING `+questionColumns,
		id, p.ExamID, p.Text, p.Type, p.Options, p.CorrectAnswer, p.Points,
	))
	return q, translate(err)
}

// Delete removes a question.
func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var q model.Question
	var createdAt, updatedAt time.Time
	if err := row.Scan(&q.ID, &q.ExamID, &q.Text, &q.Type, &q.Options,
		&q.CorrectAnswer, &q.Points, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	q.CreatedAt = formatTime(createdAt)
	q.UpdatedAt = formatTime(updatedAt)
	return &q, nil
}
