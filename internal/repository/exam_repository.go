package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exstem-console/internal/model"
)

const examColumns = `id, title, description, start_date, end_date,
	duration_minutes, total_marks, created_by, created_at, updated_at`

// ExamQuery narrows an exam listing. Zero values are ignored.
type ExamQuery struct {
	Title         string
	StartDateFrom *time.Time
	StartDateTo   *time.Time
	EndDateFrom   *time.Time
	EndDateTo     *time.Time
	CreatedBy     int
}

// ExamInput carries the columns of a new exam.
type ExamInput struct {
	Title           string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	DurationMinutes int
	TotalMarks      *int
	CreatedBy       int
}

// ExamPatch carries the columns to change; nil fields keep their value.
type ExamPatch struct {
	Title           *string
	Description     *string
	StartDate       *time.Time
	EndDate         *time.Time
	DurationMinutes *int
	TotalMarks      *int
}

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// List returns one page of exams matching q, newest first, and the total
// number of matches.
func (r *ExamRepository) List(ctx context.Context, q ExamQuery, limit, offset int) ([]model.Exam, int, error) {
	where, args := q.where()

	// 1. Get total count
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exams`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// 2. Get paginated data
	query := `SELECT ` + examColumns + ` FROM exams` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	exams := []model.Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		exams = append(exams, *e)
	}
	return exams, total, rows.Err()
}

// GetByID retrieves an exam by id.
func (r *ExamRepository) GetByID(ctx context.Context, id int) (*model.Exam, error) {
	e, err := scanExam(r.pool.QueryRow(ctx, `SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
	return e, translate(err)
}

// Create inserts a new exam and returns the stored record.
func (r *ExamRepository) Create(ctx context.Context, in ExamInput) (*model.Exam, error) {
	e, err := scanExam(r.pool.QueryRow(ctx,
		`INSERT INTO exams (title, description, start_date, end_date, duration_minutes, total_marks, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+examColumns,
		in.Title, in.Description, in.StartDate, in.EndDate, in.DurationMinutes, in.TotalMarks, in.CreatedBy,
	))
	return e, translate(err)
}

// Update applies the non-nil fields of p and bumps updated_at.
func (r *ExamRepository) Update(ctx context.Context, id int, p ExamPatch) (*model.Exam, error) {
	e, err := scanExam(r.pool.QueryRow(ctx,
		`UPDATE exams SET
		        title            = COALESCE($2, title),
		        description      = COALESCE($3, description),
		        start_date       = COALESCE($4, start_date),
		        end_date         = COALESCE($5, end_date),
		        duration_minutes = COALESCE($6, duration_minutes),
		        total_marks      = COALESCE($7, total_marks),
		        updated_at       = NOW()
		 WHERE id = $1
		 RETURNING `+examColumns,
		id, p.Title, p.Description, p.StartDate, p.EndDate, p.DurationMinutes, p.TotalMarks,
	))
	return e, translate(err)
}

// Delete removes an exam and, through the foreign key, its questions.
func (r *ExamRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (q ExamQuery) where() (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", placeholder(len(args))))
	}

	if q.Title != "" {
		add(`title ILIKE '%' || ? || '%'`, q.Title)
	}
	if q.StartDateFrom != nil {
		add(`start_date >= ?`, *q.StartDateFrom)
	}
	if q.StartDateTo != nil {
		add(`start_date <= ?`, *q.StartDateTo)
	}
	if q.EndDateFrom != nil {
		add(`end_date >= ?`, *q.EndDateFrom)
	}
	if q.EndDateTo != nil {
		add(`end_date <= ?`, *q.EndDateTo)
	}
	if q.CreatedBy > 0 {
		add(`created_by = ?`, q.CreatedBy)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, " AND "), args
}

func scanExam(row pgx.Row) (*model.Exam, error) {
	var e model.Exam
	var start, end, createdAt, updatedAt time.Time
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &start, &end,
		&e.DurationMinutes, &e.TotalMarks, &e.CreatedBy, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.StartDate = formatTime(start)
	e.EndDate = formatTime(end)
	e.CreatedAt = formatTime(createdAt)
	e.UpdatedAt = formatTime(updatedAt)
	return &e, nil
}
