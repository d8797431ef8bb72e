package repository

import (
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownExam is returned when a question references a missing exam.
	ErrUnknownExam = errors.New("referenced exam does not exist")
	// ErrSchedule is returned when an exam would end before it starts.
	ErrSchedule = errors.New("exam end date must be after start date")
)

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return ErrUnknownExam
		case "23514": // check_violation
			if pgErr.ConstraintName == "exams_schedule_check" {
				return ErrSchedule
			}
		}
	}
	return err
}

// placeholder returns the positional parameter for the n-th argument.
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
