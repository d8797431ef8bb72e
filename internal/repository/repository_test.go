package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestExamQueryWhere(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	where, args := ExamQuery{}.where()
	if where != "" || args != nil {
		t.Errorf("empty query = %q %v", where, args)
	}

	where, args = ExamQuery{Title: "mid", StartDateFrom: &from, CreatedBy: 7}.where()
	want := ` WHERE title ILIKE '%' || $1 || '%' AND start_date >= $2 AND created_by = $3`
	if where != want {
		t.Errorf("where = %q\nwant   %q", where, want)
	}
	if len(args) != 3 || args[0] != "mid" || args[2] != 7 {
		t.Errorf("args = %v", args)
	}
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrNotFound},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ErrUnknownExam},
		{"schedule", &pgconn.PgError{Code: "23514", ConstraintName: "exams_schedule_check"}, ErrSchedule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translate(tc.in); !errors.Is(got, tc.want) {
				t.Errorf("translate = %v, want %v", got, tc.want)
			}
		})
	}

	other := &pgconn.PgError{Code: "23514", ConstraintName: "questions_type_check"}
	if got := translate(other); got != error(other) {
		t.Errorf("unrelated check violation rewritten to %v", got)
	}
}
