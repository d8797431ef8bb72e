package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/repository"
)

// ExamStore is the exam persistence used by ExamService.
type ExamStore interface {
	List(ctx context.Context, q repository.ExamQuery, limit, offset int) ([]model.Exam, int, error)
	GetByID(ctx context.Context, id int) (*model.Exam, error)
	Create(ctx context.Context, in repository.ExamInput) (*model.Exam, error)
	Update(ctx context.Context, id int, p repository.ExamPatch) (*model.Exam, error)
	Delete(ctx context.Context, id int) error
}

// ExamService handles exam business logic.
type ExamService struct {
	examRepo ExamStore
	log      zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(examRepo ExamStore, log zerolog.Logger) *ExamService {
	return &ExamService{
		examRepo: examRepo,
		log:      log.With().Str("component", "exam_service").Logger(),
	}
}

// List returns one page of exams matching filter.
func (s *ExamService) List(ctx context.Context, filter model.ExamFilter, pageIndex, pageSize int) (model.PagedResponse[model.Exam], error) {
	page := NormalizePage(pageIndex, pageSize)

	q, err := examQuery(filter)
	if err != nil {
		return model.PagedResponse[model.Exam]{}, err
	}

	exams, total, err := s.examRepo.List(ctx, q, page.Size, page.Offset)
	if err != nil {
		return model.PagedResponse[model.Exam]{}, fmt.Errorf("list exams: %w", err)
	}
	return model.NewPagedResponse(exams, total, page.Index, page.Size), nil
}

// GetByID retrieves an exam by id.
func (s *ExamService) GetByID(ctx context.Context, id int) (*model.Exam, error) {
	e, err := s.examRepo.GetByID(ctx, id)
	return e, domainError(err)
}

// Create stores a new exam after checking its schedule.
func (s *ExamService) Create(ctx context.Context, req model.ExamCreate) (*model.Exam, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, ErrInvalidSchedule
	}

	e, err := s.examRepo.Create(ctx, repository.ExamInput{
		Title:           req.Title,
		Description:     req.Description,
		StartDate:       start,
		EndDate:         end,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      req.TotalMarks,
		CreatedBy:       req.CreatedBy,
	})
	if err != nil {
		return nil, domainError(err)
	}
	s.log.Info().Int("exam_id", e.ID).Str("title", e.Title).Msg("Exam created")
	return e, nil
}

// Update applies the provided fields of req.
func (s *ExamService) Update(ctx context.Context, id int, req model.ExamUpdate) (*model.Exam, error) {
	patch := repository.ExamPatch{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      req.TotalMarks,
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		patch.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		patch.EndDate = &t
	}
	if patch.StartDate != nil && patch.EndDate != nil && !patch.StartDate.Before(*patch.EndDate) {
		return nil, ErrInvalidSchedule
	}

	e, err := s.examRepo.Update(ctx, id, patch)
	return e, domainError(err)
}

// Delete removes an exam together with its questions.
func (s *ExamService) Delete(ctx context.Context, id int) error {
	if err := s.examRepo.Delete(ctx, id); err != nil {
		return domainError(err)
	}
	s.log.Info().Int("exam_id", id).Msg("Exam deleted")
	return nil
}

func examQuery(f model.ExamFilter) (repository.ExamQuery, error) {
	q := repository.ExamQuery{Title: f.Title, CreatedBy: f.CreatedBy}
	for _, bound := range []struct {
		raw string
		dst **time.Time
	}{
		{f.StartDateFrom, &q.StartDateFrom},
		{f.StartDateTo, &q.StartDateTo},
		{f.EndDateFrom, &q.EndDateFrom},
		{f.EndDateTo, &q.EndDateTo},
	} {
		if bound.raw == "" {
			continue
		}
		t, err := parseDate(bound.raw)
		if err != nil {
			return q, err
		}
		*bound.dst = &t
	}
	return q, nil
}

// parseDate reads a wire timestamp; values without an offset are UTC.
func parseDate(s string) (time.Time, error) {
	t, err := model.ParseTimestamp(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// domainError maps repository sentinels onto service errors.
func domainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrUnknownExam):
		return ErrUnknownExam
	case errors.Is(err, repository.ErrSchedule):
		return ErrInvalidSchedule
	default:
		return err
	}
}
