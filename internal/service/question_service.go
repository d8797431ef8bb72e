package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/repository"
)

// QuestionStore is the question persistence used by QuestionService.
type QuestionStore interface {
	List(ctx context.Context, limit, offset int) ([]model.Question, int, error)
	GetByID(ctx context.Context, id int) (*model.Question, error)
	Create(ctx context.Context, in repository.QuestionInput) (*model.Question, error)
	Update(ctx context.Context, id int, p repository.QuestionPatch) (*model.Question, error)
	Delete(ctx context.Context, id int) error
}

// QuestionService handles question business logic.
type QuestionService struct {
	questionRepo QuestionStore
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo QuestionStore, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// List returns one page of questions.
func (s *QuestionService) List(ctx context.Context, pageIndex, pageSize int) (model.PagedResponse[model.Question], error) {
	page := NormalizePage(pageIndex, pageSize)

	questions, total, err := s.questionRepo.List(ctx, page.Size, page.Offset)
	if err != nil {
		return model.PagedResponse[model.Question]{}, fmt.Errorf("list questions: %w", err)
	}
	return model.NewPagedResponse(questions, total, page.Index, page.Size), nil
}

// GetByID retrieves a question by id.
func (s *QuestionService) GetByID(ctx context.Context, id int) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	return q, domainError(err)
}

// Create stores a new question. Options are only kept for multiple choice.
func (s *QuestionService) Create(ctx context.Context, req model.QuestionCreate) (*model.Question, error) {
	options := storedOptions(req.Type, req.Options)
	if req.Type == model.QuestionTypeMultipleChoice &&
		(len(options) < 2 || !hasAnswer(options, req.CorrectAnswer)) {
		return nil, ErrInvalidQuestion
	}

	q, err := s.questionRepo.Create(ctx, repository.QuestionInput{
		ExamID:        req.ExamID,
		Text:          req.Text,
		Type:          req.Type,
		Options:       options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
	})
	if err != nil {
		return nil, domainError(err)
	}
	s.log.Info().Int("question_id", q.ID).Int("exam_id", q.ExamID).Msg("Question created")
	return q, nil
}

// Update applies the provided fields of req. Switching the type away from
// multiple choice clears the stored options.
func (s *QuestionService) Update(ctx context.Context, id int, req model.QuestionUpdate) (*model.Question, error) {
	patch := repository.QuestionPatch{
		ExamID:        req.ExamID,
		Text:          req.Text,
		Type:          req.Type,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
	}
	if req.Options != nil {
		patch.Options = nonBlank(req.Options)
		if req.Type != nil && *req.Type == model.QuestionTypeMultipleChoice {
			if len(patch.Options) < 2 || (req.CorrectAnswer != nil && !hasAnswer(patch.Options, *req.CorrectAnswer)) {
				return nil, ErrInvalidQuestion
			}
		}
	}

	q, err := s.questionRepo.Update(ctx, id, patch)
	return q, domainError(err)
}

// Delete removes a question.
func (s *QuestionService) Delete(ctx context.Context, id int) error {
	return domainError(s.questionRepo.Delete(ctx, id))
}

func storedOptions(t model.QuestionType, options []string) []string {
	if t != model.QuestionTypeMultipleChoice {
		return nil
	}
	return nonBlank(options)
}

// hasAnswer reports whether answer is one of options, ignoring surrounding
// whitespace. A blank answer never matches.
func hasAnswer(options []string, answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	for _, o := range options {
		if strings.TrimSpace(o) == answer {
			return true
		}
	}
	return false
}

func nonBlank(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if strings.TrimSpace(o) != "" {
			out = append(out, o)
		}
	}
	return out
}
