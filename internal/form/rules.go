package form

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/exstem-console/internal/model"
)

// Custom tags reported by the struct-level rules.
const (
	tagAfterStart = "afterstart"
	tagMinOptions = "minoptions"
	tagOneOption  = "oneoption"
)

// minChoiceOptions is the least number of non-blank options a
// multiple-choice question may carry.
const minChoiceOptions = 2

// messages maps "<field>.<tag>" to the text shown under the input.
// Pairs not listed fall back to the validator's English translation.
var messages = map[string]string{
	"title.notblank":                "Title is required",
	"startDate.required":            "Start date is required",
	"startDate.datetime":            "Start date is invalid",
	"endDate.required":              "End date is required",
	"endDate.datetime":              "End date is invalid",
	"endDate." + tagAfterStart:      "End date must be after start date",
	"durationMinutes.gt":            "Duration must be greater than 0",
	"examId.gt":                     "Please select an exam",
	"text.notblank":                 "Question text is required",
	"type.oneof":                    "Question type is invalid",
	"points.gt":                     "Points must be greater than 0",
	"options." + tagMinOptions:      "At least 2 options are required for multiple choice",
	"correctAnswer.required":        "Correct answer is required",
	"correctAnswer." + tagOneOption: "Correct answer must be one of the options",
}

// examRules is the exam draft as seen by the validator.
type examRules struct {
	Title           string         `json:"title" validate:"notblank"`
	StartDate       string         `json:"startDate" validate:"required,datetime=2006-01-02T15:04"`
	EndDate         string         `json:"endDate" validate:"required,datetime=2006-01-02T15:04"`
	DurationMinutes int            `json:"durationMinutes" validate:"gt=0"`
	Location        *time.Location `json:"-" validate:"-"`
}

// questionRules is the question draft as seen by the validator.
type questionRules struct {
	ExamID        int                `json:"examId" validate:"gt=0"`
	Text          string             `json:"text" validate:"notblank"`
	Type          model.QuestionType `json:"type" validate:"oneof=MultipleChoice TrueFalse Essay ShortAnswer"`
	Options       []string           `json:"options"`
	CorrectAnswer string             `json:"correctAnswer"`
	Points        int                `json:"points" validate:"gt=0"`
}

type engine struct {
	validate *govalidator.Validate
	trans    ut.Translator
}

var (
	engineOnce sync.Once
	shared     *engine
)

// rules returns the process-wide validation engine.
func rules() *engine {
	engineOnce.Do(func() {
		v := govalidator.New()

		// Use JSON tag name for field names so errors key by wire field.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ := uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterStructValidation(examSchedule, examRules{})
		v.RegisterStructValidation(questionAnswers, questionRules{})

		shared = &engine{validate: v, trans: trans}
	})
	return shared
}

// check runs every rule on s and returns field → message for each
// violation. All violations are collected; nothing short-circuits
// across fields.
func (e *engine) check(s any) map[string]string {
	fields := make(map[string]string)

	err := e.validate.Struct(s)
	if err == nil {
		return fields
	}

	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		fields["form"] = err.Error()
		return fields
	}
	for _, fe := range ve {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			fields[fe.Field()] = msg
			continue
		}
		fields[fe.Field()] = fe.Translate(e.trans)
	}
	return fields
}

// examSchedule requires the start to be strictly before the end when both
// dates are present and well formed.
func examSchedule(sl govalidator.StructLevel) {
	r := sl.Current().Interface().(examRules)
	if r.StartDate == "" || r.EndDate == "" {
		return
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(model.EditableLayout, r.StartDate, loc)
	if err != nil {
		return
	}
	end, err := time.ParseInLocation(model.EditableLayout, r.EndDate, loc)
	if err != nil {
		return
	}
	if !start.Before(end) {
		sl.ReportError(r.EndDate, "endDate", "EndDate", tagAfterStart, "")
	}
}

// questionAnswers applies the type-dependent option and answer rules.
func questionAnswers(sl govalidator.StructLevel) {
	r := sl.Current().Interface().(questionRules)
	switch r.Type {
	case model.QuestionTypeMultipleChoice:
		if len(NonBlank(r.Options)) < minChoiceOptions {
			sl.ReportError(r.Options, "options", "Options", tagMinOptions, "")
		}
		if strings.TrimSpace(r.CorrectAnswer) == "" {
			sl.ReportError(r.CorrectAnswer, "correctAnswer", "CorrectAnswer", "required", "")
		} else if !isChoice(r.CorrectAnswer, r.Options) {
			sl.ReportError(r.CorrectAnswer, "correctAnswer", "CorrectAnswer", tagOneOption, "")
		}
	case model.QuestionTypeTrueFalse:
		if r.CorrectAnswer == "" {
			sl.ReportError(r.CorrectAnswer, "correctAnswer", "CorrectAnswer", "required", "")
		}
	}
}

// isChoice reports whether answer names one of the non-blank options,
// ignoring surrounding whitespace.
func isChoice(answer string, options []string) bool {
	answer = strings.TrimSpace(answer)
	for _, opt := range NonBlank(options) {
		if strings.TrimSpace(opt) == answer {
			return true
		}
	}
	return false
}

// NonBlank keeps the options whose trimmed text is not empty, in order.
func NonBlank(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if strings.TrimSpace(opt) != "" {
			out = append(out, opt)
		}
	}
	return out
}
