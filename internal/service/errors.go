package service

import "errors"

// Domain Errors
var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownExam     = errors.New("exam reference does not exist")
	ErrInvalidSchedule = errors.New("end date must be after start date")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidQuestion = errors.New("multiple choice needs at least 2 options and an answer among them")
)
