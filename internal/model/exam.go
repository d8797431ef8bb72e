package model

import (
	"net/url"
	"strconv"
)

// Exam is a full exam record as returned by the data service.
// Timestamps keep the wire representation verbatim.
type Exam struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	DurationMinutes int    `json:"durationMinutes"`
	TotalMarks      *int   `json:"totalMarks,omitempty"`
	CreatedBy       int    `json:"createdBy"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// ExamCreate is the payload for creating a new exam.
type ExamCreate struct {
	Title           string `json:"title" binding:"required,notblank,max=255"`
	Description     string `json:"description,omitempty" binding:"omitempty,max=2000"`
	StartDate       string `json:"startDate" binding:"required"`
	EndDate         string `json:"endDate" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1"`
	TotalMarks      *int   `json:"totalMarks,omitempty" binding:"omitempty,min=1"`
	CreatedBy       int    `json:"createdBy" binding:"required,min=1"`
}

// ExamUpdate is the partial payload for updating an existing exam.
// Nil fields are left untouched by the data service.
type ExamUpdate struct {
	Title           *string `json:"title,omitempty" binding:"omitempty,notblank,max=255"`
	Description     *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	StartDate       *string `json:"startDate,omitempty"`
	EndDate         *string `json:"endDate,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty" binding:"omitempty,min=1"`
	TotalMarks      *int    `json:"totalMarks,omitempty" binding:"omitempty,min=1"`
}

// ExamFilter narrows an exam listing. Zero-valued fields are not sent.
type ExamFilter struct {
	Title         string `form:"title"`
	StartDateFrom string `form:"startDateFrom"`
	StartDateTo   string `form:"startDateTo"`
	EndDateFrom   string `form:"endDateFrom"`
	EndDateTo     string `form:"endDateTo"`
	CreatedBy     int    `form:"createdBy"`
}

// Apply appends the non-empty filter fields to q.
func (f ExamFilter) Apply(q url.Values) {
	if f.Title != "" {
		q.Set("title", f.Title)
	}
	if f.StartDateFrom != "" {
		q.Set("startDateFrom", f.StartDateFrom)
	}
	if f.StartDateTo != "" {
		q.Set("startDateTo", f.StartDateTo)
	}
	if f.EndDateFrom != "" {
		q.Set("endDateFrom", f.EndDateFrom)
	}
	if f.EndDateTo != "" {
		q.Set("endDateTo", f.EndDateTo)
	}
	if f.CreatedBy != 0 {
		q.Set("createdBy", strconv.Itoa(f.CreatedBy))
	}
}
