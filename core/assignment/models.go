package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/course"
)

type Assignment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CourseCode  string    `json:"course_code"`
	CourseName  string    `json:"course_name"`
	Groups      []string  `json:"groups"`
	DueDate     string    `json:"due_date"` // YYYY-MM-DD
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Due returns local midnight of the due date in loc.
func (a Assignment) Due(loc *time.Location) time.Time {
	d, err := time.ParseInLocation(core.DateLayout, a.DueDate, loc)
	if err != nil {
		return time.Time{}
	}
	return d
}

func (a Assignment) HasAnyGroup(ids []string) bool {
	for _, g := range a.Groups {
		for _, id := range ids {
			if g == id {
				return true
			}
		}
	}
	return false
}

// Context is the text injected into the tutor's system prompt.
func (a Assignment) Context() string {
	ctx := "Assignment: " + a.Title + "\n\nCourse: " + a.CourseCode + " - " + a.CourseName
	if a.Description != nil && *a.Description != "" {
		ctx += "\n\nDescription:\n" + *a.Description
	}
	return ctx
}

// Entry is an Assignment enriched for the dashboard.
type Entry struct {
	Assignment
	DaysRemaining int    `json:"days_remaining"`
	DueLabel      string `json:"due_label"`
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string   `json:"title" validate:"required,max=255"`
	CourseID    string   `json:"course_id" validate:"required"`
	Groups      []string `json:"groups" validate:"required,min=1,unique,dive,groupid"`
	DueDate     string   `json:"due_date" validate:"required,isodate"`
	Description *string  `json:"description"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.CourseID = core.CleanString(na.CourseID)
	na.DueDate = core.CleanString(na.DueDate)
	na.Description = core.CleanStringPtr(na.Description)
	return validate.Struct(na)
}

// QueryFilter selects dashboard entries. Empty or "All" values match everything.
type QueryFilter struct {
	Group  string `query:"group"`
	Course string `query:"course"`
}

func (qf *QueryFilter) Clean() {
	qf.Group = core.CleanString(qf.Group)
	qf.Course = core.CleanString(qf.Course)
	if qf.Group == "All" {
		qf.Group = ""
	}
	if qf.Course == "All" {
		qf.Course = ""
	}
}

func (qf QueryFilter) Match(a Assignment) bool {
	if qf.Group != "" {
		found := false
		for _, g := range a.Groups {
			if g == qf.Group {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return qf.Course == "" || a.CourseCode == qf.Course
}

// CourseOption is one entry of the dashboard's course filter.
type CourseOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Dashboard struct {
	Groups   []string       `json:"groups"` // enabled group ids
	Courses  []CourseOption `json:"courses"`
	Upcoming []Entry        `json:"upcoming"`
	PastDue  []Entry        `json:"past_due"`
}

func courseOf(a Assignment) course.Course {
	return course.Course{Code: a.CourseCode, Name: a.CourseName}
}
