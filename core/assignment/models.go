package assignment

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

type Assignment struct {
	ID               string    `json:"id"`
	TeacherID        string    `json:"teacher_id"`
	TeacherName      string    `json:"teacher_name"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Subject          string    `json:"subject"`
	Deadline         time.Time `json:"deadline"`
	AssignedStudents []string  `json:"assigned_students"`
	CreatedAt        time.Time `json:"created_at"` // UTC
}

// IsOpenTo reports whether the given student may complete this
// assignment. An empty AssignedStudents set opens it to every student.
func (a *Assignment) IsOpenTo(studentID string) bool {
	if len(a.AssignedStudents) == 0 {
		return true
	}
	for _, id := range a.AssignedStudents {
		if id == studentID {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the deadline has passed.
func (a *Assignment) IsOverdue() bool {
	return a.Deadline.Before(time.Now())
}

// NewAssignment contains information needed to create a new Assignment.
// A past Deadline is accepted; it simply renders as overdue.
type NewAssignment struct {
	Title            string    `json:"title" validate:"required"`
	Description      string    `json:"description" validate:"required"`
	Subject          string    `json:"subject" validate:"required"`
	Deadline         time.Time `json:"deadline" validate:"required"`
	AssignedStudents []string  `json:"assigned_students"`
}

func (na *NewAssignment) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Subject = core.CleanString(na.Subject)

	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.checkAssignedStudents(ctx, na.AssignedStudents)
}
