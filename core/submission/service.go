package submission

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrAlreadyCompleted = errors.New("assignment already completed")
	ErrNotAssigned      = errors.New("not assigned to this assignment")
)

type (
	Repository interface {
		// CreateSubmission fails with ErrAlreadyCompleted when a
		// submission already exists for (assignment, student). The
		// existence check and the insert are atomic per pair.
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		FilterSubmissionsByAssignment(ctx context.Context, assignmentID string) ([]Submission, error)
		FilterSubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error)
	}

	// AssignmentGetter resolves assignments during completion.
	AssignmentGetter interface {
		GetByID(ctx context.Context, id string) (assignment.Assignment, error)
	}

	Service struct {
		repo        Repository
		assignments AssignmentGetter
	}
)

func NewService(repo Repository, assignments AssignmentGetter) *Service {
	return &Service{
		repo:        repo,
		assignments: assignments,
	}
}

// Complete records the student's completion of the given assignment.
// It fails with assignment.ErrNotFound, ErrNotAssigned or
// ErrAlreadyCompleted; duplicate-prevention under concurrent calls is
// delegated to the repository's atomic insert.
func (svc *Service) Complete(ctx context.Context, student user.User, assignmentID string) (Submission, error) {
	a, err := svc.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}
	if !a.IsOpenTo(student.ID) {
		return Submission{}, ErrNotAssigned
	}

	sub := Submission{
		ID:           uuid.New().String(),
		AssignmentID: a.ID,
		StudentID:    student.ID,
		StudentName:  student.Name,
		CompletedAt:  time.Now().UTC(),
		Status:       StatusCompleted,
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

// QueryByAssignment returns the submissions recorded for an assignment.
func (svc *Service) QueryByAssignment(ctx context.Context, assignmentID string) ([]Submission, error) {
	return svc.repo.FilterSubmissionsByAssignment(ctx, assignmentID)
}

// CompletedAssignmentIDs returns the ids of assignments the student has completed.
func (svc *Service) CompletedAssignmentIDs(ctx context.Context, studentID string) ([]string, error) {
	subs, err := svc.repo.FilterSubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.AssignmentID)
	}
	return ids, nil
}
