package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("assignment not found")

	errUnknownStudents = errors.New("assigned students must be existing students")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		// QueryAllAssignments returns every assignment, ordered by creation time.
		QueryAllAssignments(ctx context.Context) ([]Assignment, error)
		FilterAssignmentsByTeacher(ctx context.Context, teacherID string) ([]Assignment, error)
		// FilterAssignmentsByAssignee returns assignments whose
		// AssignedStudents set explicitly contains the given student.
		FilterAssignmentsByAssignee(ctx context.Context, studentID string) ([]Assignment, error)
	}

	// StudentDirectory resolves student ids during assignment creation.
	StudentDirectory interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
	}
)

func NewService(repo Repository, students StudentDirectory) *Service {
	return &Service{
		repo:     repo,
		students: students,
	}
}

// checkAssignedStudents verifies that every id refers to an existing
// user with the student role.
func (svc *Service) checkAssignedStudents(ctx context.Context, studentIDs []string) error {
	for _, id := range studentIDs {
		usr, err := svc.students.GetByID(ctx, id)
		if err != nil {
			if errors.Cause(err) == user.ErrNotFound {
				return core.NewValidationError(errUnknownStudents,
					core.FieldError{Field: "assigned_students", Error: errUnknownStudents.Error()})
			}
			return errors.Wrap(err, "resolving assigned student")
		}
		if !usr.IsStudent() {
			return core.NewValidationError(errUnknownStudents,
				core.FieldError{Field: "assigned_students", Error: errUnknownStudents.Error()})
		}
	}
	return nil
}

// Create posts a new Assignment owned by the given teacher.
func (svc *Service) Create(ctx context.Context, teacher user.User, na NewAssignment) (Assignment, error) {
	a := Assignment{
		ID:               uuid.New().String(),
		TeacherID:        teacher.ID,
		TeacherName:      teacher.Name,
		Title:            na.Title,
		Description:      na.Description,
		Subject:          na.Subject,
		Deadline:         na.Deadline.UTC(),
		AssignedStudents: na.AssignedStudents,
		CreatedAt:        time.Now().UTC(),
	}
	if a.AssignedStudents == nil {
		a.AssignedStudents = []string{}
	}
	return svc.repo.CreateAssignment(ctx, a)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Assignment, error) {
	return svc.repo.QueryAllAssignments(ctx)
}

// QueryOwnedBy returns assignments created by the given teacher.
func (svc *Service) QueryOwnedBy(ctx context.Context, teacherID string) ([]Assignment, error) {
	return svc.repo.FilterAssignmentsByTeacher(ctx, teacherID)
}

// QueryAssignedTo returns assignments explicitly assigned to the given student.
func (svc *Service) QueryAssignedTo(ctx context.Context, studentID string) ([]Assignment, error) {
	return svc.repo.FilterAssignmentsByAssignee(ctx, studentID)
}
