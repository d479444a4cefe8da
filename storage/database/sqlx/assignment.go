package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/assignment"
)

type dbAssignment struct {
	ID               string         `db:"id"`
	TeacherID        string         `db:"teacher_id"`
	TeacherName      string         `db:"teacher_name"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	Subject          string         `db:"subject"`
	Deadline         time.Time      `db:"deadline"`
	AssignedStudents pq.StringArray `db:"assigned_students"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (a dbAssignment) toDomain() assignment.Assignment {
	return assignment.Assignment{
		ID:               a.ID,
		TeacherID:        a.TeacherID,
		TeacherName:      a.TeacherName,
		Title:            a.Title,
		Description:      a.Description,
		Subject:          a.Subject,
		Deadline:         a.Deadline,
		AssignedStudents: a.AssignedStudents,
		CreatedAt:        a.CreatedAt,
	}
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	query := `
		INSERT INTO assignment (id, teacher_id, teacher_name, title, description, subject, deadline, assigned_students, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		a.ID, a.TeacherID, a.TeacherName, a.Title, a.Description, a.Subject,
		a.Deadline, pq.StringArray(a.AssignedStudents), a.CreatedAt,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return a, nil
}

func (repo assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var a dbAssignment
	if err := repo.db.GetContext(ctx, &a, `SELECT * FROM assignment WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment by id")
	}
	return a.toDomain(), nil
}

func (repo assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	return repo.selectMany(ctx, `SELECT * FROM assignment ORDER BY created_at`)
}

func (repo assignmentRepository) FilterAssignmentsByTeacher(ctx context.Context, teacherID string) ([]assignment.Assignment, error) {
	return repo.selectMany(ctx, `SELECT * FROM assignment WHERE teacher_id = $1 ORDER BY created_at`, teacherID)
}

func (repo assignmentRepository) FilterAssignmentsByAssignee(ctx context.Context, studentID string) ([]assignment.Assignment, error) {
	return repo.selectMany(ctx, `SELECT * FROM assignment WHERE $1 = ANY(assigned_students) ORDER BY created_at`, studentID)
}

func (repo assignmentRepository) selectMany(ctx context.Context, query string, args ...interface{}) ([]assignment.Assignment, error) {
	var dbAssignments []dbAssignment
	if err := repo.db.SelectContext(ctx, &dbAssignments, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}

	assignments := make([]assignment.Assignment, 0, len(dbAssignments))
	for _, a := range dbAssignments {
		assignments = append(assignments, a.toDomain())
	}
	return assignments, nil
}
