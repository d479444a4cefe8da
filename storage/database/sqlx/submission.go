package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/submission"
)

const submissionPairConstraint = "submission_assignment_student_key"

type dbSubmission struct {
	ID           string    `db:"id"`
	AssignmentID string    `db:"assignment_id"`
	StudentID    string    `db:"student_id"`
	StudentName  string    `db:"student_name"`
	CompletedAt  time.Time `db:"completed_at"`
	Status       string    `db:"status"`
}

func (s dbSubmission) toDomain() submission.Submission {
	return submission.Submission{
		ID:           s.ID,
		AssignmentID: s.AssignmentID,
		StudentID:    s.StudentID,
		StudentName:  s.StudentName,
		CompletedAt:  s.CompletedAt,
		Status:       s.Status,
	}
}

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

// CreateSubmission relies on the unique (assignment_id, student_id)
// index: a concurrent duplicate insert loses the race at the database
// and surfaces as ErrAlreadyCompleted.
func (repo submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	query := `
		INSERT INTO submission (id, assignment_id, student_id, student_name, completed_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, query,
		sub.ID, sub.AssignmentID, sub.StudentID, sub.StudentName, sub.CompletedAt, sub.Status,
	)
	if err != nil {
		if isUniqueViolation(errors.Cause(err), submissionPairConstraint) {
			return submission.Submission{}, submission.ErrAlreadyCompleted
		}
		return submission.Submission{}, errors.Wrap(err, "creating submission")
	}
	return sub, nil
}

func (repo submissionRepository) FilterSubmissionsByAssignment(ctx context.Context, assignmentID string) ([]submission.Submission, error) {
	return repo.selectMany(ctx, `SELECT * FROM submission WHERE assignment_id = $1 ORDER BY completed_at`, assignmentID)
}

func (repo submissionRepository) FilterSubmissionsByStudent(ctx context.Context, studentID string) ([]submission.Submission, error) {
	return repo.selectMany(ctx, `SELECT * FROM submission WHERE student_id = $1 ORDER BY completed_at`, studentID)
}

func (repo submissionRepository) selectMany(ctx context.Context, query string, args ...interface{}) ([]submission.Submission, error) {
	var dbSubs []dbSubmission
	if err := repo.db.SelectContext(ctx, &dbSubs, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}

	subs := make([]submission.Submission, 0, len(dbSubs))
	for _, s := range dbSubs {
		subs = append(subs, s.toDomain())
	}
	return subs, nil
}
