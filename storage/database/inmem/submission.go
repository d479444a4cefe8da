package inmemdb

import (
	"context"

	"github.com/trezcool/darasa/core/submission"
)

type submissionRepository struct {
	db *submissionTable
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db.submission}
}

// CreateSubmission checks and inserts under a single write lock, which
// makes the (assignment, student) uniqueness hold under concurrent calls.
func (repo *submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	pair := [2]string{sub.AssignmentID, sub.StudentID}
	if _, exists := repo.db.pairs[pair]; exists {
		return submission.Submission{}, submission.ErrAlreadyCompleted
	}
	repo.db.pairs[pair] = struct{}{}
	repo.db.table[sub.ID] = &sub
	repo.db.order = append(repo.db.order, sub.ID)
	return sub, nil
}

func (repo *submissionRepository) FilterSubmissionsByAssignment(ctx context.Context, assignmentID string) ([]submission.Submission, error) {
	return repo.filter(func(sub submission.Submission) bool { return sub.AssignmentID == assignmentID }), nil
}

func (repo *submissionRepository) FilterSubmissionsByStudent(ctx context.Context, studentID string) ([]submission.Submission, error) {
	return repo.filter(func(sub submission.Submission) bool { return sub.StudentID == studentID }), nil
}

func (repo *submissionRepository) filter(match func(submission.Submission) bool) []submission.Submission {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]submission.Submission, 0)
	for _, id := range repo.db.order {
		if sub := repo.db.table[id]; match(*sub) {
			subs = append(subs, *sub)
		}
	}
	return subs
}
