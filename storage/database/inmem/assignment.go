package inmemdb

import (
	"context"

	"github.com/trezcool/darasa/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[a.ID] = &a
	repo.db.order = append(repo.db.order, a.ID)
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	return repo.filter(func(assignment.Assignment) bool { return true }), nil
}

func (repo *assignmentRepository) FilterAssignmentsByTeacher(ctx context.Context, teacherID string) ([]assignment.Assignment, error) {
	return repo.filter(func(a assignment.Assignment) bool { return a.TeacherID == teacherID }), nil
}

func (repo *assignmentRepository) FilterAssignmentsByAssignee(ctx context.Context, studentID string) ([]assignment.Assignment, error) {
	return repo.filter(func(a assignment.Assignment) bool {
		for _, id := range a.AssignedStudents {
			if id == studentID {
				return true
			}
		}
		return false
	}), nil
}

func (repo *assignmentRepository) filter(match func(assignment.Assignment) bool) []assignment.Assignment {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, id := range repo.db.order {
		if a := repo.db.table[id]; match(*a) {
			assignments = append(assignments, *a)
		}
	}
	return assignments
}
