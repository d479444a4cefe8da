package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/user"
)

type (
	DB struct {
		user       *userTable
		assignment *assignmentTable
		submission *submissionTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		order []string // insertion order
	}

	assignmentTable struct {
		sync.RWMutex
		table map[string]*assignment.Assignment
		order []string // insertion order
	}

	submissionTable struct {
		sync.RWMutex
		table map[string]*submission.Submission
		pairs map[[2]string]struct{} // {assignmentID, studentID}
		order []string
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		assignment: &assignmentTable{table: make(map[string]*assignment.Assignment)},
		submission: &submissionTable{
			table: make(map[string]*submission.Submission),
			pairs: make(map[[2]string]struct{}),
		},
	}
	return db, nil
}
