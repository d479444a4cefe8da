package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           email,
		Role:            role,
		ThemePreference: user.ThemeLight,
		CreatedAt:       tstamp,
		UpdatedAt:       tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	teacher user.User,
	title, subject string,
	deadline time.Time,
	assignedStudents []string,
	createdAt ...time.Time,
) assignment.Assignment {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if assignedStudents == nil {
		assignedStudents = make([]string, 0)
	}
	a := assignment.Assignment{
		ID:               uuid.New().String(),
		TeacherID:        teacher.ID,
		TeacherName:      teacher.Name,
		Title:            title,
		Subject:          subject,
		Deadline:         deadline.UTC(),
		AssignedStudents: assignedStudents,
		CreatedAt:        tstamp,
	}
	a, err := repo.CreateAssignment(context.Background(), a)
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

func CreateSubmission(
	t *testing.T,
	repo submission.Repository,
	a assignment.Assignment,
	student user.User,
	completedAt ...time.Time,
) submission.Submission {
	tstamp := time.Now().UTC()
	if len(completedAt) > 0 {
		tstamp = completedAt[0].UTC()
	}
	sub := submission.Submission{
		ID:           uuid.New().String(),
		AssignmentID: a.ID,
		StudentID:    student.ID,
		StudentName:  student.Name,
		CompletedAt:  tstamp,
		Status:       submission.StatusCompleted,
	}
	sub, err := repo.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}
