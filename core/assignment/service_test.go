package assignment_test

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/user"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	testutil "github.com/trezcool/darasa/tests"
)

func TestService_Create(t *testing.T) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	svc := assignment.NewService(inmemdb.NewAssignmentRepository(db), nil)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher)
	deadline := time.Date(2026, time.September, 30, 17, 0, 0, 0, time.UTC)

	a, err := svc.Create(ctx, teacher, assignment.NewAssignment{
		Title:       "Algebra II",
		Description: "Chapters 3 and 4.",
		Subject:     "Math",
		Deadline:    deadline,
	})
	if err != nil {
		t.Fatalf("Create() unexpected error = %v", err)
	}
	if a.ID == "" {
		t.Error("Create() did not set an id")
	}
	if a.TeacherID != teacher.ID || a.TeacherName != teacher.Name {
		t.Errorf("Create() teacher = (%s, %s), want (%s, %s)", a.TeacherID, a.TeacherName, teacher.ID, teacher.Name)
	}
	if a.AssignedStudents == nil || len(a.AssignedStudents) != 0 {
		t.Errorf("Create() AssignedStudents = %v, want empty slice", a.AssignedStudents)
	}
	if !a.Deadline.Equal(deadline) {
		t.Errorf("Create() Deadline = %v, want %v", a.Deadline, deadline)
	}
	if a.CreatedAt.IsZero() || a.CreatedAt.Location() != time.UTC {
		t.Errorf("Create() CreatedAt = %v, want a UTC timestamp", a.CreatedAt)
	}

	got, err := svc.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID() unexpected error = %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("GetByID() = %+v, want %+v", got, a)
	}
}

func TestService_queries(t *testing.T) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	assignRepo := inmemdb.NewAssignmentRepository(db)
	svc := assignment.NewService(assignRepo, nil)
	ctx := context.Background()
	deadline := time.Now().Add(24 * time.Hour)

	t1 := testutil.CreateUser(t, usrRepo, "Teacher One", "t1@test.cd", "", user.RoleTeacher)
	t2 := testutil.CreateUser(t, usrRepo, "Teacher Two", "t2@test.cd", "", user.RoleTeacher)
	s1 := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	a1 := testutil.CreateAssignment(t, assignRepo, t1, "Algebra II", "Math", deadline, []string{s1.ID})
	a2 := testutil.CreateAssignment(t, assignRepo, t1, "Essay", "English", deadline, nil)
	a3 := testutil.CreateAssignment(t, assignRepo, t2, "Optics", "Physics", deadline, nil)

	ids := func(assignments []assignment.Assignment) []string {
		out := make([]string, 0, len(assignments))
		for _, a := range assignments {
			out = append(out, a.ID)
		}
		return out
	}
	equal := func(got, want []string) bool {
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}

	all, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll(): %v", err)
	}
	if got, want := ids(all), []string{a1.ID, a2.ID, a3.ID}; !equal(got, want) {
		t.Errorf("QueryAll() = %v, want %v", got, want)
	}

	owned, err := svc.QueryOwnedBy(ctx, t1.ID)
	if err != nil {
		t.Fatalf("QueryOwnedBy(): %v", err)
	}
	if got, want := ids(owned), []string{a1.ID, a2.ID}; !equal(got, want) {
		t.Errorf("QueryOwnedBy() = %v, want %v", got, want)
	}

	// only explicit assignments count; open ones are not listed
	assigned, err := svc.QueryAssignedTo(ctx, s1.ID)
	if err != nil {
		t.Fatalf("QueryAssignedTo(): %v", err)
	}
	if got, want := ids(assigned), []string{a1.ID}; !equal(got, want) {
		t.Errorf("QueryAssignedTo() = %v, want %v", got, want)
	}
}
