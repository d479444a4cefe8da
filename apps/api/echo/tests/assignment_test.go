package tests

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/user"
	testutil "github.com/trezcool/darasa/tests"
)

var (
	errPermissionDenied = httpErr{Error: "permission denied"}
	errNotAssigned      = httpErr{Error: "you are not assigned to this assignment"}
	errAlreadyCompleted = httpErr{Error: "assignment already completed"}
	errNotFound         = httpErr{Error: "not found"}
)

func Test_assignmentApi_create(t *testing.T) {
	env := setup(t)

	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher)
	otherTeacher := testutil.CreateUser(t, env.usrRepo, "Other", "other@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, env.usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	token := getToken(t, teacher)
	deadline := time.Now().Add(7 * 24 * time.Hour).UTC()

	reqMsg := "this field is required"
	unknownStudents := marchallObj(t, map[string]string{"assigned_students": "assigned students must be existing students"})

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Teacher required", token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "required fields", token: token, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": reqMsg, "description": reqMsg, "subject": reqMsg, "deadline": reqMsg}),
		},
		{
			name: "unknown assigned student", token: token, wantCode: http.StatusBadRequest,
			body: marchallObj(t, assignment.NewAssignment{
				Title: "Algebra II", Description: "Chapters 3 and 4.", Subject: "Math", Deadline: deadline,
				AssignedStudents: []string{"lol"},
			}),
			wantData: unknownStudents,
		},
		{
			name: "teacher as assigned student", token: token, wantCode: http.StatusBadRequest,
			body: marchallObj(t, assignment.NewAssignment{
				Title: "Algebra II", Description: "Chapters 3 and 4.", Subject: "Math", Deadline: deadline,
				AssignedStudents: []string{otherTeacher.ID},
			}),
			wantData: unknownStudents,
		},
		{
			name: "created (scoped)", token: token, wantCode: http.StatusCreated,
			body: marchallObj(t, assignment.NewAssignment{
				Title: "Algebra II", Description: "Chapters 3 and 4.", Subject: "Math", Deadline: deadline,
				AssignedStudents: []string{student.ID},
			}),
			extra: []string{student.ID},
		},
		{
			name: "created (open)", token: token, wantCode: http.StatusCreated,
			body: marchallObj(t, assignment.NewAssignment{
				Title: "Essay", Description: "Two pages on Things Fall Apart.", Subject: "English", Deadline: deadline,
			}),
			extra: []string{},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/assignments"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)

			if wantAssigned, ok := tt.extra.([]string); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var a assignment.Assignment
				if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if a.ID == "" {
					t.Error("failed! empty assignment id")
				}
				if a.TeacherID != teacher.ID || a.TeacherName != teacher.Name {
					t.Errorf("failed! teacher = (%s, %s); want (%s, %s)", a.TeacherID, a.TeacherName, teacher.ID, teacher.Name)
				}
				if a.AssignedStudents == nil || len(a.AssignedStudents) != len(wantAssigned) {
					t.Fatalf("failed! assigned_students = %v; want %v", a.AssignedStudents, wantAssigned)
				}
				for i, id := range wantAssigned {
					if a.AssignedStudents[i] != id {
						t.Errorf("failed! assigned_students = %v; want %v", a.AssignedStudents, wantAssigned)
					}
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_assignmentApi_query(t *testing.T) {
	env := setup(t)
	deadline := time.Now().Add(24 * time.Hour)

	t1 := testutil.CreateUser(t, env.usrRepo, "Teacher One", "t1@test.cd", "", user.RoleTeacher)
	t2 := testutil.CreateUser(t, env.usrRepo, "Teacher Two", "t2@test.cd", "", user.RoleTeacher)
	s1 := testutil.CreateUser(t, env.usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	s2 := testutil.CreateUser(t, env.usrRepo, "King", "king@test.cd", "", user.RoleStudent)
	a1 := testutil.CreateAssignment(t, env.assignRepo, t1, "Algebra II", "Math", deadline, []string{s1.ID})
	a2 := testutil.CreateAssignment(t, env.assignRepo, t1, "Essay", "English", deadline, nil)
	a3 := testutil.CreateAssignment(t, env.assignRepo, t2, "Optics", "Physics", deadline, nil)

	all := marchallList(t, a1, a2, a3)
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Auth required", path: "/api/assignments", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		// every authenticated role sees every assignment
		{name: "All as teacher", path: "/api/assignments", token: getToken(t, t1), wantData: all},
		{name: "All as assigned student", path: "/api/assignments", token: getToken(t, s1), wantData: all},
		{name: "All as unassigned student", path: "/api/assignments", token: getToken(t, s2), wantData: all},
		// own assignments
		{name: "My as teacher", path: "/api/assignments/my", token: getToken(t, t1), wantData: marchallList(t, a1, a2)},
		{name: "My as other teacher", path: "/api/assignments/my", token: getToken(t, t2), wantData: marchallList(t, a3)},
		{name: "My as assigned student", path: "/api/assignments/my", token: getToken(t, s1), wantData: marchallList(t, a1)},
		{name: "My as unassigned student", path: "/api/assignments/my", token: getToken(t, s2), wantData: empty},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_assignmentApi_complete(t *testing.T) {
	env := setup(t)
	deadline := time.Now().Add(24 * time.Hour)

	t1 := testutil.CreateUser(t, env.usrRepo, "Teacher One", "t1@test.cd", "", user.RoleTeacher)
	s1 := testutil.CreateUser(t, env.usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	s2 := testutil.CreateUser(t, env.usrRepo, "King", "king@test.cd", "", user.RoleStudent)
	scoped := testutil.CreateAssignment(t, env.assignRepo, t1, "Algebra II", "Math", deadline, []string{s1.ID})
	open := testutil.CreateAssignment(t, env.assignRepo, t1, "Essay", "English", deadline, nil)

	s1Token := getToken(t, s1)
	path := func(id string) string { return "/api/assignments/" + id + "/complete" }

	tests := []httpTest{
		{name: "Auth required", path: path(scoped.ID), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Student required", path: path(scoped.ID), token: getToken(t, t1),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "Unknown assignment", path: path("lol"), token: s1Token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Unassigned student", path: path(scoped.ID), token: getToken(t, s2),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errNotAssigned),
		},
		{name: "Completed", path: path(scoped.ID), token: s1Token, wantCode: http.StatusCreated},
		{
			name: "Repeat completion", path: path(scoped.ID), token: s1Token,
			wantCode: http.StatusConflict, wantData: marchallObj(t, errAlreadyCompleted),
		},
		{name: "Open assignment completable by any student", path: path(open.ID), token: getToken(t, s2), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var sub submission.Submission
				if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if sub.ID == "" {
					t.Error("failed! empty submission id")
				}
				if sub.Status != submission.StatusCompleted {
					t.Errorf("failed! status = %s; want %s", sub.Status, submission.StatusCompleted)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_assignmentApi_submissionsQuery(t *testing.T) {
	env := setup(t)
	deadline := time.Now().Add(24 * time.Hour)

	t1 := testutil.CreateUser(t, env.usrRepo, "Teacher One", "t1@test.cd", "", user.RoleTeacher)
	t2 := testutil.CreateUser(t, env.usrRepo, "Teacher Two", "t2@test.cd", "", user.RoleTeacher)
	s1 := testutil.CreateUser(t, env.usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	s2 := testutil.CreateUser(t, env.usrRepo, "King", "king@test.cd", "", user.RoleStudent)
	a := testutil.CreateAssignment(t, env.assignRepo, t1, "Essay", "English", deadline, nil)
	sub1 := testutil.CreateSubmission(t, env.subRepo, a, s1)
	sub2 := testutil.CreateSubmission(t, env.subRepo, a, s2)

	path := "/api/assignments/" + a.ID + "/submissions"

	tests := []httpTest{
		{name: "Auth required", path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Teacher required", path: path, token: getToken(t, s1),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "Unknown assignment", path: "/api/assignments/lol/submissions", token: getToken(t, t1),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Owner only", path: path, token: getToken(t, t2),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{name: "Submissions", path: path, token: getToken(t, t1), wantCode: http.StatusOK, wantData: marchallList(t, sub1, sub2)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_assignmentApi_mySubmissions(t *testing.T) {
	env := setup(t)
	deadline := time.Now().Add(24 * time.Hour)

	t1 := testutil.CreateUser(t, env.usrRepo, "Teacher One", "t1@test.cd", "", user.RoleTeacher)
	s1 := testutil.CreateUser(t, env.usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	s2 := testutil.CreateUser(t, env.usrRepo, "King", "king@test.cd", "", user.RoleStudent)
	a1 := testutil.CreateAssignment(t, env.assignRepo, t1, "Algebra II", "Math", deadline, []string{s1.ID})
	a2 := testutil.CreateAssignment(t, env.assignRepo, t1, "Essay", "English", deadline, nil)
	testutil.CreateSubmission(t, env.subRepo, a1, s1)
	testutil.CreateSubmission(t, env.subRepo, a2, s1)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Student required", token: getToken(t, t1),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "Completed assignments", token: getToken(t, s1), wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.CompletedAssignmentsResponse{CompletedAssignments: []string{a1.ID, a2.ID}}),
		},
		{
			name: "No completions", token: getToken(t, s2), wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.CompletedAssignmentsResponse{CompletedAssignments: []string{}}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/submissions/my"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// Parallel completion requests for the same (assignment, student) must
// record exactly one submission.
func Test_assignmentApi_completeConcurrent(t *testing.T) {
	env := setup(t)

	t1 := testutil.CreateUser(t, env.usrRepo, "Teacher One", "t1@test.cd", "", user.RoleTeacher)
	s1 := testutil.CreateUser(t, env.usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	a := testutil.CreateAssignment(t, env.assignRepo, t1, "Essay", "English", time.Now().Add(24*time.Hour), nil)

	token := getToken(t, s1)
	path := "/api/assignments/" + a.ID + "/complete"

	const n = 20
	codes := make(chan int, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			req, rec := newAuthRequest(http.MethodPost, path, token)
			env.app.ServeHTTP(rec, req)
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	var created, conflict int
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflict++
		default:
			t.Errorf("unexpected status code %d", code)
		}
	}
	if created != 1 {
		t.Errorf("got %d created, want exactly 1", created)
	}
	if conflict != n-1 {
		t.Errorf("got %d conflicts, want %d", conflict, n-1)
	}
}
