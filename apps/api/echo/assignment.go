package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/user"
)

// CompletedAssignmentsResponse lists the assignment ids a student has completed.
type CompletedAssignmentsResponse struct {
	CompletedAssignments []string `json:"completed_assignments"`
}

type assignmentApi struct {
	assignmentSvc *assignment.Service
	submissionSvc *submission.Service
	userSvc       *user.Service
	validate      *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := assignmentApi{
		assignmentSvc: deps.AssignmentSvc,
		submissionSvc: deps.SubmissionSvc,
		userSvc:       deps.UserSvc,
		validate:      deps.Validate,
	}

	ag := g.Group("/assignments", jwt)
	ag.POST("", api.create, teacherMiddleware())
	ag.GET("", api.queryAll)
	ag.GET("/my", api.queryMine)
	ag.POST("/:id/complete", api.complete, studentMiddleware())
	ag.GET("/:id/submissions", api.querySubmissions, teacherMiddleware())

	sg := g.Group("/submissions", jwt)
	sg.GET("/my", api.queryMySubmissions, studentMiddleware())
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	var data assignment.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	reqCtx := ctx.Request().Context()
	if err = data.Validate(reqCtx, api.validate, api.assignmentSvc); err != nil {
		return err
	}

	a, err := api.assignmentSvc.Create(reqCtx, teacher, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

// queryAll returns every assignment to any authenticated role; metadata
// visibility is universal even for scoped assignments, only completion
// eligibility is restricted.
func (api *assignmentApi) queryAll(ctx echo.Context) error {
	assignments, err := api.assignmentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

// queryMine returns the caller's own assignments: created ones for a
// teacher, explicitly assigned ones for a student.
func (api *assignmentApi) queryMine(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	var assignments []assignment.Assignment
	if usr.IsTeacher() {
		assignments, err = api.assignmentSvc.QueryOwnedBy(reqCtx, usr.ID)
	} else {
		assignments, err = api.assignmentSvc.QueryAssignedTo(reqCtx, usr.ID)
	}
	if err != nil {
		return errors.Wrap(err, "querying own assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) complete(ctx echo.Context) error {
	student, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	sub, err := api.submissionSvc.Complete(ctx.Request().Context(), student, ctx.Param("id"))
	if err != nil {
		switch errors.Cause(err) {
		case assignment.ErrNotFound:
			return errHttpNotFound
		case submission.ErrNotAssigned:
			return errNotAssigned
		case submission.ErrAlreadyCompleted:
			return errAlreadyCompleted
		}
		return errors.Wrap(err, "completing assignment")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

// querySubmissions returns the submissions of an assignment to its owning teacher.
func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	a, err := api.assignmentSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting assignment")
	}
	if a.TeacherID != teacher.ID {
		return errHttpForbidden
	}

	subs, err := api.submissionSvc.QueryByAssignment(reqCtx, a.ID)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *assignmentApi) queryMySubmissions(ctx echo.Context) error {
	student, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	ids, err := api.submissionSvc.CompletedAssignmentIDs(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "querying own submissions")
	}
	return ctx.JSON(http.StatusOK, CompletedAssignmentsResponse{CompletedAssignments: ids})
}
