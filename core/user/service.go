package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// FilterUsersByRole returns all users with the given role,
		// ordered by creation time.
		FilterUsersByRole(ctx context.Context, role string) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		SetUserPassword(ctx context.Context, id string, hash []byte) error
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{
		conf:    conf,
		repo:    repo,
		mailSvc: mailSvc,
	}
}

// CheckEmailUniqueness wraps the repository check into a ValidationError
// pinned on the email field.
func (svc *Service) CheckEmailUniqueness(ctx context.Context, email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclUsers...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register creates a new User and sends them a welcome email.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:              uuid.New().String(),
		Name:            nu.Name,
		Email:           nu.Email,
		Role:            nu.Role,
		ThemePreference: ThemeLight,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// QueryStudents returns all registered students.
func (svc *Service) QueryStudents(ctx context.Context) ([]User, error) {
	return svc.repo.FilterUsersByRole(ctx, RoleStudent)
}

// UpdateProfile applies an owner-initiated profile update. UpdateUser
// must have been validated; it carries the effective new values.
func (svc *Service) UpdateProfile(ctx context.Context, origUsr User, uu UpdateUser) (User, error) {
	origUsr.Name = uu.Name
	origUsr.ThemePreference = uu.ThemePreference
	origUsr.ProfilePhoto = uu.ProfilePhoto
	origUsr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, origUsr)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		TextContent: fmt.Sprintf(
			"Hi %s,\r\n\r\nYour %s account has been created.\r\nLog in at %s to get started.\r\n",
			usr.Name, svc.conf.AppName, svc.conf.FrontendBaseURL,
		),
	})
}
