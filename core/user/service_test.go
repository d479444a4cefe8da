package user_test

import (
	"context"
	"net/mail"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	testutil "github.com/trezcool/darasa/tests"
)

var conf = &core.Config{
	TestMode:         true,
	AppName:          "Darasa",
	FrontendBaseURL:  "https://darasa.test",
	DefaultFromEmail: "noreply@darasa.test",
}

func setup(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	repo := inmemdb.NewUserRepository(db)
	return user.NewService(conf, repo, emailsvc.NewConsoleServiceMock(conf)), repo
}

func TestService_Register(t *testing.T) {
	svc, _ := setup(t)
	emailsvc.SentMessages = nil // reset

	usr, err := svc.Register(context.Background(), user.NewUser{
		Name:     "Jim Ha",
		Email:    "jim@test.cd",
		Password: "S3cr3tok!",
		Role:     user.RoleTeacher,
	})
	if err != nil {
		t.Fatalf("Register() unexpected error = %v", err)
	}
	if usr.ID == "" {
		t.Error("Register() did not set an id")
	}
	if usr.ThemePreference != user.ThemeLight {
		t.Errorf("Register() ThemePreference = %s, want %s", usr.ThemePreference, user.ThemeLight)
	}
	if usr.CreatedAt.IsZero() || !usr.CreatedAt.Equal(usr.UpdatedAt) {
		t.Errorf("Register() timestamps = (%v, %v), want equal non-zero", usr.CreatedAt, usr.UpdatedAt)
	}
	if err = usr.CheckPassword("S3cr3tok!"); err != nil {
		t.Error("Register() did not hash the password")
	}

	// welcome email
	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("len(SentMessages) = %d, want 1", len(emailsvc.SentMessages))
	}
	wantTo := mail.Address{Name: usr.Name, Address: usr.Email}
	if msg := emailsvc.SentMessages[0]; msg.To[0] != wantTo {
		t.Errorf("To = %v, want %v", msg.To[0], wantTo)
	}

	got, err := svc.GetByEmail(context.Background(), "JIM@test.cd")
	if err != nil {
		t.Fatalf("GetByEmail() unexpected error = %v", err)
	}
	if got.ID != usr.ID {
		t.Errorf("GetByEmail() id = %s, want %s", got.ID, usr.ID)
	}
}

func TestService_CheckEmailUniqueness(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, repo, "Taken", "taken@test.cd", "", user.RoleStudent)

	if err := svc.CheckEmailUniqueness(ctx, "free@test.cd"); err != nil {
		t.Errorf("CheckEmailUniqueness() unexpected error = %v", err)
	}

	err := svc.CheckEmailUniqueness(ctx, usr.Email)
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("CheckEmailUniqueness() error = %T, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" {
		t.Errorf("CheckEmailUniqueness() fields = %v, want single email error", vErr.Fields)
	}

	// the owner may keep their own email
	if err := svc.CheckEmailUniqueness(ctx, usr.Email, usr); err != nil {
		t.Errorf("CheckEmailUniqueness() with exclusion unexpected error = %v", err)
	}
}
