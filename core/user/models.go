package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Theme preferences
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	AllRoles  = []string{RoleStudent, RoleTeacher}
	AllThemes = []string{ThemeLight, ThemeDark}
)

type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	ThemePreference string    `json:"theme_preference"`
	ProfilePhoto    string    `json:"profile_photo,omitempty"`
	PasswordHash    []byte    `json:"-"`
	CreatedAt       time.Time `json:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,userrole"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, nu.Email)
}

// UpdateUser defines what information a User may change on their own profile.
// Empty fields keep their current values.
type UpdateUser struct {
	Name            string `json:"name"`
	ThemePreference string `json:"theme_preference" validate:"omitempty,theme"`
	ProfilePhoto    string `json:"profile_photo" validate:"omitempty,url"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate) error {
	name := core.CleanString(uu.Name)
	if name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}
	if uu.ThemePreference == "" {
		uu.ThemePreference = origUsr.ThemePreference
	}
	if uu.ProfilePhoto == "" {
		uu.ProfilePhoto = origUsr.ProfilePhoto
	}
	return validate.Struct(uu)
}

// Login contains the credentials to authenticate a User.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (l *Login) Validate(validate *validator.Validate) error {
	l.Email = core.CleanString(l.Email, true /* lower */)
	return validate.Struct(l)
}
