package forum

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	utils "StudyBud/pkg/utills"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their form name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return utils.IsUsername(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

func check(s any) *ValidationError {
	ve := &ValidationError{}
	err := validate.Struct(s)
	if err == nil {
		return ve
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		ve.Add("__all__", err.Error())
		return ve
	}
	for _, fe := range errs {
		ve.Add(fe.Field(), describe(fe))
	}
	return ve
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "eqfield":
		return "The two password fields didn't match."
	}
	return "Invalid value."
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Username string `form:"username" validate:"required,max=150,username"`
	Password string `form:"password" validate:"required,min=8"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

func (in *RegisterInput) Normalize() {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
}

func (in *RegisterInput) Validate() error {
	in.Normalize()
	ve := check(in)
	if in.Password != "" {
		if utils.IsAllNumeric(in.Password) {
			ve.Add("password", "This password is entirely numeric.")
		} else if !utils.HasLetter(in.Password) || !utils.HasNumber(in.Password) {
			ve.Add("password", "Password must contain at least one letter and one number.")
		}
		if in.Password == in.Username {
			ve.Add("password", "The password is too similar to the username.")
		}
	}
	return ve.orNil()
}

// RoomInput is the create/update room form. Topic is a free-text topic name.
type RoomInput struct {
	Topic       string `form:"topic" validate:"required,max=200"`
	Name        string `form:"name" validate:"max=200"`
	Description string `form:"description"`
}

func (in *RoomInput) Normalize() {
	in.Topic = strings.TrimSpace(in.Topic)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}

func (in *RoomInput) Validate() error {
	in.Normalize()
	return check(in).orNil()
}

// MessageInput is the room detail post form.
type MessageInput struct {
	Body string `form:"body" validate:"required"`
}

func (in *MessageInput) Validate() error {
	in.Body = strings.TrimSpace(in.Body)
	return check(in).orNil()
}

// UserInput is the profile edit form. AvatarPath is set by the caller after
// storing an upload and is left untouched when empty.
type UserInput struct {
	Username   string `form:"username" validate:"required,max=150,username"`
	Email      string `form:"email" validate:"omitempty,max=254,email"`
	Name       string `form:"name" validate:"max=200"`
	Bio        string `form:"bio"`
	AvatarPath string `form:"-"`
}

func (in *UserInput) Normalize() {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Bio = strings.TrimSpace(in.Bio)
}

func (in *UserInput) Validate() error {
	in.Normalize()
	return check(in).orNil()
}
