package people

import (
	"strings"

	"hrhub/internal/domain/auth"
	"hrhub/internal/forms"
)

// Validate checks a user form. Passwords are required on create and optional on update,
// but whenever one is given it must be strong.
func (in UserInput) Validate(create bool) error {
	v := forms.NewValidator()
	v.Required("fullname", in.Fullname)
	v.Email("email", in.Email)
	v.Enum("role", in.Role, auth.UserRoles())
	validatePassword(v, in.Password, create)
	return v.Err()
}

func (in AdminInput) Validate(create bool) error {
	v := forms.NewValidator()
	v.Required("name", in.Name)
	v.Email("email", in.Email)
	v.Enum("role", in.Role, auth.AdminRoles())
	validatePassword(v, in.Password, create)
	return v.Err()
}

func validatePassword(v *forms.Validator, password string, required bool) {
	if password == "" {
		if required {
			v.Add("password", "is required")
		}
		return
	}
	if !auth.IsStrong(password) {
		v.Add("password", "must be a strong password: "+auth.Strength(password).Label)
	}
}

func (in UserInput) normalized() UserInput {
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.TrimSpace(in.Role)
	return in
}

func (in AdminInput) normalized() AdminInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.TrimSpace(in.Role)
	return in
}
