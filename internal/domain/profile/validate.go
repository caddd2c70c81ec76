package profile

import (
	"strings"

	"hrhub/internal/domain/auth"
	"hrhub/internal/forms"
)

var (
	profileFields  = []string{"name", "email"}
	passwordFields = []string{"currentPassword", "newPassword", "confirmPassword"}
)

func (in Input) Validate() error {
	v := forms.NewValidator()
	v.Required("name", in.Name)
	v.Email("email", in.Email)
	return v.Err()
}

// Validate requires a strong new password that differs from the current one.
func (in PasswordInput) Validate() error {
	v := forms.NewValidator()
	v.Required("currentPassword", in.CurrentPassword)
	v.Required("newPassword", in.NewPassword)
	if in.NewPassword != "" {
		v.Check(auth.IsStrong(in.NewPassword), "newPassword", "must be a strong password: "+auth.Strength(in.NewPassword).Label)
		v.Check(in.NewPassword != in.CurrentPassword, "newPassword", "must differ from the current password")
	}
	v.Check(in.ConfirmPassword == in.NewPassword, "confirmPassword", "does not match the new password")
	return v.Err()
}

func (in Input) normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in
}
