package profile

import (
	"strings"
	"time"

	"hrhub/internal/session"
)

const ResourceProfile = "profile"

// Identity is a user or admin record as the backend sends it. Users carry fullname,
// admins carry name.
type Identity struct {
	ID        string    `json:"id"`
	Fullname  string    `json:"fullname,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (i Identity) User() session.User {
	name := i.Fullname
	if name == "" {
		name = i.Name
	}
	return session.User{
		ID:        i.ID,
		Name:      strings.TrimSpace(name),
		Email:     i.Email,
		Role:      i.Role,
		CreatedAt: i.CreatedAt,
	}
}

type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type passwordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
