package profile

import (
	"context"

	"hrhub/internal/apiclient"
	"hrhub/internal/domain/auth"
	"hrhub/internal/forms"
	"hrhub/internal/session"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Get returns the cached profile, loading it from the backend on first use.
func (s *Service) Get(ctx context.Context, sess *session.Session) (session.User, error) {
	if cached, ok := sess.Profile(); ok {
		return cached, nil
	}
	identity, err := s.store.Get(ctx, sess)
	if err != nil {
		return session.User{}, err
	}
	user := identity.User()
	sess.SetProfile(user)
	return user, nil
}

func (s *Service) Update(ctx context.Context, sess *session.Session, in Input) (session.User, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return session.User{}, err
	}
	body := map[string]string{"email": in.Email}
	if sess.Snapshot().Kind == auth.KindAdmin {
		body["name"] = in.Name
	} else {
		body["fullname"] = in.Name
	}
	identity, err := s.store.Update(ctx, sess, body)
	if err != nil {
		return session.User{}, forms.FromAPI(mapNameField(err), profileFields, "could not update profile")
	}
	user := identity.User()
	if user.ID == "" {
		user = knownUser(sess)
		user.Name = in.Name
		user.Email = in.Email
	}
	if user.ID == "" {
		return session.User{}, apiclient.ErrEmptyResponse
	}
	sess.SetProfile(user)
	sess.SetUser(user)
	return user, nil
}

// knownUser is the cached profile, or the signed-in user when no profile was loaded.
func knownUser(sess *session.Session) session.User {
	if cached, ok := sess.Profile(); ok && cached.ID != "" {
		return cached
	}
	if current := sess.Snapshot().User; current != nil {
		return *current
	}
	return session.User{}
}

func (s *Service) ChangePassword(ctx context.Context, sess *session.Session, in PasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.ChangePassword(ctx, sess, in.CurrentPassword, in.NewPassword); err != nil {
		return forms.FromAPI(err, passwordFields, "could not change password")
	}
	return nil
}

// mapNameField renames the backend's fullname error onto the form's name field.
func mapNameField(err error) error {
	fields, _, ok := apiclient.FieldErrors(err)
	if !ok || fields == nil {
		return err
	}
	if msg, found := fields["fullname"]; found {
		delete(fields, "fullname")
		fields["name"] = msg
	}
	return err
}
