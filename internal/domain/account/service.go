package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hrhub/internal/apiclient"
	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/profile"
	"hrhub/internal/forms"
	"hrhub/internal/session"
)

var ErrWrongKind = errors.New("account role does not match the sign-in portal")

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	v := forms.NewValidator()
	v.Email("email", c.Email)
	v.Required("password", c.Password)
	return v.Err()
}

type signInResponse struct {
	Token string           `json:"token"`
	User  profile.Identity `json:"user"`
}

// DeviceRegistrar hands the browser's push token to the backend after sign-in.
type DeviceRegistrar interface {
	RegisterDevice(ctx context.Context, sess *session.Session)
}

type Service struct {
	api     *apiclient.Client
	devices DeviceRegistrar
	ttl     time.Duration
	now     func() time.Time
}

func NewService(api *apiclient.Client, devices DeviceRegistrar, ttl time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{api: api, devices: devices, ttl: ttl, now: now}
}

// SignIn authenticates against the user or admin endpoint and fills sess. Bad credentials
// come back as form errors.
func (s *Service) SignIn(ctx context.Context, sess *session.Session, kind auth.Kind, creds Credentials) (session.User, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := creds.Validate(); err != nil {
		return session.User{}, err
	}
	route := apiclient.RouteUserSignIn
	if kind == auth.KindAdmin {
		route = apiclient.RouteAdminSignIn
	}

	var resp signInResponse
	if err := s.api.As(nil).Post(ctx, route, creds, &resp); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return session.User{}, &forms.Errors{Message: "Invalid email or password"}
		}
		return session.User{}, forms.FromAPI(err, []string{"email", "password"}, "sign-in failed")
	}
	if resp.Token == "" {
		return session.User{}, errors.New("sign-in response carried no token")
	}
	user := resp.User.User()
	if user.Role != "" && auth.KindForRole(user.Role) != kind {
		return session.User{}, ErrWrongKind
	}

	sess.SignIn(kind, user, resp.Token, session.ExpiryFor(resp.Token, s.now(), s.ttl))
	slog.Info("signed in", "sessionId", sess.ID(), "kind", kind, "role", user.Role)
	if s.devices != nil {
		s.devices.RegisterDevice(ctx, sess)
	}
	return user, nil
}

// SignOut tells the backend, then clears the session whatever the backend said.
func (s *Service) SignOut(ctx context.Context, sess *session.Session) {
	if sess.Authenticated() {
		if err := s.api.As(sess).Post(ctx, apiclient.RouteSignOut, nil, nil); err != nil && !errors.Is(err, apiclient.ErrUnauthorized) {
			slog.Warn("backend sign-out failed", "sessionId", sess.ID(), "err", err)
		}
	}
	sess.Expire()
}

// Bootstrap refreshes the signed-in user once per restored session. A 401 expires the
// session through the client.
func (s *Service) Bootstrap(ctx context.Context, sess *session.Session) error {
	if !sess.Authenticated() || !sess.MarkBootstrapped() {
		return nil
	}
	var me profile.Identity
	if err := s.api.As(sess).Get(ctx, apiclient.RouteMe, nil, &me); err != nil {
		return err
	}
	sess.SetUser(me.User())
	return nil
}
