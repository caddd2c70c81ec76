package notifications

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
	"hrhub/internal/session"
)

type Service struct {
	store StoreAPI
}

func New(store StoreAPI) *Service {
	return &Service{store: store}
}

// RegisterDevice issues a device token for the session and hands it to the backend.
// Failure never blocks sign-in: it is logged and surfaced as a toast.
func (s *Service) RegisterDevice(ctx context.Context, sess *session.Session) {
	token := sess.Snapshot().DeviceToken
	if token == "" {
		token = uuid.NewString()
	}
	if err := s.store.RegisterDevice(ctx, sess, token); err != nil {
		slog.Warn("device token registration failed", "sessionId", sess.ID(), "err", err)
		sess.PushToast(session.ToastError, "Notifications unavailable", "Push notifications could not be enabled for this browser.")
		return
	}
	sess.SetDeviceToken(token)
}

// Poll turns unread messages into toasts and marks them read. It returns how many were
// delivered.
func (s *Service) Poll(ctx context.Context, sess *session.Session) (int, error) {
	if !sess.Authenticated() {
		return 0, nil
	}
	unread, err := s.store.Unread(ctx, sess, maxPerPoll)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for _, n := range unread {
		sess.PushToast(session.ToastInfo, n.toastTitle(), n.Body)
		delivered++
		if err := s.store.MarkRead(ctx, sess, n.ID); err != nil {
			if errors.Is(err, apiclient.ErrUnauthorized) {
				return delivered, err
			}
			slog.Warn("notification mark read failed", "notificationId", n.ID, "err", err)
		}
	}
	return delivered, nil
}

// PollAll polls every authenticated session.
func (s *Service) PollAll(ctx context.Context, sessions []*session.Session) int {
	total := 0
	for _, sess := range sessions {
		n, err := s.Poll(ctx, sess)
		if err != nil {
			slog.Warn("notification poll failed", "sessionId", sess.ID(), "err", err)
		}
		total += n
	}
	return total
}

func (s *Service) List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[Notification], error) {
	return s.store.List(ctx, sess, q)
}

func (s *Service) MarkRead(ctx context.Context, sess *session.Session, id string) error {
	return s.store.MarkRead(ctx, sess, id)
}
