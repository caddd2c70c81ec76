package notifications

import (
	"context"
	"net/url"
	"strconv"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
)

type Store struct {
	API *apiclient.Client
}

func NewStore(api *apiclient.Client) *Store {
	return &Store{API: api}
}

func (s *Store) RegisterDevice(ctx context.Context, sess apiclient.Session, token string) error {
	return s.API.As(sess).Post(ctx, apiclient.RouteDeviceToken, deviceRegistration{Token: token, Platform: "web"}, nil)
}

func (s *Store) Unread(ctx context.Context, sess apiclient.Session, limit int) ([]Notification, error) {
	var out []Notification
	err := s.API.As(sess).Get(ctx, apiclient.RouteUnreadNotifications, url.Values{"limit": {strconv.Itoa(limit)}}, &out)
	return out, err
}

func (s *Store) List(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Notification], error) {
	return apiclient.List(ctx, s.API.As(sess), apiclient.Lister[Notification]{
		Path:   apiclient.RouteNotifications,
		Fields: func(n Notification) []string { return []string{n.Title, n.Body} },
		Status: func(n Notification) string {
			if n.ReadAt != nil {
				return "read"
			}
			return "unread"
		},
	}, q)
}

func (s *Store) MarkRead(ctx context.Context, sess apiclient.Session, id string) error {
	return s.API.As(sess).Patch(ctx, apiclient.Path(apiclient.RouteNotifications, id, "read"), map[string]bool{"read": true}, nil)
}
