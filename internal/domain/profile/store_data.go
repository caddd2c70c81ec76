package profile

import (
	"context"

	"hrhub/internal/apiclient"
)

type Store struct {
	API *apiclient.Client
}

func NewStore(api *apiclient.Client) *Store {
	return &Store{API: api}
}

func (s *Store) Get(ctx context.Context, sess apiclient.Session) (Identity, error) {
	var out Identity
	err := s.API.As(sess).Get(ctx, apiclient.RouteProfile, nil, &out)
	return out, err
}

func (s *Store) Update(ctx context.Context, sess apiclient.Session, body any) (Identity, error) {
	var out Identity
	err := s.API.As(sess).Put(ctx, apiclient.RouteProfile, body, &out)
	return out, err
}

func (s *Store) ChangePassword(ctx context.Context, sess apiclient.Session, current, next string) error {
	return s.API.As(sess).Post(ctx, apiclient.RouteProfilePassword, passwordPayload{CurrentPassword: current, NewPassword: next}, nil)
}
