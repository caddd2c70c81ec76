package nominations

import (
	"context"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
)

type Store struct {
	API *apiclient.Client
}

func NewStore(api *apiclient.Client) *Store {
	return &Store{API: api}
}

var lister = apiclient.Lister[Nomination]{
	Path: apiclient.RouteNominations,
	Fields: func(n Nomination) []string {
		return []string{n.Nominator.Fullname, n.Nominee.Fullname, n.Reviewee.Fullname}
	},
	Status: func(n Nomination) string { return string(n.NominationStatus) },
}

func (s *Store) List(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Nomination], error) {
	return apiclient.List(ctx, s.API.As(sess), lister, q)
}

func (s *Store) Get(ctx context.Context, sess apiclient.Session, id string) (Nomination, error) {
	var out Nomination
	err := s.API.As(sess).Get(ctx, apiclient.Path(apiclient.RouteNominations, id), nil, &out)
	return out, err
}

func (s *Store) Create(ctx context.Context, sess apiclient.Session, in NominateInput) (Nomination, error) {
	var out Nomination
	err := s.API.As(sess).Post(ctx, apiclient.RouteNominations, in, &out)
	return out, err
}

func (s *Store) SetStatus(ctx context.Context, sess apiclient.Session, id string, status Status) (Nomination, error) {
	var out Nomination
	err := s.API.As(sess).Patch(ctx, apiclient.Path(apiclient.RouteNominations, id), statusUpdate{NominationStatus: status}, &out)
	return out, err
}
