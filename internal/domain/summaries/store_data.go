package summaries

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

var lister = apiclient.Lister[Summary]{
	Path:   apiclient.RouteSummaries,
	Fields: func(s Summary) []string { return []string{s.Reviewee.Fullname, s.Reviewee.Email} },
	Status: func(s Summary) string {
		if s.IsAcknowledged {
			return "acknowledged"
		}
		return "pending"
	},
}

func (s *Store) List(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Summary], error) {
	return apiclient.List(ctx, s.API.As(sess), lister, q)
}

func (s *Store) Get(ctx context.Context, sess apiclient.Session, id string) (Summary, error) {
	var out Summary
	err := s.API.As(sess).Get(ctx, apiclient.Path(apiclient.RouteSummaries, id), nil, &out)
	return out, err
}

func (s *Store) Acknowledge(ctx context.Context, sess apiclient.Session, id string) (Summary, error) {
	var out Summary
	err := s.API.As(sess).Patch(ctx, apiclient.Path(apiclient.RouteSummaries, id, "acknowledge"), map[string]bool{"isAcknowledged": true}, &out)
	return out, err
}
