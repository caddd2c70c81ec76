package departments

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

var lister = apiclient.Lister[Department]{
	Path: apiclient.RouteDepartments,
	Fields: func(d Department) []string {
		fields := []string{d.Department}
		if d.Leader != nil {
			fields = append(fields, d.Leader.Fullname)
		}
		return fields
	},
}

func (s *Store) List(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Department], error) {
	return apiclient.List(ctx, s.API.As(sess), lister, q)
}

func (s *Store) Get(ctx context.Context, sess apiclient.Session, id string) (Department, error) {
	var out Department
	err := s.API.As(sess).Get(ctx, apiclient.Path(apiclient.RouteDepartments, id), nil, &out)
	return out, err
}

func (s *Store) Create(ctx context.Context, sess apiclient.Session, in Input) (Department, error) {
	var out Department
	err := s.API.As(sess).Post(ctx, apiclient.RouteDepartments, in, &out)
	return out, err
}

func (s *Store) Update(ctx context.Context, sess apiclient.Session, id string, in Input) (Department, error) {
	var out Department
	err := s.API.As(sess).Put(ctx, apiclient.Path(apiclient.RouteDepartments, id), in, &out)
	return out, err
}

func (s *Store) Delete(ctx context.Context, sess apiclient.Session, id string) error {
	return s.API.As(sess).Delete(ctx, apiclient.Path(apiclient.RouteDepartments, id))
}

func (s *Store) AddMembers(ctx context.Context, sess apiclient.Session, id string, memberIDs []string) (Department, error) {
	var out Department
	err := s.API.As(sess).Post(ctx, apiclient.Path(apiclient.RouteDepartments, id, "members"), membersPayload{MemberIDs: memberIDs}, &out)
	return out, err
}

func (s *Store) RemoveMember(ctx context.Context, sess apiclient.Session, id, memberID string) error {
	return s.API.As(sess).Delete(ctx, apiclient.Path(apiclient.RouteDepartments, id, "members", memberID))
}
