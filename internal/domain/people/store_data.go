package people

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

var (
	userLister = apiclient.Lister[User]{
		Path:   apiclient.RouteUsers,
		Fields: func(u User) []string { return []string{u.Fullname, u.Email, u.Role} },
		Status: func(u User) string { return u.Role },
	}
	adminLister = apiclient.Lister[Admin]{
		Path:   apiclient.RouteAdmins,
		Fields: func(a Admin) []string { return []string{a.Name, a.Email, a.Role} },
		Status: func(a Admin) string { return a.Role },
	}
)

func (s *Store) ListUsers(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[User], error) {
	return apiclient.List(ctx, s.API.As(sess), userLister, q)
}

func (s *Store) GetUser(ctx context.Context, sess apiclient.Session, id string) (User, error) {
	var out User
	err := s.API.As(sess).Get(ctx, apiclient.Path(apiclient.RouteUsers, id), nil, &out)
	return out, err
}

func (s *Store) CreateUser(ctx context.Context, sess apiclient.Session, in UserInput) (User, error) {
	var out User
	err := s.API.As(sess).Post(ctx, apiclient.RouteUsers, in, &out)
	return out, err
}

func (s *Store) UpdateUser(ctx context.Context, sess apiclient.Session, id string, in UserInput) (User, error) {
	var out User
	err := s.API.As(sess).Put(ctx, apiclient.Path(apiclient.RouteUsers, id), in, &out)
	return out, err
}

func (s *Store) DeleteUser(ctx context.Context, sess apiclient.Session, id string) error {
	return s.API.As(sess).Delete(ctx, apiclient.Path(apiclient.RouteUsers, id))
}

func (s *Store) ListAdmins(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Admin], error) {
	return apiclient.List(ctx, s.API.As(sess), adminLister, q)
}

func (s *Store) GetAdmin(ctx context.Context, sess apiclient.Session, id string) (Admin, error) {
	var out Admin
	err := s.API.As(sess).Get(ctx, apiclient.Path(apiclient.RouteAdmins, id), nil, &out)
	return out, err
}

func (s *Store) CreateAdmin(ctx context.Context, sess apiclient.Session, in AdminInput) (Admin, error) {
	var out Admin
	err := s.API.As(sess).Post(ctx, apiclient.RouteAdmins, in, &out)
	return out, err
}

func (s *Store) UpdateAdmin(ctx context.Context, sess apiclient.Session, id string, in AdminInput) (Admin, error) {
	var out Admin
	err := s.API.As(sess).Put(ctx, apiclient.Path(apiclient.RouteAdmins, id), in, &out)
	return out, err
}

func (s *Store) DeleteAdmin(ctx context.Context, sess apiclient.Session, id string) error {
	return s.API.As(sess).Delete(ctx, apiclient.Path(apiclient.RouteAdmins, id))
}
