package people

import (
	"context"
	"net/url"

	"hrhub/internal/forms"
	"hrhub/internal/paginate"
	"hrhub/internal/querycache"
	"hrhub/internal/session"
)

type Service struct {
	store StoreAPI
	cache *querycache.Store
}

func NewService(store StoreAPI, cache *querycache.Store) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) ListUsers(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[User], error) {
	query := querycache.Query{Resource: ResourceUsers, Scope: sess.Snapshot().Scope(), Params: q.Values()}
	return querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (paginate.Page[User], error) {
		return s.store.ListUsers(ctx, sess, q)
	})
}

func (s *Service) GetUser(ctx context.Context, sess *session.Session, id string) (User, error) {
	query := querycache.Query{Resource: ResourceUsers, Scope: sess.Snapshot().Scope(), Params: url.Values{"id": {id}}}
	return querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (User, error) {
		return s.store.GetUser(ctx, sess, id)
	})
}

// CreateUser validates in before anything reaches the backend. On success the users list
// is invalidated.
func (s *Service) CreateUser(ctx context.Context, sess *session.Session, in UserInput) (User, error) {
	in = in.normalized()
	if err := in.Validate(true); err != nil {
		return User{}, err
	}
	user, err := s.store.CreateUser(ctx, sess, in)
	if err != nil {
		return User{}, forms.FromAPI(err, userFields, "could not create user")
	}
	s.cache.Invalidate(ctx, ResourceUsers)
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, sess *session.Session, id string, in UserInput) (User, error) {
	in = in.normalized()
	if err := in.Validate(false); err != nil {
		return User{}, err
	}
	user, err := s.store.UpdateUser(ctx, sess, id, in)
	if err != nil {
		return User{}, forms.FromAPI(err, userFields, "could not update user")
	}
	s.cache.Invalidate(ctx, ResourceUsers)
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, sess *session.Session, id string) error {
	if err := s.store.DeleteUser(ctx, sess, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, ResourceUsers)
	return nil
}

func (s *Service) ListAdmins(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[Admin], error) {
	query := querycache.Query{Resource: ResourceAdmins, Scope: sess.Snapshot().Scope(), Params: q.Values()}
	return querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (paginate.Page[Admin], error) {
		return s.store.ListAdmins(ctx, sess, q)
	})
}

func (s *Service) GetAdmin(ctx context.Context, sess *session.Session, id string) (Admin, error) {
	query := querycache.Query{Resource: ResourceAdmins, Scope: sess.Snapshot().Scope(), Params: url.Values{"id": {id}}}
	return querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (Admin, error) {
		return s.store.GetAdmin(ctx, sess, id)
	})
}

func (s *Service) CreateAdmin(ctx context.Context, sess *session.Session, in AdminInput) (Admin, error) {
	in = in.normalized()
	if err := in.Validate(true); err != nil {
		return Admin{}, err
	}
	admin, err := s.store.CreateAdmin(ctx, sess, in)
	if err != nil {
		return Admin{}, forms.FromAPI(err, adminFields, "could not create admin")
	}
	s.cache.Invalidate(ctx, ResourceAdmins)
	return admin, nil
}

func (s *Service) UpdateAdmin(ctx context.Context, sess *session.Session, id string, in AdminInput) (Admin, error) {
	in = in.normalized()
	if err := in.Validate(false); err != nil {
		return Admin{}, err
	}
	admin, err := s.store.UpdateAdmin(ctx, sess, id, in)
	if err != nil {
		return Admin{}, forms.FromAPI(err, adminFields, "could not update admin")
	}
	s.cache.Invalidate(ctx, ResourceAdmins)
	return admin, nil
}

func (s *Service) DeleteAdmin(ctx context.Context, sess *session.Session, id string) error {
	if err := s.store.DeleteAdmin(ctx, sess, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, ResourceAdmins)
	return nil
}
