package departments

import (
	"context"
	"net/url"
	"strings"

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

func (s *Service) List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[Department], error) {
	query := querycache.Query{Resource: ResourceDepartments, Scope: sess.Snapshot().Scope(), Params: q.Values()}
	return querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (paginate.Page[Department], error) {
		return s.store.List(ctx, sess, q)
	})
}

func (s *Service) Get(ctx context.Context, sess *session.Session, id string) (Department, error) {
	query := querycache.Query{Resource: ResourceDepartments, Scope: sess.Snapshot().Scope(), Params: url.Values{"id": {id}}}
	return querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (Department, error) {
		return s.store.Get(ctx, sess, id)
	})
}

func (s *Service) Create(ctx context.Context, sess *session.Session, in Input) (Department, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return Department{}, err
	}
	d, err := s.store.Create(ctx, sess, in)
	if err != nil {
		return Department{}, forms.FromAPI(err, departmentFields, "could not create department")
	}
	s.cache.Invalidate(ctx, ResourceDepartments)
	return d, nil
}

func (s *Service) Update(ctx context.Context, sess *session.Session, id string, in Input) (Department, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return Department{}, err
	}
	d, err := s.store.Update(ctx, sess, id, in)
	if err != nil {
		return Department{}, forms.FromAPI(err, departmentFields, "could not update department")
	}
	s.cache.Invalidate(ctx, ResourceDepartments)
	return d, nil
}

func (s *Service) Delete(ctx context.Context, sess *session.Session, id string) error {
	if err := s.store.Delete(ctx, sess, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, ResourceDepartments)
	return nil
}

// AddMembers adds users to a department, skipping ones already listed as members.
func (s *Service) AddMembers(ctx context.Context, sess *session.Session, id string, memberIDs []string) (Department, error) {
	ids := uniqueIDs(memberIDs)
	v := forms.NewValidator()
	v.Check(len(ids) > 0, "memberIds", "at least one member is required")
	if err := v.Err(); err != nil {
		return Department{}, err
	}
	current, err := s.Get(ctx, sess, id)
	if err != nil {
		return Department{}, err
	}
	fresh := ids[:0]
	for _, memberID := range ids {
		if !current.HasMember(memberID) {
			fresh = append(fresh, memberID)
		}
	}
	if len(fresh) == 0 {
		return current, nil
	}
	d, err := s.store.AddMembers(ctx, sess, id, fresh)
	if err != nil {
		return Department{}, forms.FromAPI(err, departmentFields, "could not add members")
	}
	s.cache.Invalidate(ctx, ResourceDepartments)
	return d, nil
}

func (s *Service) RemoveMember(ctx context.Context, sess *session.Session, id, memberID string) error {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		v := forms.NewValidator()
		v.Add("memberId", "is required")
		return v.Err()
	}
	if err := s.store.RemoveMember(ctx, sess, id, memberID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, ResourceDepartments)
	return nil
}

func (d Department) HasMember(userID string) bool {
	for _, m := range d.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
