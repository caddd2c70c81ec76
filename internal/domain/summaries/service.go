package summaries

import (
	"context"
	"net/url"

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

func (s *Service) List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[Summary], error) {
	query := querycache.Query{Resource: ResourceSummaries, Scope: sess.Snapshot().Scope(), Params: q.Values()}
	page, err := querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (paginate.Page[Summary], error) {
		return s.store.List(ctx, sess, q)
	})
	if err != nil {
		return page, err
	}
	items := make([]Summary, len(page.Items))
	for i, item := range page.Items {
		items[i] = item.withAverage()
	}
	page.Items = items
	return page, nil
}

func (s *Service) Get(ctx context.Context, sess *session.Session, id string) (Summary, error) {
	query := querycache.Query{Resource: ResourceSummaries, Scope: sess.Snapshot().Scope(), Params: url.Values{"id": {id}}}
	summary, err := querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (Summary, error) {
		return s.store.Get(ctx, sess, id)
	})
	if err != nil {
		return Summary{}, err
	}
	return summary.withAverage(), nil
}

// Acknowledge marks a summary as read by the reviewee. It can only happen once; a summary
// already acknowledged is rejected without calling the backend.
func (s *Service) Acknowledge(ctx context.Context, sess *session.Session, id string) (Summary, error) {
	current, err := s.Get(ctx, sess, id)
	if err != nil {
		return Summary{}, err
	}
	if current.IsAcknowledged {
		return current, ErrAlreadyAcknowledged
	}
	updated, err := s.store.Acknowledge(ctx, sess, id)
	if err != nil {
		return Summary{}, err
	}
	s.cache.Invalidate(ctx, ResourceSummaries)
	if updated.ID == "" {
		updated = current
	}
	updated.IsAcknowledged = true
	return updated.withAverage(), nil
}
