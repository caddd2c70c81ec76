package nominations

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"hrhub/internal/forms"
	"hrhub/internal/paginate"
	"hrhub/internal/querycache"
	"hrhub/internal/session"
)

var nominateFields = []string{"nomineeId", "revieweeId", "reviewId"}

type Service struct {
	store StoreAPI
	cache *querycache.Store
}

func NewService(store StoreAPI, cache *querycache.Store) *Service {
	return &Service{store: store, cache: cache}
}

// List returns the viewer's nominations. A status filter must name a known status.
func (s *Service) List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[Row], error) {
	if q.Status != "" {
		status, err := ParseStatus(q.Status)
		if err != nil {
			v := forms.NewValidator()
			v.Add("status", "unknown status")
			return paginate.Page[Row]{}, v.Err()
		}
		q.Status = string(status)
	}
	query := querycache.Query{Resource: ResourceNominations, Scope: sess.Snapshot().Scope(), Params: q.Values()}
	page, err := querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (paginate.Page[Nomination], error) {
		return s.store.List(ctx, sess, q)
	})
	if err != nil {
		return paginate.Page[Row]{}, err
	}
	rows := make([]Row, 0, len(page.Items))
	for _, n := range page.Items {
		rows = append(rows, n.Row())
	}
	return paginate.Page[Row]{
		Items:      rows,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}, nil
}

func (in NominateInput) Validate() error {
	v := forms.NewValidator()
	v.Required("nomineeId", in.NomineeID)
	v.Required("revieweeId", in.RevieweeID)
	if in.NomineeID != "" && in.NomineeID == in.RevieweeID {
		v.Add("nomineeId", "cannot be the reviewee")
	}
	return v.Err()
}

func (s *Service) Nominate(ctx context.Context, sess *session.Session, in NominateInput) (Nomination, error) {
	in.NomineeID = strings.TrimSpace(in.NomineeID)
	in.RevieweeID = strings.TrimSpace(in.RevieweeID)
	in.ReviewID = strings.TrimSpace(in.ReviewID)
	if err := in.Validate(); err != nil {
		return Nomination{}, err
	}
	n, err := s.store.Create(ctx, sess, in)
	if err != nil {
		return Nomination{}, forms.FromAPI(err, nominateFields, "could not create nomination")
	}
	s.cache.Invalidate(ctx, ResourceNominations)
	return n, nil
}

// Respond applies a viewer action to the nomination's current status, sends the target status
// and checks the backend agrees. Only actions from AvailableActions are accepted.
func (s *Service) Respond(ctx context.Context, sess *session.Session, id string, action Action) (Nomination, error) {
	current, err := s.store.Get(ctx, sess, id)
	if err != nil {
		return Nomination{}, err
	}
	if !slices.Contains(AvailableActions(current.NominationStatus), action) {
		return Nomination{}, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, action, current.NominationStatus)
	}
	target, err := Transition(current.NominationStatus, action)
	if err != nil {
		return Nomination{}, err
	}
	updated, err := s.store.SetStatus(ctx, sess, id, target)
	if err != nil {
		return Nomination{}, err
	}
	s.cache.Invalidate(ctx, ResourceNominations)
	if updated.ID == "" {
		updated = current
		updated.NominationStatus = target
	}
	if updated.NominationStatus != target {
		return updated, fmt.Errorf("%w: want %s, got %s", ErrUnexpectedStatus, target, updated.NominationStatus)
	}
	return updated, nil
}
