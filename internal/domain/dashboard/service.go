package dashboard

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/departments"
	"hrhub/internal/domain/nominations"
	"hrhub/internal/domain/people"
	"hrhub/internal/domain/reviews"
	"hrhub/internal/domain/summaries"
	"hrhub/internal/paginate"
	"hrhub/internal/session"
)

const recentLimit = 5

type PeopleReader interface {
	ListUsers(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[people.User], error)
	ListAdmins(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[people.Admin], error)
}

type DepartmentReader interface {
	List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[departments.Department], error)
}

type ReviewReader interface {
	List(ctx context.Context, sess *session.Session, kind reviews.ListKind, q paginate.Query) (paginate.Page[reviews.Review], error)
}

type NominationReader interface {
	List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[nominations.Row], error)
}

type SummaryReader interface {
	List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[summaries.Summary], error)
}

type Card struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Dashboard struct {
	Role        string              `json:"role"`
	Cards       []Card              `json:"cards"`
	Reviews     []reviews.Review    `json:"reviews"`
	Nominations []nominations.Row   `json:"nominations,omitempty"`
	Summaries   []summaries.Summary `json:"summaries,omitempty"`
}

type Service struct {
	People      PeopleReader
	Departments DepartmentReader
	Reviews     ReviewReader
	Nominations NominationReader
	Summaries   SummaryReader
}

// For composes the dashboard of the session's role. Sections load concurrently and the
// first failure cancels the rest.
func (s *Service) For(ctx context.Context, sess *session.Session) (Dashboard, error) {
	role := sess.Snapshot().Role()
	switch role {
	case auth.RoleAdmin, auth.RoleSuperAdmin:
		return s.admin(ctx, sess, role)
	case auth.RoleManager:
		return s.member(ctx, sess, role, reviews.ListManager)
	case auth.RoleEmployee:
		return s.member(ctx, sess, role, reviews.ListSelf)
	}
	return Dashboard{}, fmt.Errorf("no dashboard for role %q", role)
}

func (s *Service) admin(ctx context.Context, sess *session.Session, role string) (Dashboard, error) {
	one := paginate.Query{Page: 1, Limit: 1}
	var admins, users, depts int
	var recent []reviews.Review

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.People.ListAdmins(ctx, sess, one)
		admins = page.Total
		return err
	})
	g.Go(func() error {
		page, err := s.People.ListUsers(ctx, sess, one)
		users = page.Total
		return err
	})
	g.Go(func() error {
		page, err := s.Departments.List(ctx, sess, one)
		depts = page.Total
		return err
	})
	g.Go(func() error {
		page, err := s.Reviews.List(ctx, sess, reviews.ListAll, paginate.Query{Page: 1, Limit: recentLimit})
		recent = page.Items
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Role: role,
		Cards: []Card{
			{Key: "admins", Label: "Admins", Value: float64(admins)},
			{Key: "users", Label: "Users", Value: float64(users)},
			{Key: "departments", Label: "Departments", Value: float64(depts)},
		},
		Reviews: nonNil(recent),
	}, nil
}

func (s *Service) member(ctx context.Context, sess *session.Session, role string, kind reviews.ListKind) (Dashboard, error) {
	var own paginate.Page[reviews.Review]
	var pending paginate.Page[nominations.Row]
	var sums paginate.Page[summaries.Summary]

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		own, err = s.Reviews.List(ctx, sess, kind, paginate.Query{Page: 1, Limit: recentLimit})
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.Nominations.List(ctx, sess, paginate.Query{Page: 1, Limit: recentLimit, Status: string(nominations.StatusPending)})
		return err
	})
	g.Go(func() (err error) {
		sums, err = s.Summaries.List(ctx, sess, paginate.Query{Page: 1, Limit: paginate.MaxLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	awaiting := make([]summaries.Summary, 0)
	for _, summary := range sums.Items {
		if !summary.IsAcknowledged {
			awaiting = append(awaiting, summary)
		}
	}
	reviewLabel := "My reviews"
	if kind == reviews.ListManager {
		reviewLabel = "Team reviews"
	}
	cards := []Card{
		{Key: "reviews", Label: reviewLabel, Value: float64(own.Total)},
		{Key: "pendingNominations", Label: "Pending nominations", Value: float64(pending.Total)},
		{Key: "summariesAwaiting", Label: "Summaries to acknowledge", Value: float64(len(awaiting))},
	}
	if role == auth.RoleEmployee {
		cards = append(cards, Card{Key: "averageRating", Label: "Average rating", Value: AverageRating(sums.Items)})
	}
	return Dashboard{
		Role:        role,
		Cards:       cards,
		Reviews:     nonNil(own.Items),
		Nominations: pending.Items,
		Summaries:   awaiting,
	}, nil
}

// AverageRating is the mean of the summaries' ratings, rounded to two decimals. Summaries
// without any rating are skipped.
func AverageRating(items []summaries.Summary) float64 {
	var sum float64
	var n int
	for _, s := range items {
		if avg, ok := s.AverageRating(); ok {
			sum += avg
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
