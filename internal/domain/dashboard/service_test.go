package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/departments"
	"hrhub/internal/domain/nominations"
	"hrhub/internal/domain/people"
	"hrhub/internal/domain/reviews"
	"hrhub/internal/domain/summaries"
	"hrhub/internal/paginate"
	"hrhub/internal/session"
)

type fakePeople struct{}

func (fakePeople) ListUsers(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[people.User], error) {
	return paginate.Slice(make([]people.User, 7), q.Request()), nil
}

func (fakePeople) ListAdmins(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[people.Admin], error) {
	return paginate.Slice(make([]people.Admin, 2), q.Request()), nil
}

type fakeDepartments struct{ err error }

func (f fakeDepartments) List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[departments.Department], error) {
	return paginate.Slice(make([]departments.Department, 3), q.Request()), f.err
}

type fakeReviews struct{ kinds chan reviews.ListKind }

func (f fakeReviews) List(ctx context.Context, sess *session.Session, kind reviews.ListKind, q paginate.Query) (paginate.Page[reviews.Review], error) {
	f.kinds <- kind
	return paginate.Slice([]reviews.Review{{ID: "r1"}, {ID: "r2"}}, q.Request()), nil
}

type fakeNominations struct{}

func (fakeNominations) List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[nominations.Row], error) {
	rows := []nominations.Row{nominations.Nomination{ID: "n1", NominationStatus: nominations.StatusPending}.Row()}
	return paginate.Slice(rows, q.Request()), nil
}

type fakeSummaries struct{}

func (fakeSummaries) List(ctx context.Context, sess *session.Session, q paginate.Query) (paginate.Page[summaries.Summary], error) {
	three, four := 3.0, 4.5
	return paginate.Slice([]summaries.Summary{
		{ID: "s1", AveragePerformanceRating: &three, IsAcknowledged: true},
		{ID: "s2", AveragePerformanceRating: &four},
		{ID: "s3"},
	}, q.Request()), nil
}

func newService(deptErr error) (*Service, chan reviews.ListKind) {
	kinds := make(chan reviews.ListKind, 4)
	return &Service{
		People:      fakePeople{},
		Departments: fakeDepartments{err: deptErr},
		Reviews:     fakeReviews{kinds: kinds},
		Nominations: fakeNominations{},
		Summaries:   fakeSummaries{},
	}, kinds
}

func sessionFor(role string) *session.Session {
	sess := session.New("s1")
	sess.SignIn(auth.KindForRole(role), session.User{ID: "u1", Role: role}, "tok", time.Now().Add(time.Hour))
	return sess
}

func cardValue(d Dashboard, key string) (float64, bool) {
	for _, c := range d.Cards {
		if c.Key == key {
			return c.Value, true
		}
	}
	return 0, false
}

func TestAdminDashboardTotals(t *testing.T) {
	svc, kinds := newService(nil)
	d, err := svc.For(context.Background(), sessionFor(auth.RoleSuperAdmin))
	require.NoError(t, err)

	admins, _ := cardValue(d, "admins")
	users, _ := cardValue(d, "users")
	depts, _ := cardValue(d, "departments")
	assert.Equal(t, []float64{2, 7, 3}, []float64{admins, users, depts})
	assert.Len(t, d.Reviews, 2)
	assert.Equal(t, reviews.ListAll, <-kinds)
}

func TestEmployeeDashboard(t *testing.T) {
	svc, kinds := newService(nil)
	d, err := svc.For(context.Background(), sessionFor(auth.RoleEmployee))
	require.NoError(t, err)

	assert.Equal(t, reviews.ListSelf, <-kinds)
	avg, ok := cardValue(d, "averageRating")
	require.True(t, ok)
	assert.Equal(t, 3.75, avg)
	awaiting, _ := cardValue(d, "summariesAwaiting")
	assert.Equal(t, 2.0, awaiting)
	assert.Len(t, d.Nominations, 1)
}

func TestManagerDashboardUsesTeamReviews(t *testing.T) {
	svc, kinds := newService(nil)
	d, err := svc.For(context.Background(), sessionFor(auth.RoleManager))
	require.NoError(t, err)
	assert.Equal(t, reviews.ListManager, <-kinds)
	_, hasAverage := cardValue(d, "averageRating")
	assert.False(t, hasAverage)
}

func TestDashboardFailsWhenASectionFails(t *testing.T) {
	boom := errors.New("backend down")
	svc, _ := newService(boom)
	_, err := svc.For(context.Background(), sessionFor(auth.RoleAdmin))
	assert.ErrorIs(t, err, boom)

	_, err = svc.For(context.Background(), session.New("anon"))
	assert.Error(t, err)
}
