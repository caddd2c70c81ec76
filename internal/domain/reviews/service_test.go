package reviews

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrhub/internal/apiclient"
	"hrhub/internal/domain/auth"
	"hrhub/internal/forms"
	"hrhub/internal/paginate"
	"hrhub/internal/querycache"
	"hrhub/internal/session"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type fakeStore struct {
	emptyCreate bool
	created     []ReviewType
	payloads    []createPayload
	attachedTo  []string
	answerCalls int
}

func (f *fakeStore) List(ctx context.Context, sess apiclient.Session, kind ListKind, q paginate.Query) (paginate.Page[Review], error) {
	return paginate.Slice([]Review{{ID: "r1", ReviewType: TypeSelf}}, q.Request()), nil
}

func (f *fakeStore) Get(ctx context.Context, sess apiclient.Session, id string) (Review, error) {
	return Review{ID: id}, nil
}

func (f *fakeStore) Create(ctx context.Context, sess apiclient.Session, reviewType ReviewType, payload createPayload) (Review, error) {
	f.created = append(f.created, reviewType)
	f.payloads = append(f.payloads, payload)
	if f.emptyCreate {
		return Review{}, nil
	}
	return Review{ID: "r-new", ReviewType: reviewType, Subject: payload.Subject, ProgressStatus: StatusNotStarted}, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, sess apiclient.Session, id, status string) (Review, error) {
	return Review{ID: id, ProgressStatus: status}, nil
}

func (f *fakeStore) AddQuestionnaires(ctx context.Context, sess apiclient.Session, reviewID string, questions []string) ([]Questionnaire, error) {
	f.attachedTo = append(f.attachedTo, reviewID)
	out := make([]Questionnaire, 0, len(questions))
	for _, q := range questions {
		out = append(out, Questionnaire{ID: "q-" + q, Question: q})
	}
	return out, nil
}

func (f *fakeStore) SubmitAnswers(ctx context.Context, sess apiclient.Session, questionnaireID string, in AnswerInput) (Questionnaire, error) {
	f.answerCalls++
	return Questionnaire{ID: questionnaireID, Answers: in.Answers, Ratings: in.Ratings}, nil
}

func newFixture() (*Service, *fakeStore, *session.Session) {
	store := &fakeStore{}
	sess := session.New("s1")
	sess.SignIn(auth.KindUser, session.User{ID: "u1", Role: auth.RoleManager}, "tok", fixedNow.Add(time.Hour))
	svc := NewService(store, querycache.NewStore(querycache.NewMemory(), time.Minute, nil), func() time.Time { return fixedNow })
	return svc, store, sess
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var formErr *forms.Errors
	require.True(t, errors.As(err, &formErr), "expected form errors, got %v", err)
	return formErr.Fields
}

func TestSelfReviewWithEmptySubjectNeverCallsBackend(t *testing.T) {
	svc, store, sess := newFixture()
	_, err := svc.Create(context.Background(), sess, Input{
		ReviewType:  TypeSelf,
		Subject:     "  ",
		Description: "Q2 goals",
		DueDate:     "2026-06-01",
	})
	fields := fieldErrors(t, err)
	assert.Equal(t, "is required", fields["subject"])
	assert.Empty(t, store.created)
	_, ok := sess.CurrentReview()
	assert.False(t, ok)
}

func TestReviewValidationPerType(t *testing.T) {
	base := Input{Subject: "s", Description: "d", DueDate: "2026-06-01"}

	manager := base
	manager.ReviewType = TypeManager
	_, err := manager.Validate(fixedNow)
	assert.Equal(t, "is required", fieldErrors(t, err)["revieweeId"])

	peer := base
	peer.ReviewType = TypePeer
	peer.RevieweeID = "u7"
	peer.NomineeIDs = []string{"u7"}
	_, err = peer.Validate(fixedNow)
	assert.Equal(t, "cannot include the reviewee", fieldErrors(t, err)["nomineeIds"])

	past := base
	past.ReviewType = TypeSelf
	past.DueDate = "2026-04-30"
	_, err = past.Validate(fixedNow)
	assert.Equal(t, "must be in the future", fieldErrors(t, err)["dueDate"])

	bad := base
	bad.ReviewType = TypeSelf
	bad.DueDate = "next week"
	_, err = bad.Validate(fixedNow)
	assert.Contains(t, fieldErrors(t, err)["dueDate"], "valid date")

	ok := base
	ok.ReviewType = TypeSelf
	due, err := ok.Validate(fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2026, due.Year())
}

func TestWizardAttachesQuestionnaireToCreatedReview(t *testing.T) {
	ctx := context.Background()
	svc, store, sess := newFixture()

	_, err := svc.AddQuestionnaire(ctx, sess, QuestionnaireInput{Questions: []string{"Impact?"}})
	assert.ErrorIs(t, err, ErrNoReviewInProgress)
	assert.Empty(t, store.attachedTo)

	review, err := svc.Create(ctx, sess, Input{
		ReviewType:  "peer",
		Subject:     "Peer feedback",
		Description: "Mid-year",
		DueDate:     "2026-06-01T00:00:00Z",
		RevieweeID:  "u7",
		NomineeIDs:  []string{"u8", " u8 ", "u9"},
	})
	require.NoError(t, err)
	assert.Equal(t, []ReviewType{TypePeer}, store.created)
	assert.Equal(t, []string{"u8", "u9"}, store.payloads[0].NomineeIDs)

	current, ok := sess.CurrentReview()
	require.True(t, ok)
	assert.Equal(t, review.ID, current)

	qs, err := svc.AddQuestionnaire(ctx, sess, QuestionnaireInput{Questions: []string{"Impact?", ""}})
	require.NoError(t, err)
	assert.Len(t, qs, 1)
	assert.Equal(t, []string{"r-new"}, store.attachedTo)

	id, err := svc.FinishWizard(sess)
	require.NoError(t, err)
	assert.Equal(t, "r-new", id)
	_, err = svc.FinishWizard(sess)
	assert.ErrorIs(t, err, ErrNoReviewInProgress)
}

func TestCreateWithoutReturnedIDLeavesNoReviewInProgress(t *testing.T) {
	ctx := context.Background()
	svc, store, sess := newFixture()
	store.emptyCreate = true

	_, err := svc.Create(ctx, sess, Input{
		ReviewType:  TypeSelf,
		Subject:     "Self check",
		Description: "Q2",
		DueDate:     "2026-06-01",
	})
	assert.ErrorIs(t, err, apiclient.ErrEmptyResponse)
	assert.Len(t, store.created, 1)
	_, ok := sess.CurrentReview()
	assert.False(t, ok)
}

func TestSubmitAnswersChecksRatingRange(t *testing.T) {
	svc, store, sess := newFixture()
	_, err := svc.SubmitAnswers(context.Background(), sess, "q1", AnswerInput{Answers: []string{"ok"}, Ratings: 6})
	assert.Equal(t, "must be between 0 and 5", fieldErrors(t, err)["ratings"])
	assert.Equal(t, 0, store.answerCalls)

	q, err := svc.SubmitAnswers(context.Background(), sess, "q1", AnswerInput{Answers: []string{"ok"}, Ratings: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, q.Ratings)
}

func TestUpdateStatusValidatesEnum(t *testing.T) {
	svc, _, sess := newFixture()
	_, err := svc.UpdateStatus(context.Background(), sess, "r1", "DONE")
	assert.Contains(t, fieldErrors(t, err), "progressStatus")

	r, err := svc.UpdateStatus(context.Background(), sess, "r1", StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, r.ProgressStatus)
}
