package reviews

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"hrhub/internal/apiclient"
	"hrhub/internal/domain/nominations"
	"hrhub/internal/domain/summaries"
	"hrhub/internal/forms"
	"hrhub/internal/paginate"
	"hrhub/internal/querycache"
	"hrhub/internal/session"
)

type Service struct {
	store StoreAPI
	cache *querycache.Store
	now   func() time.Time
}

func NewService(store StoreAPI, cache *querycache.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, cache: cache, now: now}
}

func (s *Service) List(ctx context.Context, sess *session.Session, kind ListKind, q paginate.Query) (paginate.Page[Review], error) {
	if kind == "" {
		kind = ListAll
	}
	params := q.Values()
	params.Set("kind", string(kind))
	query := querycache.Query{Resource: ResourceReviews, Scope: sess.Snapshot().Scope(), Params: params}
	return querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (paginate.Page[Review], error) {
		return s.store.List(ctx, sess, kind, q)
	})
}

func (s *Service) Get(ctx context.Context, sess *session.Session, id string) (Review, error) {
	query := querycache.Query{Resource: ResourceReviews, Scope: sess.Snapshot().Scope(), Params: url.Values{"id": {id}}}
	return querycache.Fetch(ctx, s.cache, query, func(ctx context.Context) (Review, error) {
		return s.store.Get(ctx, sess, id)
	})
}

// Create validates in for its type and posts it to that type's endpoint. The new review
// becomes the session's review in progress.
func (s *Service) Create(ctx context.Context, sess *session.Session, in Input) (Review, error) {
	in = in.normalized()
	due, err := in.Validate(s.now())
	if err != nil {
		return Review{}, err
	}
	review, err := s.store.Create(ctx, sess, in.ReviewType, createPayload{
		Subject:     in.Subject,
		Description: in.Description,
		DueDate:     due,
		RevieweeID:  in.RevieweeID,
		NomineeIDs:  in.NomineeIDs,
	})
	if err != nil {
		return Review{}, forms.FromAPI(err, reviewFields, "could not create review")
	}
	s.cache.Invalidate(ctx, ResourceReviews)
	if in.ReviewType == TypePeer {
		s.cache.Invalidate(ctx, nominations.ResourceNominations)
	}
	if review.ID == "" {
		return Review{}, fmt.Errorf("create %s review: %w", strings.ToLower(string(in.ReviewType)), apiclient.ErrEmptyResponse)
	}
	sess.SetCurrentReview(review.ID)
	return review, nil
}

// AddQuestionnaire attaches questions to the session's review in progress.
func (s *Service) AddQuestionnaire(ctx context.Context, sess *session.Session, in QuestionnaireInput) ([]Questionnaire, error) {
	reviewID, ok := sess.CurrentReview()
	if !ok {
		return nil, ErrNoReviewInProgress
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out, err := s.store.AddQuestionnaires(ctx, sess, reviewID, compact(in.Questions))
	if err != nil {
		return nil, forms.FromAPI(err, questionnaireFields, "could not add questionnaire")
	}
	s.cache.Invalidate(ctx, ResourceReviews, ResourceQuestionnaires)
	return out, nil
}

// FinishWizard ends the review in progress and returns its id.
func (s *Service) FinishWizard(sess *session.Session) (string, error) {
	reviewID, ok := sess.CurrentReview()
	if !ok {
		return "", ErrNoReviewInProgress
	}
	sess.ClearCurrentReview()
	return reviewID, nil
}

func (s *Service) SubmitAnswers(ctx context.Context, sess *session.Session, questionnaireID string, in AnswerInput) (Questionnaire, error) {
	if err := in.Validate(); err != nil {
		return Questionnaire{}, err
	}
	in.Answers = compact(in.Answers)
	out, err := s.store.SubmitAnswers(ctx, sess, questionnaireID, in)
	if err != nil {
		return Questionnaire{}, forms.FromAPI(err, answerFields, "could not save answers")
	}
	s.cache.Invalidate(ctx, ResourceReviews, ResourceQuestionnaires, summaries.ResourceSummaries)
	return out, nil
}

func (s *Service) UpdateStatus(ctx context.Context, sess *session.Session, id, status string) (Review, error) {
	v := forms.NewValidator()
	v.Enum("progressStatus", status, Statuses())
	if err := v.Err(); err != nil {
		return Review{}, err
	}
	out, err := s.store.UpdateStatus(ctx, sess, id, status)
	if err != nil {
		return Review{}, forms.FromAPI(err, []string{"progressStatus"}, "could not update review")
	}
	s.cache.Invalidate(ctx, ResourceReviews)
	return out, nil
}
